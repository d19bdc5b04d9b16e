package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const BUILTIN_DEFAULT_MATERIAL = "/builtins/materials/model.material"

// Settings is the whole configuration surface of the exporter. All
// directory fields are relative to ProjectRoot and are referenced in
// generated files as absolute project paths ("/assets/models/...").
type Settings struct {
	ProjectRoot    string `yaml:"project_root"`
	CollectionName string `yaml:"collection_name"`

	ExportVisibleOnly bool `yaml:"export_visible_only"`
	ExportTextures    bool `yaml:"export_textures"`

	DefaultMaterial string `yaml:"default_material"`

	ModelsDir     string `yaml:"models_dir"`
	PrefabsDir    string `yaml:"prefabs_dir"`
	ScenesDir     string `yaml:"scenes_dir"`
	TexturesDir   string `yaml:"textures_dir"`
	CollisionsDir string `yaml:"collisions_dir"`

	// Fallbacks for materials that request a color bake without carrying
	// their own resolution/padding properties.
	BakeResolution int `yaml:"bake_resolution"`
	BakePadding    int `yaml:"bake_padding"`
}

func Default() *Settings {
	return &Settings{
		CollectionName:    "scene_from_blender",
		ExportVisibleOnly: true,
		ExportTextures:    true,
		DefaultMaterial:   BUILTIN_DEFAULT_MATERIAL,
		ModelsDir:         "assets/models",
		PrefabsDir:        "assets/prefabs",
		ScenesDir:         "assets/scenes",
		TexturesDir:       "assets/textures",
		CollisionsDir:     "assets/collisions",
		BakeResolution:    1024,
		BakePadding:       8,
	}
}

// Load reads a settings file on top of the defaults, so partial files are
// fine. Booleans in the file always win over defaults.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read settings %q", path)
	}
	s := Default()
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, errors.Wrapf(err, "parse settings %q", path)
	}
	s.applyDefaults()
	return s, nil
}

func (s *Settings) applyDefaults() {
	d := Default()
	if s.CollectionName == "" {
		s.CollectionName = d.CollectionName
	}
	if s.DefaultMaterial == "" {
		s.DefaultMaterial = d.DefaultMaterial
	}
	if s.ModelsDir == "" {
		s.ModelsDir = d.ModelsDir
	}
	if s.PrefabsDir == "" {
		s.PrefabsDir = d.PrefabsDir
	}
	if s.ScenesDir == "" {
		s.ScenesDir = d.ScenesDir
	}
	if s.TexturesDir == "" {
		s.TexturesDir = d.TexturesDir
	}
	if s.CollisionsDir == "" {
		s.CollisionsDir = d.CollisionsDir
	}
	if s.BakeResolution <= 0 {
		s.BakeResolution = d.BakeResolution
	}
	if s.BakePadding < 0 {
		s.BakePadding = d.BakePadding
	}
}

func (s *Settings) Save(path string) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}
	return os.WriteFile(path, raw, 0666)
}
