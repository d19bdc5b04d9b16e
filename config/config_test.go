package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPartialOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reforge.yaml")
	text := "project_root: /tmp/proj\ncollection_name: level02\nexport_textures: false\nbake_resolution: 256\n"
	if err := os.WriteFile(path, []byte(text), 0666); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.ProjectRoot != "/tmp/proj" || s.CollectionName != "level02" {
		t.Errorf("overrides lost: %+v", s)
	}
	if s.ExportTextures {
		t.Error("export_textures: false ignored")
	}
	if s.BakeResolution != 256 {
		t.Errorf("bake_resolution = %d", s.BakeResolution)
	}
	// Unset fields keep the defaults.
	if s.ModelsDir != "assets/models" || s.PrefabsDir != "assets/prefabs" {
		t.Errorf("directory defaults lost: %+v", s)
	}
	if s.DefaultMaterial != BUILTIN_DEFAULT_MATERIAL {
		t.Errorf("default material = %q", s.DefaultMaterial)
	}
	if s.BakePadding != 8 {
		t.Errorf("bake_padding default = %d", s.BakePadding)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing settings file did not error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reforge.yaml")
	s := Default()
	s.ProjectRoot = "/tmp/proj"
	s.CollectionName = "arena"
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *back != *s {
		t.Errorf("round trip mismatch:\n%+v\n%+v", s, back)
	}
}
