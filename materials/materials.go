// Package materials resolves the ordered material bindings of a mesh into
// engine material and texture references.
package materials

import (
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/reforge/reforge/config"
	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/utils"
)

const (
	DEFAULT_TEXTURE       = "/builtins/assets/images/logo/logo_256.png"
	DEFAULT_MATERIAL_NAME = "default"

	PropMaterial = "defold_material"
	PropTexture  = "defold_texture"
)

// Binding is one resolved material slot entry. Name must match the material
// name inside the exported mesh container exactly, or the engine cannot
// link them.
type Binding struct {
	Name     string
	Material string // engine material reference
	Texture  string // engine texture reference
	Source   host.Material // nil for the synthetic default binding
}

type Resolver struct {
	Settings *config.Settings
	Log      *log.Logger
}

// UniqueMaterials returns the mesh's materials deduplicated by identity,
// first-occurrence order preserved, empty slots skipped.
func UniqueMaterials(mesh host.Mesh) []host.Material {
	var out []host.Material
	seen := make(map[host.Material]bool)
	for _, m := range mesh.Slots() {
		if m == nil || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Resolve produces exactly one binding per unique material; a mesh without
// materials yields a single synthetic "default" binding.
func (r *Resolver) Resolve(obj host.Object, mesh host.Mesh) ([]Binding, error) {
	mats := UniqueMaterials(mesh)
	if len(mats) == 0 {
		return []Binding{r.resolveOne(obj, nil)}, nil
	}
	out := make([]Binding, 0, len(mats))
	for _, m := range mats {
		out = append(out, r.resolveOne(obj, m))
	}
	return out, nil
}

func (r *Resolver) resolveOne(obj host.Object, mat host.Material) Binding {
	b := Binding{Name: DEFAULT_MATERIAL_NAME, Source: mat}
	if mat != nil && mat.Name() != "" {
		b.Name = mat.Name()
	}

	if mat != nil {
		b.Material = host.PropString(mat, PropMaterial)
	}
	if b.Material == "" && obj != nil {
		b.Material = host.PropString(obj, PropMaterial)
	}
	if b.Material == "" {
		b.Material = r.Settings.DefaultMaterial
	}
	if b.Material == "" {
		b.Material = config.BUILTIN_DEFAULT_MATERIAL
	}

	if mat != nil {
		b.Texture = host.PropString(mat, PropTexture)
	}
	if b.Texture == "" && obj != nil {
		b.Texture = host.PropString(obj, PropTexture)
	}
	if b.Texture == "" && mat != nil {
		if img := FindBaseColorImage(mat); img != nil {
			b.Texture = r.textureRefForImage(img)
		}
	}
	if b.Texture == "" {
		b.Texture = DEFAULT_TEXTURE
	}
	return b
}

// textureRefForImage either copies the image into the project textures dir
// (export enabled) or references the original by basename at the textures
// location. Returns "" when neither is possible.
func (r *Resolver) textureRefForImage(img host.Image) string {
	s := r.Settings
	if s.ExportTextures {
		name, err := exportImage(img, filepath.Join(s.ProjectRoot, s.TexturesDir))
		if err != nil {
			r.logf("can't export texture %q: %v", img.Name(), err)
			return ""
		}
		return "/" + s.TexturesDir + "/" + name
	}
	if img.FilePath() != "" {
		return "/" + s.TexturesDir + "/" + filepath.Base(img.FilePath())
	}
	return ""
}

// exportImage copies a file-backed image verbatim, or re-encodes a packed
// one as PNG. Returns the filename written into the textures dir.
func exportImage(img host.Image, texturesAbsDir string) (string, error) {
	if err := utils.EnsureDir(texturesAbsDir); err != nil {
		return "", err
	}

	if src := img.FilePath(); src != "" {
		if _, err := os.Stat(src); err == nil {
			name := filepath.Base(src)
			if err := copyFile(src, filepath.Join(texturesAbsDir, name)); err != nil {
				return "", err
			}
			return name, nil
		}
	}

	decoded, err := img.Decode()
	if err != nil {
		return "", errors.Wrapf(err, "image %q has no usable source", img.Name())
	}
	name := utils.SanitizeID(img.Name()) + ".png"
	f, err := os.Create(filepath.Join(texturesAbsDir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, decoded); err != nil {
		return "", errors.Wrapf(err, "encode %q", name)
	}
	return name, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func (r *Resolver) logf(format string, args ...interface{}) {
	if r.Log != nil {
		r.Log.Warnf(format, args...)
	}
}
