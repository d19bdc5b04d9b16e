// Package scenefile loads a YAML scene description into an in-memory host
// scene. It exists so the exporter can run standalone: an editor
// integration would hand the core a live host.Scene instead.
package scenefile

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/reforge/reforge/host/memscene"
	"github.com/reforge/reforge/render"
	"github.com/reforge/reforge/transform"
)

type sceneDoc struct {
	Name      string        `yaml:"name"`
	Materials []materialDoc `yaml:"materials"`
	Objects   []objectDoc   `yaml:"objects"`
}

type materialDoc struct {
	Name       string                 `yaml:"name"`
	Properties map[string]interface{} `yaml:"properties"`
	Image      string                 `yaml:"image"` // file-backed base color
	Color      []float32              `yaml:"color"` // constant base color
}

type objectDoc struct {
	Name        string                 `yaml:"name"`
	Visible     *bool                  `yaml:"visible"`
	Properties  map[string]interface{} `yaml:"properties"`
	Position    []float64              `yaml:"position"`
	RotationDeg []float64              `yaml:"rotation_deg"`
	Scale       []float64              `yaml:"scale"`
	Mesh        *meshDoc               `yaml:"mesh"`
}

type meshDoc struct {
	GLB      string       `yaml:"glb"`
	Vertices [][3]float32 `yaml:"vertices"`
	Normals  [][3]float32 `yaml:"normals"`
	UVs      [][2]float32 `yaml:"uvs"`
	Slots    []slotDoc    `yaml:"slots"`
}

type slotDoc struct {
	Material  string   `yaml:"material"`
	Triangles []uint32 `yaml:"triangles"`
}

// Load parses a scene description and builds a memscene with the built-in
// software renderer attached. Relative asset paths resolve against the
// scene file's directory.
func Load(path string) (*memscene.Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scene %q", path)
	}
	var doc sceneDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse scene %q", path)
	}

	baseDir := filepath.Dir(path)
	scene := memscene.NewScene()
	scene.SetRenderer(render.NewSoftware())

	mats := make(map[string]*memscene.Material, len(doc.Materials))
	for _, md := range doc.Materials {
		if md.Name == "" {
			return nil, errors.New("material without a name")
		}
		mat, err := buildMaterial(md, baseDir)
		if err != nil {
			return nil, err
		}
		mats[md.Name] = mat
	}

	for i, od := range doc.Objects {
		obj, err := buildObject(od, baseDir, mats)
		if err != nil {
			return nil, errors.Wrapf(err, "object %d (%q)", i, od.Name)
		}
		scene.AddObject(obj)
	}
	return scene, nil
}

func buildMaterial(md materialDoc, baseDir string) (*memscene.Material, error) {
	var mat *memscene.Material
	switch {
	case md.Image != "":
		imgPath := md.Image
		if !filepath.IsAbs(imgPath) {
			imgPath = filepath.Join(baseDir, imgPath)
		}
		img := memscene.NewFileImage(filepath.Base(md.Image), imgPath)
		mat = memscene.NewImageMaterial(md.Name, img)
	case len(md.Color) >= 3:
		rgba := [4]float32{md.Color[0], md.Color[1], md.Color[2], 1}
		if len(md.Color) >= 4 {
			rgba[3] = md.Color[3]
		}
		mat = memscene.NewConstantMaterial(md.Name, rgba)
	default:
		mat = memscene.NewMaterial(md.Name)
	}
	for k, v := range md.Properties {
		mat.SetProp(k, v)
	}
	return mat, nil
}

func buildObject(od objectDoc, baseDir string, mats map[string]*memscene.Material) (*memscene.Object, error) {
	if od.Mesh == nil {
		return nil, errors.New("object has no mesh")
	}

	var mesh *memscene.Mesh
	var err error
	if od.Mesh.GLB != "" {
		glbPath := od.Mesh.GLB
		if !filepath.IsAbs(glbPath) {
			glbPath = filepath.Join(baseDir, glbPath)
		}
		mesh, err = loadGLB(glbPath, mats)
	} else {
		mesh, err = buildInlineMesh(od.Mesh, mats)
	}
	if err != nil {
		return nil, err
	}

	obj := memscene.NewMeshObject(od.Name, mesh)
	for k, v := range od.Properties {
		obj.SetProp(k, v)
	}
	if od.Visible != nil {
		obj.SetVisible(*od.Visible)
	}

	obj.SetWorldTransform(transform.Compose(
		vec3(od.Position, 0),
		transform.DegToRad(vec3(od.RotationDeg, 0)),
		vec3(od.Scale, 1),
	))
	return obj, nil
}

func buildInlineMesh(md *meshDoc, mats map[string]*memscene.Material) (*memscene.Mesh, error) {
	if len(md.Vertices) == 0 && len(md.Slots) > 0 {
		return nil, errors.New("mesh slots without vertices")
	}
	mesh := memscene.NewMesh(toVec3(md.Vertices))
	if len(md.Normals) > 0 {
		mesh.SetNormals(toVec3(md.Normals))
	}
	if len(md.UVs) > 0 {
		mesh.SetUV(md.UVs)
	}
	for _, sd := range md.Slots {
		var mat *memscene.Material
		if sd.Material != "" {
			m, ok := mats[sd.Material]
			if !ok {
				return nil, errors.Errorf("unknown material %q", sd.Material)
			}
			mat = m
		}
		if len(sd.Triangles)%3 != 0 {
			return nil, errors.Errorf("slot %q triangle list is not a multiple of 3", sd.Material)
		}
		mesh.AddSlot(mat, sd.Triangles)
	}
	return mesh, nil
}

func vec3(v []float64, def float64) mgl64.Vec3 {
	out := mgl64.Vec3{def, def, def}
	for i := 0; i < len(v) && i < 3; i++ {
		out[i] = v[i]
	}
	return out
}
