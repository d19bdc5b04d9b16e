// Package memscene is an in-memory host.Scene implementation. It backs the
// YAML scene loader and the test suite; a real editor integration would
// provide its own adapter instead.
package memscene

import (
	"image"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/reforge/reforge/host"
)

type Scene struct {
	objects  []*Object
	renderer host.Renderer
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) AddObject(o *Object) *Scene {
	s.objects = append(s.objects, o)
	return s
}

func (s *Scene) SetRenderer(r host.Renderer) {
	s.renderer = r
}

func (s *Scene) Objects() []host.Object {
	out := make([]host.Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o
	}
	return out
}

func (s *Scene) Renderer() host.Renderer {
	return s.renderer
}

type Object struct {
	name    string
	kind    host.ObjectKind
	world   mgl64.Mat4
	props   map[string]interface{}
	mesh    *Mesh
	visible bool
}

func NewObject(name string, kind host.ObjectKind) *Object {
	return &Object{
		name:    name,
		kind:    kind,
		world:   mgl64.Ident4(),
		props:   make(map[string]interface{}),
		visible: true,
	}
}

func NewMeshObject(name string, mesh *Mesh) *Object {
	o := NewObject(name, host.KindMesh)
	o.mesh = mesh
	return o
}

func (o *Object) Name() string                  { return o.name }
func (o *Object) Kind() host.ObjectKind         { return o.kind }
func (o *Object) WorldTransform() mgl64.Mat4    { return o.world }
func (o *Object) SetWorldTransform(m mgl64.Mat4) { o.world = m }
func (o *Object) Visible() bool                 { return o.visible }
func (o *Object) SetVisible(v bool)             { o.visible = v }
func (o *Object) SetProp(key string, v interface{}) { o.props[key] = v }

// Prop looks the key up on the object, then falls back to the geometry
// data block, matching the host property convention.
func (o *Object) Prop(key string) (interface{}, bool) {
	if v, ok := o.props[key]; ok {
		return v, true
	}
	if o.mesh != nil {
		if v, ok := o.mesh.props[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (o *Object) Mesh() host.Mesh {
	if o.mesh == nil {
		return nil
	}
	return o.mesh
}

type Mesh struct {
	verts       []mgl32.Vec3
	normals     []mgl32.Vec3
	uv          [][2]float32
	slots       []*Material
	slotIndices [][]uint32
	props       map[string]interface{}
}

func NewMesh(verts []mgl32.Vec3) *Mesh {
	return &Mesh{verts: verts, props: make(map[string]interface{})}
}

func (m *Mesh) SetNormals(n []mgl32.Vec3) *Mesh { m.normals = n; return m }
func (m *Mesh) SetUV(uv [][2]float32) *Mesh     { m.uv = uv; return m }
func (m *Mesh) SetDataProp(key string, v interface{}) { m.props[key] = v }

// AddSlot appends a material slot (mat may be nil) with its triangle list.
func (m *Mesh) AddSlot(mat *Material, indices []uint32) *Mesh {
	m.slots = append(m.slots, mat)
	m.slotIndices = append(m.slotIndices, indices)
	return m
}

// SetIndices assigns all triangles to an implicit slot 0 for meshes
// without materials.
func (m *Mesh) SetIndices(indices []uint32) *Mesh {
	if len(m.slots) == 0 {
		m.slotIndices = [][]uint32{indices}
	}
	return m
}

func (m *Mesh) Slots() []host.Material {
	out := make([]host.Material, len(m.slots))
	for i, s := range m.slots {
		if s != nil {
			out[i] = s
		}
	}
	return out
}

func (m *Mesh) Vertices() []mgl32.Vec3 { return m.verts }
func (m *Mesh) Normals() []mgl32.Vec3  { return m.normals }
func (m *Mesh) UV() [][2]float32       { return m.uv }
func (m *Mesh) HasUV() bool            { return len(m.uv) > 0 }

func (m *Mesh) SlotIndices(slot int) []uint32 {
	if slot < 0 || slot >= len(m.slotIndices) {
		return nil
	}
	return m.slotIndices[slot]
}

type Material struct {
	name  string
	props map[string]interface{}
	graph *Graph
}

func NewMaterial(name string) *Material {
	return &Material{name: name, props: make(map[string]interface{})}
}

func (m *Material) Name() string { return m.name }

func (m *Material) Prop(key string) (interface{}, bool) {
	v, ok := m.props[key]
	return v, ok
}

func (m *Material) SetProp(key string, v interface{}) { m.props[key] = v }

func (m *Material) Graph() host.Graph {
	if m.graph == nil {
		return nil
	}
	return m.graph
}

func (m *Material) SetGraph(g *Graph) { m.graph = g }

type Image struct {
	name     string
	filePath string
	img      image.Image
}

func NewFileImage(name, filePath string) *Image {
	return &Image{name: name, filePath: filePath}
}

func NewPixelImage(name string, img image.Image) *Image {
	return &Image{name: name, img: img}
}

func (i *Image) Name() string     { return i.name }
func (i *Image) FilePath() string { return i.filePath }

func (i *Image) Decode() (image.Image, error) {
	if i.img != nil {
		return i.img, nil
	}
	if i.filePath == "" {
		return nil, errors.Errorf("image %q has no pixel data", i.name)
	}
	f, err := os.Open(i.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open image %q", i.filePath)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, errors.Wrapf(err, "decode image %q", i.filePath)
}
