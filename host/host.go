// Package host abstracts the editing application that owns the scene. The
// exporter core never touches concrete host types; whatever editor (or test
// fixture) provides the scene implements these capability interfaces.
package host

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type ObjectKind int

const (
	KindEmpty ObjectKind = iota
	KindMesh
	KindLight
	KindCamera
)

// Object is one scene object. Prop implements the host property lookup
// convention: a key is searched on the object first, then on its geometry
// data block.
type Object interface {
	Name() string
	Kind() ObjectKind
	WorldTransform() mgl64.Mat4
	Prop(key string) (interface{}, bool)
	Mesh() Mesh // nil unless Kind() == KindMesh
	Visible() bool
}

// Mesh exposes evaluated (modifier-applied) geometry and ordered material
// slots. SlotIndices returns the triangle list bound to one slot; meshes
// without materials keep all triangles in slot 0.
type Mesh interface {
	Slots() []Material // entries may be nil (empty slots)
	Vertices() []mgl32.Vec3
	Normals() []mgl32.Vec3 // nil when absent
	UV() [][2]float32      // nil when the mesh has no UV map
	HasUV() bool
	SlotIndices(slot int) []uint32
}

type Material interface {
	Name() string
	Prop(key string) (interface{}, bool)
	Graph() Graph // nil when the material has no node graph
}

// Image is a host image data-block. FilePath is empty for packed or
// generated images; Decode may still produce pixels for those.
type Image interface {
	Name() string
	FilePath() string
	Decode() (image.Image, error)
}

type Scene interface {
	Objects() []Object
	Renderer() Renderer
}

// PropString reads a property through the object/data fallback and
// normalizes it to a trimmed string. Missing or empty yields "".
func PropString(holder interface {
	Prop(string) (interface{}, bool)
}, key string) string {
	v, ok := holder.Prop(key)
	if !ok || v == nil {
		return ""
	}
	return trimString(v)
}

func PropBool(holder interface {
	Prop(string) (interface{}, bool)
}, key string) bool {
	v, ok := holder.Prop(key)
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t == "1" || t == "true" || t == "True"
	}
	return false
}

func PropInt(holder interface {
	Prop(string) (interface{}, bool)
}, key string, def int) int {
	v, ok := holder.Prop(key)
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return def
}

func trimString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}
