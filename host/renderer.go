package host

import "image"

type BakeKind int

const (
	BakeEmit BakeKind = iota
	BakeDiffuse
)

// BakePasses mirrors the render-pass toggles of a bake-capable engine.
type BakePasses struct {
	Direct   bool
	Indirect bool
	Color    bool
}

// Renderer is the bake-capable render engine of the host. Engine selection
// and pass configuration are shared mutable state; callers that change them
// must restore the previous values when done.
type Renderer interface {
	Engine() string
	SetEngine(name string)
	Passes() BakePasses
	SetPasses(p BakePasses)
	// Bake renders the material as currently wired on the given object
	// into a resolution x resolution RGBA image, extending rendered texels
	// by the given edge padding.
	Bake(obj Object, mat Material, kind BakeKind, resolution, padding int) (image.Image, error)
}
