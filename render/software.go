// Package render provides a self-contained host.Renderer used when no real
// render engine is attached: it resolves the color source wired into the
// graph and rasterizes it, which is enough for color-only bakes driven by
// the synthesis gateway.
package render

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/pkg/errors"

	"github.com/reforge/reforge/host"
)

const defaultEngine = "BLENDER_EEVEE"

type Software struct {
	engine string
	passes host.BakePasses
}

func NewSoftware() *Software {
	return &Software{
		engine: defaultEngine,
		passes: host.BakePasses{Direct: true, Indirect: true, Color: true},
	}
}

func (r *Software) Engine() string            { return r.engine }
func (r *Software) SetEngine(name string)     { r.engine = name }
func (r *Software) Passes() host.BakePasses   { return r.passes }
func (r *Software) SetPasses(p host.BakePasses) { r.passes = p }

func (r *Software) Bake(obj host.Object, mat host.Material, kind host.BakeKind, resolution, padding int) (image.Image, error) {
	if r.engine != "CYCLES" {
		return nil, errors.Errorf("engine %q cannot bake", r.engine)
	}
	if mat == nil || mat.Graph() == nil {
		return nil, errors.New("material has no node graph")
	}
	if resolution <= 0 {
		return nil, errors.Errorf("bad bake resolution %d", resolution)
	}
	if padding < 0 || padding*2 >= resolution {
		return nil, errors.Errorf("bad bake padding %d for resolution %d", padding, resolution)
	}

	var src host.Socket
	var constant *[4]float32

	switch kind {
	case host.BakeEmit:
		emitColor, err := r.emissionColorInput(mat.Graph())
		if err != nil {
			return nil, err
		}
		if from := emitColor.LinkedFrom(); from != nil {
			src = from
		} else {
			c := emitColor.Default()
			constant = &c
		}
	case host.BakeDiffuse:
		if !r.passes.Color || r.passes.Direct || r.passes.Indirect {
			return nil, errors.New("diffuse bake supports only the color pass")
		}
		in := principledColorInput(mat.Graph())
		if in == nil {
			return nil, errors.Errorf("material %q has no principled color input", mat.Name())
		}
		if from := in.LinkedFrom(); from != nil {
			src = from
		} else {
			c := in.Default()
			constant = &c
		}
	default:
		return nil, errors.Errorf("unknown bake kind %d", kind)
	}

	if constant != nil {
		return solid(*constant, resolution), nil
	}
	return r.rasterize(src, resolution, padding)
}

func (r *Software) emissionColorInput(g host.Graph) (host.Socket, error) {
	out := g.OutputNode()
	if out == nil {
		return nil, errors.New("graph has no output node")
	}
	surface := out.Input("Surface")
	if surface == nil || surface.LinkedFrom() == nil {
		return nil, errors.New("output surface is not connected")
	}
	shader := surface.LinkedFrom().Node()
	if shader.Type() != host.NodeEmission {
		return nil, errors.Errorf("emit bake expects an emission surface, got %s", shader.Type())
	}
	in := shader.Input("Color")
	if in == nil {
		return nil, errors.New("emission node has no color input")
	}
	return in, nil
}

func principledColorInput(g host.Graph) host.Socket {
	for _, n := range g.Nodes() {
		if n.Type() == host.NodePrincipled {
			if in := n.Input("Base Color"); in != nil {
				return in
			}
			return n.Input("Color")
		}
	}
	return nil
}

// rasterize renders the provider feeding src: image samplers are resized
// into the inner region and edge-extended across the padding ring, flat
// providers fill the whole target.
func (r *Software) rasterize(src host.Socket, resolution, padding int) (image.Image, error) {
	node := src.Node()
	switch node.Type() {
	case host.NodeTexImage:
		if node.Image() == nil {
			return nil, errors.New("image node has no image assigned")
		}
		decoded, err := node.Image().Decode()
		if err != nil {
			return nil, err
		}
		return fit(decoded, resolution, padding), nil
	case host.NodeRGB, host.NodeVertexColor, host.NodeAttribute:
		return solid(node.Color(), resolution), nil
	}
	return nil, errors.Errorf("node %s is not a color provider", node.Type())
}

func solid(rgba [4]float32, resolution int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, resolution, resolution))
	c := color.RGBA{
		R: f32to8(rgba[0]),
		G: f32to8(rgba[1]),
		B: f32to8(rgba[2]),
		A: f32to8(rgba[3]),
	}
	for y := 0; y < resolution; y++ {
		for x := 0; x < resolution; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// fit scales the source into the (resolution-2*padding) square and clamps
// the padding ring to the nearest content pixel, mimicking bake margin.
func fit(src image.Image, resolution, padding int) image.Image {
	inner := resolution - 2*padding
	scaled := transform.Resize(src, inner, inner, transform.Linear)

	if padding == 0 {
		return scaled
	}

	out := image.NewRGBA(image.Rect(0, 0, resolution, resolution))
	for y := 0; y < resolution; y++ {
		for x := 0; x < resolution; x++ {
			sx := clampInt(x-padding, 0, inner-1)
			sy := clampInt(y-padding, 0, inner-1)
			out.Set(x, y, scaled.At(sx, sy))
		}
	}
	return out
}

func f32to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
