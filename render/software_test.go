package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/host/memscene"
)

func pixelAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

// emissionMaterial wires an emission shader straight into the output, the
// shape the synthesis gateway leaves behind for an emit bake.
func emissionMaterial(wire func(g *memscene.Graph, emit *memscene.GraphNode)) *memscene.Material {
	mat := memscene.NewMaterial("m")
	g := memscene.NewGraph()
	out := g.NewNode(host.NodeOutputMaterial).(*memscene.GraphNode)
	emit := g.NewNode(host.NodeEmission).(*memscene.GraphNode)
	g.Link(emit.Output("Emission"), out.Input("Surface"))
	if wire != nil {
		wire(g, emit)
	}
	mat.SetGraph(g)
	return mat
}

func TestBakeRequiresCycles(t *testing.T) {
	r := NewSoftware()
	if r.Engine() != "BLENDER_EEVEE" {
		t.Fatalf("default engine = %q", r.Engine())
	}
	mat := emissionMaterial(nil)
	if _, err := r.Bake(nil, mat, host.BakeEmit, 16, 0); err == nil {
		t.Error("bake succeeded on a non-bake engine")
	}
	r.SetEngine("CYCLES")
	if _, err := r.Bake(nil, mat, host.BakeEmit, 16, 0); err != nil {
		t.Errorf("bake failed on CYCLES: %v", err)
	}
}

func TestBakeEmitConstant(t *testing.T) {
	mat := emissionMaterial(func(g *memscene.Graph, emit *memscene.GraphNode) {
		g.SetDefault(emit.Input("Color"), [4]float32{0, 0, 1, 1})
	})
	r := NewSoftware()
	r.SetEngine("CYCLES")

	img, err := r.Bake(nil, mat, host.BakeEmit, 8, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("baked image is %dx%d", b.Dx(), b.Dy())
	}
	if got := pixelAt(img, 4, 4); got.B != 255 || got.R != 0 {
		t.Errorf("pixel = %v, expected blue", got)
	}
}

func TestBakeEmitLinkedImageWithPadding(t *testing.T) {
	// 2x2 source, left column red, right column green.
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		src.SetRGBA(0, y, color.RGBA{R: 255, A: 255})
		src.SetRGBA(1, y, color.RGBA{G: 255, A: 255})
	}

	mat := emissionMaterial(func(g *memscene.Graph, emit *memscene.GraphNode) {
		tex := g.NewNode(host.NodeTexImage).(*memscene.GraphNode)
		tex.SetImage(memscene.NewPixelImage("src", src))
		g.Link(tex.Output("Color"), emit.Input("Color"))
	})

	r := NewSoftware()
	r.SetEngine("CYCLES")
	img, err := r.Bake(nil, mat, host.BakeEmit, 16, 2)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("baked image is %dx%d", b.Dx(), b.Dy())
	}
	// Corners lie in the padding ring and must clamp to the nearest
	// content pixel, not stay transparent.
	if got := pixelAt(img, 0, 0); got.A == 0 {
		t.Errorf("padding ring not filled: %v", got)
	}
	if got := pixelAt(img, 0, 8); got.R < 200 {
		t.Errorf("left edge = %v, expected red content", got)
	}
	if got := pixelAt(img, 15, 8); got.G < 200 {
		t.Errorf("right edge = %v, expected green content", got)
	}
}

func TestBakeEmitRejectsNonEmissionSurface(t *testing.T) {
	mat := memscene.NewConstantMaterial("flat", [4]float32{1, 1, 1, 1})
	r := NewSoftware()
	r.SetEngine("CYCLES")
	if _, err := r.Bake(nil, mat, host.BakeEmit, 8, 0); err == nil {
		t.Error("emit bake accepted a principled surface")
	}
}

func TestBakeDiffusePassGate(t *testing.T) {
	mat := memscene.NewConstantMaterial("flat", [4]float32{1, 0, 1, 1})
	r := NewSoftware()
	r.SetEngine("CYCLES")

	// Default passes include direct/indirect light: not a color-only bake.
	if _, err := r.Bake(nil, mat, host.BakeDiffuse, 8, 0); err == nil {
		t.Fatal("diffuse bake accepted lighting passes")
	}

	r.SetPasses(host.BakePasses{Color: true})
	img, err := r.Bake(nil, mat, host.BakeDiffuse, 8, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(img, 3, 3); got.R != 255 || got.B != 255 || got.G != 0 {
		t.Errorf("pixel = %v, expected magenta", got)
	}
}

func TestBakeDiffuseLinkedColorNode(t *testing.T) {
	mat := memscene.NewMaterial("m")
	g, bsdf := memscene.NewPrincipledGraph()
	rgb := g.NewNode(host.NodeRGB).(*memscene.GraphNode)
	rgb.SetColor([4]float32{0, 1, 0, 1})
	g.Link(rgb.Output("Color"), bsdf.Input("Base Color"))
	mat.SetGraph(g)

	r := NewSoftware()
	r.SetEngine("CYCLES")
	r.SetPasses(host.BakePasses{Color: true})
	img, err := r.Bake(nil, mat, host.BakeDiffuse, 8, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(img, 0, 0); got.G != 255 || got.R != 0 {
		t.Errorf("pixel = %v, expected green", got)
	}
}

func TestBakeRejectsBadGeometryArguments(t *testing.T) {
	mat := emissionMaterial(nil)
	r := NewSoftware()
	r.SetEngine("CYCLES")

	if _, err := r.Bake(nil, mat, host.BakeEmit, 0, 0); err == nil {
		t.Error("zero resolution accepted")
	}
	if _, err := r.Bake(nil, mat, host.BakeEmit, 16, 8); err == nil {
		t.Error("padding covering the whole image accepted")
	}
	if _, err := r.Bake(nil, memscene.NewMaterial("graphless"), host.BakeEmit, 16, 0); err == nil {
		t.Error("graphless material accepted")
	}
}

func TestF32To8Clamps(t *testing.T) {
	cases := []struct {
		in   float32
		want uint8
	}{
		{-0.5, 0}, {0, 0}, {0.5, 128}, {1, 255}, {2, 255},
	}
	for _, c := range cases {
		if got := f32to8(c.in); got != c.want {
			t.Errorf("f32to8(%v) = %d, expected %d", c.in, got, c.want)
		}
	}
}
