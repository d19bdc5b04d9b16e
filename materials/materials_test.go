package materials_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/reforge/reforge/config"
	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/host/memscene"
	"github.com/reforge/reforge/materials"
)

func testSettings(root string) *config.Settings {
	s := config.Default()
	s.ProjectRoot = root
	return s
}

func quadMesh(mats ...*memscene.Material) *memscene.Mesh {
	mesh := memscene.NewMesh([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	for _, m := range mats {
		mesh.AddSlot(m, []uint32{0, 1, 2, 0, 2, 3})
	}
	if len(mats) == 0 {
		mesh.SetIndices([]uint32{0, 1, 2, 0, 2, 3})
	}
	return mesh
}

func TestDuplicateSlotsCollapse(t *testing.T) {
	a := memscene.NewMaterial("A")
	b := memscene.NewMaterial("B")
	mesh := quadMesh(a, b, a)
	obj := memscene.NewMeshObject("obj", mesh)

	r := &materials.Resolver{Settings: testSettings(t.TempDir())}
	bindings, err := r.Resolve(obj, mesh)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 2 {
		t.Fatalf("got %d bindings, expected 2", len(bindings))
	}
	if bindings[0].Name != "A" || bindings[1].Name != "B" {
		t.Errorf("binding order = [%s, %s]; expected [A, B]", bindings[0].Name, bindings[1].Name)
	}
}

func TestNoMaterialsYieldsDefault(t *testing.T) {
	mesh := quadMesh()
	obj := memscene.NewMeshObject("obj", mesh)

	r := &materials.Resolver{Settings: testSettings(t.TempDir())}
	bindings, err := r.Resolve(obj, mesh)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 1 {
		t.Fatalf("got %d bindings, expected 1", len(bindings))
	}
	if bindings[0].Name != "default" {
		t.Errorf("binding name = %q; expected default", bindings[0].Name)
	}
	if bindings[0].Material != config.BUILTIN_DEFAULT_MATERIAL {
		t.Errorf("material = %q", bindings[0].Material)
	}
	if bindings[0].Texture != materials.DEFAULT_TEXTURE {
		t.Errorf("texture = %q", bindings[0].Texture)
	}
}

func TestOverrideChain(t *testing.T) {
	matOverride := memscene.NewMaterial("painted")
	matOverride.SetProp(materials.PropMaterial, "/custom/painted.material")
	matOverride.SetProp(materials.PropTexture, "/custom/painted.png")

	plain := memscene.NewMaterial("plain")

	mesh := quadMesh(matOverride, plain)
	obj := memscene.NewMeshObject("obj", mesh)
	obj.SetProp(materials.PropMaterial, "/object/level.material")

	r := &materials.Resolver{Settings: testSettings(t.TempDir())}
	bindings, err := r.Resolve(obj, mesh)
	if err != nil {
		t.Fatal(err)
	}

	if bindings[0].Material != "/custom/painted.material" {
		t.Errorf("material-level override lost: %q", bindings[0].Material)
	}
	if bindings[0].Texture != "/custom/painted.png" {
		t.Errorf("material-level texture override lost: %q", bindings[0].Texture)
	}
	// The plain material falls through to the object-level override.
	if bindings[1].Material != "/object/level.material" {
		t.Errorf("object-level override lost: %q", bindings[1].Material)
	}
}

func TestDiscoveryDirectLink(t *testing.T) {
	img := memscene.NewPixelImage("wood", nil)
	mat := memscene.NewImageMaterial("wood", img)

	found := materials.FindBaseColorImage(mat)
	if found == nil || found.Name() != "wood" {
		t.Fatalf("discovery failed: %v", found)
	}

	// Constant materials have nothing to discover.
	if materials.FindBaseColorImage(memscene.NewConstantMaterial("flat", [4]float32{1, 0, 0, 1})) != nil {
		t.Error("discovered an image on a constant material")
	}
	if materials.FindBaseColorImage(memscene.NewMaterial("graphless")) != nil {
		t.Error("discovered an image on a graphless material")
	}
}

// The walk has to pass through compositing nodes and survive cycles.
func TestDiscoveryThroughMixWithCycle(t *testing.T) {
	mat := memscene.NewMaterial("layered")
	g, bsdf := memscene.NewPrincipledGraph()

	mixA := g.NewNode(host.NodeMix).(*memscene.GraphNode)
	mixB := g.NewNode(host.NodeMix).(*memscene.GraphNode)
	tex := g.NewNode(host.NodeTexImage).(*memscene.GraphNode)
	tex.SetImage(memscene.NewPixelImage("deep", nil))

	g.Link(mixA.Output("Result"), bsdf.Input("Base Color"))
	g.Link(mixB.Output("Result"), mixA.Input("A"))
	// Cycle back into the first mix; the visited set must break it.
	g.Link(mixA.Output("Result"), mixB.Input("A"))
	g.Link(tex.Output("Color"), mixB.Input("B"))
	mat.SetGraph(g)

	found := materials.FindBaseColorImage(mat)
	if found == nil || found.Name() != "deep" {
		t.Fatalf("discovery through mix nodes failed: %v", found)
	}
}

func TestReferenceInPlaceWhenExportDisabled(t *testing.T) {
	img := memscene.NewFileImage("crate.png", "/somewhere/else/crate.png")
	mat := memscene.NewImageMaterial("crate", img)
	mesh := quadMesh(mat)
	obj := memscene.NewMeshObject("obj", mesh)

	s := testSettings(t.TempDir())
	s.ExportTextures = false
	r := &materials.Resolver{Settings: s}
	bindings, err := r.Resolve(obj, mesh)
	if err != nil {
		t.Fatal(err)
	}
	want := "/" + s.TexturesDir + "/crate.png"
	if bindings[0].Texture != want {
		t.Errorf("texture = %q; expected %q", bindings[0].Texture, want)
	}
}

func TestExportCopiesSourceFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "crate.png")
	if err := os.WriteFile(src, []byte("not really a png"), 0666); err != nil {
		t.Fatal(err)
	}

	img := memscene.NewFileImage("crate.png", src)
	mat := memscene.NewImageMaterial("crate", img)
	mesh := quadMesh(mat)
	obj := memscene.NewMeshObject("obj", mesh)

	s := testSettings(root)
	r := &materials.Resolver{Settings: s}
	bindings, err := r.Resolve(obj, mesh)
	if err != nil {
		t.Fatal(err)
	}
	want := "/" + s.TexturesDir + "/crate.png"
	if bindings[0].Texture != want {
		t.Errorf("texture = %q; expected %q", bindings[0].Texture, want)
	}
	copied := filepath.Join(root, s.TexturesDir, "crate.png")
	if _, err := os.Stat(copied); err != nil {
		t.Errorf("texture was not copied into the project: %v", err)
	}
}
