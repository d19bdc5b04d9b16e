package memscene

import "github.com/reforge/reforge/host"

// NewPrincipledGraph wires the minimal standard surface graph: a principled
// shader feeding a material output. Returns the graph and the principled
// node for further wiring.
func NewPrincipledGraph() (*Graph, *GraphNode) {
	g := NewGraph()
	out := g.NewNode(host.NodeOutputMaterial).(*GraphNode)
	bsdf := g.NewNode(host.NodePrincipled).(*GraphNode)
	g.Link(bsdf.Output("BSDF"), out.Input("Surface"))
	return g, bsdf
}

// NewImageMaterial builds a material whose base color is sampled from an
// image texture node.
func NewImageMaterial(name string, img *Image) *Material {
	m := NewMaterial(name)
	g, bsdf := NewPrincipledGraph()
	tex := g.NewNode(host.NodeTexImage).(*GraphNode)
	tex.SetImage(img)
	g.Link(tex.Output("Color"), bsdf.Input("Base Color"))
	m.SetGraph(g)
	return m
}

// NewConstantMaterial builds a material with an unconnected constant base
// color.
func NewConstantMaterial(name string, rgba [4]float32) *Material {
	m := NewMaterial(name)
	g, bsdf := NewPrincipledGraph()
	bsdf.Input("Base Color").(*GraphSocket).SetDefault(rgba)
	m.SetGraph(g)
	return m
}
