package memscene

import (
	// Register decoders for host image data-blocks.
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"

	"github.com/reforge/reforge/host"
)

type Graph struct {
	nodes  []*GraphNode
	output *GraphNode
}

func NewGraph() *Graph {
	return &Graph{}
}

type GraphNode struct {
	graph   *Graph
	typ     host.NodeType
	inputs  []*GraphSocket
	outputs []*GraphSocket
	image   *Image
	color   [4]float32
}

type GraphSocket struct {
	node  *GraphNode
	name  string
	input bool
	from  *GraphSocket // inputs only, first link
	def   [4]float32
}

// socket sets found on the node types the exporter walks. Real hosts have
// many more; only the ones traversal and synthesis touch are modeled.
var nodeSockets = map[host.NodeType]struct{ in, out []string }{
	host.NodeOutputMaterial: {in: []string{"Surface"}},
	host.NodePrincipled:     {in: []string{"Base Color", "Color"}, out: []string{"BSDF"}},
	host.NodeTexImage:       {in: []string{"Vector"}, out: []string{"Color", "Alpha"}},
	host.NodeEmission:       {in: []string{"Color", "Strength"}, out: []string{"Emission"}},
	host.NodeRGB:            {out: []string{"Color"}},
	host.NodeVertexColor:    {out: []string{"Color", "Alpha"}},
	host.NodeAttribute:      {out: []string{"Color", "Vector"}},
	host.NodeMix:            {in: []string{"A", "B", "Factor"}, out: []string{"Result"}},
}

func (g *Graph) NewNode(t host.NodeType) host.Node {
	n := &GraphNode{graph: g, typ: t}
	sockets := nodeSockets[t]
	for _, name := range sockets.in {
		n.inputs = append(n.inputs, &GraphSocket{node: n, name: name, input: true, def: [4]float32{0, 0, 0, 1}})
	}
	for _, name := range sockets.out {
		n.outputs = append(n.outputs, &GraphSocket{node: n, name: name})
	}
	g.nodes = append(g.nodes, n)
	if t == host.NodeOutputMaterial && g.output == nil {
		g.output = n
	}
	return n
}

func (g *Graph) RemoveNode(n host.Node) {
	gn, ok := n.(*GraphNode)
	if !ok {
		return
	}
	for i, c := range g.nodes {
		if c == gn {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
	if g.output == gn {
		g.output = nil
	}
	// Drop links into remaining nodes that originate from the removed one.
	for _, c := range g.nodes {
		for _, in := range c.inputs {
			if in.from != nil && in.from.node == gn {
				in.from = nil
			}
		}
	}
}

func (g *Graph) Nodes() []host.Node {
	out := make([]host.Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n
	}
	return out
}

func (g *Graph) OutputNode() host.Node {
	if g.output == nil {
		return nil
	}
	return g.output
}

func (g *Graph) Link(from, to host.Socket) error {
	fs, ok1 := from.(*GraphSocket)
	ts, ok2 := to.(*GraphSocket)
	if !ok1 || !ok2 {
		return errors.New("link: foreign sockets")
	}
	if fs.input || !ts.input {
		return errors.Errorf("link: %s -> %s is not output -> input", fs.name, ts.name)
	}
	ts.from = fs
	return nil
}

func (g *Graph) Unlink(to host.Socket) {
	if ts, ok := to.(*GraphSocket); ok {
		ts.from = nil
	}
}

func (g *Graph) SetDefault(in host.Socket, rgba [4]float32) error {
	ts, ok := in.(*GraphSocket)
	if !ok || !ts.input {
		return errors.New("set default: not an input socket")
	}
	ts.def = rgba
	return nil
}

func (n *GraphNode) Type() host.NodeType { return n.typ }

func (n *GraphNode) Inputs() []host.Socket {
	out := make([]host.Socket, len(n.inputs))
	for i, s := range n.inputs {
		out[i] = s
	}
	return out
}

func (n *GraphNode) Input(name string) host.Socket {
	for _, s := range n.inputs {
		if s.name == name {
			return s
		}
	}
	return nil
}

func (n *GraphNode) Output(name string) host.Socket {
	for _, s := range n.outputs {
		if s.name == name {
			return s
		}
	}
	return nil
}

func (n *GraphNode) Image() host.Image {
	if n.image == nil {
		return nil
	}
	return n.image
}

func (n *GraphNode) SetImage(img *Image)     { n.image = img }
func (n *GraphNode) Color() [4]float32       { return n.color }
func (n *GraphNode) SetColor(c [4]float32)   { n.color = c }

func (s *GraphSocket) Node() host.Node { return s.node }
func (s *GraphSocket) Name() string    { return s.name }
func (s *GraphSocket) IsInput() bool   { return s.input }

func (s *GraphSocket) LinkedFrom() host.Socket {
	if s.from == nil {
		return nil
	}
	return s.from
}

func (s *GraphSocket) Default() [4]float32     { return s.def }
func (s *GraphSocket) SetDefault(v [4]float32) { s.def = v }
