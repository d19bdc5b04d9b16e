package host

type NodeType string

const (
	NodeOutputMaterial NodeType = "OUTPUT_MATERIAL"
	NodePrincipled     NodeType = "BSDF_PRINCIPLED"
	NodeTexImage       NodeType = "TEX_IMAGE"
	NodeEmission       NodeType = "EMISSION"
	NodeRGB            NodeType = "RGB"
	NodeVertexColor    NodeType = "VERTEX_COLOR"
	NodeAttribute      NodeType = "ATTRIBUTE"
	NodeMix            NodeType = "MIX"
)

// Socket is one node connection point. Input sockets carry at most the
// first link that feeds them plus a constant default; output sockets are
// link sources only.
type Socket interface {
	Node() Node
	Name() string
	IsInput() bool
	// LinkedFrom returns the output socket feeding this input, or nil.
	LinkedFrom() Socket
	// Default is the constant value of an unlinked color input.
	Default() [4]float32
}

type Node interface {
	Type() NodeType
	Inputs() []Socket
	Input(name string) Socket  // nil if absent
	Output(name string) Socket // nil if absent
	Image() Image              // TEX_IMAGE nodes, nil otherwise
	Color() [4]float32         // RGB / VERTEX_COLOR constant output value
}

// Graph is a mutable material node graph. Link and Unlink operate on input
// sockets (an input holds one link at a time, matching the "first link"
// traversal rule). Temporary nodes created during synthesis go through
// NewNode/RemoveNode so the host can account for them.
type Graph interface {
	Nodes() []Node
	OutputNode() Node // material-output node, nil if absent
	Link(from, to Socket) error
	Unlink(to Socket)
	SetDefault(in Socket, rgba [4]float32) error
	NewNode(t NodeType) Node
	RemoveNode(n Node)
}
