package materials

import "github.com/reforge/reforge/host"

// BaseColorInput finds the principal surface-color input of a material:
// the "Base Color" (or legacy "Color") input of its principled shader node.
func BaseColorInput(mat host.Material) host.Socket {
	g := mat.Graph()
	if g == nil {
		return nil
	}
	var principled host.Node
	for _, n := range g.Nodes() {
		if n.Type() == host.NodePrincipled {
			principled = n
			break
		}
	}
	if principled == nil {
		return nil
	}
	if in := principled.Input("Base Color"); in != nil {
		return in
	}
	return principled.Input("Color")
}

// FindBaseColorImage walks the shader graph upstream from the base-color
// input and returns the first image-sampling node's image, or nil. The walk
// follows the first link of every linked input, iteratively, with a
// visited-node set as the cycle guard (graphs can be cyclic via instanced
// groups).
func FindBaseColorImage(mat host.Material) host.Image {
	in := BaseColorInput(mat)
	if in == nil {
		return nil
	}
	from := in.LinkedFrom()
	if from == nil {
		return nil
	}

	visited := make(map[host.Node]bool)
	stack := []host.Node{from.Node()}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil || visited[node] {
			continue
		}
		visited[node] = true

		if node.Type() == host.NodeTexImage && node.Image() != nil {
			return node.Image()
		}

		for _, inp := range node.Inputs() {
			if src := inp.LinkedFrom(); src != nil {
				stack = append(stack, src.Node())
			}
		}
	}
	return nil
}
