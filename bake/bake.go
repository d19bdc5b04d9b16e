// Package bake flattens a material's shading graph into a single color
// texture. It temporarily rewires the graph through an emission shader,
// delegates rendering to the host's bake engine, and restores every
// mutation on all exit paths.
package bake

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/materials"
	"github.com/reforge/reforge/utils"
)

const (
	PropBake       = "bake_color_texture"
	PropResolution = "bake_resolution"
	PropPadding    = "bake_padding"

	bakeEngine = "CYCLES"
)

type Options struct {
	Resolution int
	Padding    int
}

// Requested reports whether a material is flagged for color synthesis.
func Requested(mat host.Material) bool {
	return mat != nil && host.PropBool(mat, PropBake)
}

// BakeColor renders the material's final surface color into a PNG at
// outPath. Policy, in order: a mesh without UVs and with an unconnected
// constant base color short-circuits to a 1x1 solid image; without UVs and
// without a constant the bake fails. Otherwise an emission override is
// attempted (base-color link, else an upstream walk from the original
// surface source); with no resolvable color source the bake falls back to
// a diffuse color-only pass. Failure never leaves graph or engine state
// altered.
func BakeColor(scene host.Scene, obj host.Object, mat host.Material, outPath string, opt Options, logger *log.Logger) error {
	if obj == nil || obj.Kind() != host.KindMesh || obj.Mesh() == nil {
		return errors.New("bake: object is not a mesh")
	}
	if mat == nil || mat.Graph() == nil {
		return errors.New("bake: material has no node graph")
	}
	if opt.Resolution <= 0 {
		return errors.Errorf("bake: bad resolution %d", opt.Resolution)
	}

	graph := mat.Graph()
	mesh := obj.Mesh()

	var constant *[4]float32
	if in := materials.BaseColorInput(mat); in != nil && in.LinkedFrom() == nil {
		c := in.Default()
		constant = &c
	}

	if !mesh.HasUV() {
		if constant != nil {
			return writeSolidPNG(outPath, *constant, 1)
		}
		return errors.New("bake: mesh has no UVs and base color is not constant")
	}

	renderer := scene.Renderer()
	if renderer == nil {
		return errors.New("bake: host has no renderer")
	}

	prevEngine := renderer.Engine()
	renderer.SetEngine(bakeEngine)
	defer renderer.SetEngine(prevEngine)

	outNode := graph.OutputNode()
	if outNode == nil {
		return errors.New("bake: material has no output node")
	}
	surface := outNode.Input("Surface")
	if surface == nil {
		return errors.New("bake: output node has no surface input")
	}
	originalSurfaceSource := surface.LinkedFrom()

	tx := newGraphTx(graph, logger)
	defer tx.revert()

	tx.disconnect(surface)

	emit := graph.NewNode(host.NodeEmission)
	tx.addTemp(emit)
	emitColor := emit.Input("Color")
	emitOut := emit.Output("Emission")
	if emitColor == nil || emitOut == nil {
		return errors.New("bake: emission node missing sockets")
	}

	// Emission color source: the base-color link when resolvable, else any
	// color-valued provider reachable from the original surface source.
	var fromColor host.Socket
	if constant == nil {
		if in := materials.BaseColorInput(mat); in != nil {
			fromColor = in.LinkedFrom()
		}
		if fromColor == nil {
			fromColor = walkColorSource(originalSurfaceSource)
		}
	}

	canEmit := constant != nil || fromColor != nil
	if canEmit {
		if constant != nil {
			if err := graph.SetDefault(emitColor, *constant); err != nil {
				canEmit = false
			}
		} else if err := graph.Link(fromColor, emitColor); err != nil {
			canEmit = false
		}
	}
	if canEmit {
		if err := graph.Link(emitOut, surface); err != nil {
			canEmit = false
		}
	}

	var baked image.Image
	var err error
	if canEmit {
		baked, err = renderer.Bake(obj, mat, host.BakeEmit, opt.Resolution, opt.Padding)
	} else {
		// No emission source. Put the graph back first: the diffuse pass
		// renders the material as authored.
		tx.revert()

		prevPasses := renderer.Passes()
		renderer.SetPasses(host.BakePasses{Direct: false, Indirect: false, Color: true})
		defer renderer.SetPasses(prevPasses)

		baked, err = renderer.Bake(obj, mat, host.BakeDiffuse, opt.Resolution, opt.Padding)
	}
	if err != nil {
		return errors.Wrapf(err, "bake %q", mat.Name())
	}

	return savePNG(outPath, baked)
}

// walkColorSource walks upstream from a socket accepting any color-valued
// provider: image sampler, vertex color or constant color node. Iterative
// with a visited set, like the discovery walk.
func walkColorSource(from host.Socket) host.Socket {
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

		switch node.Type() {
		case host.NodeTexImage:
			if node.Image() != nil {
				if out := node.Output("Color"); out != nil {
					return out
				}
			}
		case host.NodeRGB, host.NodeVertexColor, host.NodeAttribute:
			if out := node.Output("Color"); out != nil {
				return out
			}
		}

		for _, inp := range node.Inputs() {
			if src := inp.LinkedFrom(); src != nil {
				stack = append(stack, src.Node())
			}
		}
	}
	return nil
}

func writeSolidPNG(path string, rgba [4]float32, size int) error {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r, g, b, a := utils.NewColorFloat(rgba[:]).RGBA()
	c := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return savePNG(path, img)
}

func savePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	defer f.Close()
	return errors.Wrapf(png.Encode(f, img), "encode %q", path)
}
