// Package meshexport writes mesh geometry as a binary glTF container. The
// rest of the pipeline treats it as a black box; the one contract callers
// rely on is that emitted material names equal the mesh's slot names.
package meshexport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/materials"
)

// ExportGLB writes the evaluated mesh to path. Geometry is converted to
// the container's Y-up convention ((x, y, z) -> (x, z, -y)); one primitive
// is emitted per material slot, and a slotless mesh gets a single
// primitive bound to a "default" material.
func ExportGLB(mesh host.Mesh, name, path string) error {
	if mesh == nil {
		return errors.New("no mesh to export")
	}
	doc := gltf.NewDocument()
	doc.Asset.Generator = "reforge"

	verts := mesh.Vertices()
	positions := make([][3]float32, len(verts))
	for i, v := range verts {
		positions[i] = [3]float32{v[0], v[2], -v[1]}
	}
	positionAccessor := modeler.WritePosition(doc, positions)

	var normalsAccessor uint32
	hasNormals := len(mesh.Normals()) == len(verts) && len(verts) > 0
	if hasNormals {
		normals := make([][3]float32, len(verts))
		for i, n := range mesh.Normals() {
			normals[i] = [3]float32{n[0], n[2], -n[1]}
		}
		normalsAccessor = modeler.WriteNormal(doc, normals)
	}

	var uvAccessor uint32
	hasUV := mesh.HasUV() && len(mesh.UV()) == len(verts)
	if hasUV {
		uvs := make([][2]float32, len(verts))
		for i, uv := range mesh.UV() {
			uvs[i] = uv
		}
		uvAccessor = modeler.WriteTextureCoord(doc, uvs)
	}

	gm := &gltf.Mesh{Name: name}

	slots := mesh.Slots()
	slotCount := len(slots)
	if slotCount == 0 {
		slotCount = 1
	}

	for iSlot := 0; iSlot < slotCount; iSlot++ {
		indices := mesh.SlotIndices(iSlot)
		if len(indices) == 0 {
			continue
		}

		matName := materials.DEFAULT_MATERIAL_NAME
		if iSlot < len(slots) && slots[iSlot] != nil && slots[iSlot].Name() != "" {
			matName = slots[iSlot].Name()
		}
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:                 matName,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{},
		})
		materialIndex := uint32(len(doc.Materials) - 1)

		attributes := map[string]uint32{"POSITION": positionAccessor}
		if hasNormals {
			attributes["NORMAL"] = normalsAccessor
		}
		if hasUV {
			attributes["TEXCOORD_0"] = uvAccessor
		}

		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: attributes,
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Material:   gltf.Index(materialIndex),
		})
	}

	if len(gm.Primitives) == 0 {
		return errors.Errorf("mesh %q has no triangles", name)
	}

	doc.Meshes = append(doc.Meshes, gm)
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	defer f.Close()

	encoder := gltf.NewEncoder(f)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrap(err, fmt.Sprintf("encode glb %q", path))
	}
	return nil
}
