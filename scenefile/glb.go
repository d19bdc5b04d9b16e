package scenefile

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/reforge/reforge/host/memscene"
)

// loadGLB reads the first mesh of a glTF binary into a memscene mesh.
// Primitives become material slots; positions come back to the source
// Z-up convention ((x, y, z) -> (x, -z, y)). Materials defined in the
// scene file override same-named container materials so overrides and
// bake flags can attach to referenced geometry.
func loadGLB(path string, mats map[string]*memscene.Material) (*memscene.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open glb %q", path)
	}
	if len(doc.Meshes) == 0 {
		return nil, errors.Errorf("glb %q contains no meshes", path)
	}
	gm := doc.Meshes[0]

	var verts []mgl32.Vec3
	var normals []mgl32.Vec3
	var uvs [][2]float32
	type slot struct {
		mat     *memscene.Material
		indices []uint32
	}
	var slots []slot

	for _, prim := range gm.Primitives {
		posAccessor, ok := prim.Attributes["POSITION"]
		if !ok {
			return nil, errors.Errorf("glb %q: primitive without POSITION", path)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "glb %q positions", path)
		}

		base := uint32(len(verts))
		for _, p := range positions {
			verts = append(verts, mgl32.Vec3{p[0], -p[2], p[1]})
		}

		if na, ok := prim.Attributes["NORMAL"]; ok {
			ns, err := modeler.ReadNormal(doc, doc.Accessors[na], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "glb %q normals", path)
			}
			for _, n := range ns {
				normals = append(normals, mgl32.Vec3{n[0], -n[2], n[1]})
			}
		}

		if ta, ok := prim.Attributes["TEXCOORD_0"]; ok {
			tc, err := modeler.ReadTextureCoord(doc, doc.Accessors[ta], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "glb %q texcoords", path)
			}
			uvs = append(uvs, tc...)
		}

		var indices []uint32
		if prim.Indices != nil {
			raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "glb %q indices", path)
			}
			indices = make([]uint32, len(raw))
			for i, idx := range raw {
				indices[i] = idx + base
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = base + uint32(i)
			}
		}

		var mat *memscene.Material
		if prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
			name := doc.Materials[*prim.Material].Name
			if m, ok := mats[name]; ok {
				mat = m
			} else {
				mat = memscene.NewMaterial(name)
				mats[name] = mat
			}
		}
		slots = append(slots, slot{mat: mat, indices: indices})
	}

	mesh := memscene.NewMesh(verts)
	if len(normals) == len(verts) {
		mesh.SetNormals(normals)
	}
	if len(uvs) == len(verts) {
		mesh.SetUV(uvs)
	}
	for _, s := range slots {
		mesh.AddSlot(s.mat, s.indices)
	}
	return mesh, nil
}

func toVec3(in [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(in))
	for i, v := range in {
		out[i] = mgl32.Vec3{v[0], v[1], v[2]}
	}
	return out
}
