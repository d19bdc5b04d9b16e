package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AxisConvert maps the authoring convention (right-handed, Z-up) onto the
// engine convention (Y-up): (x, y, z) -> (x, z, -y). Column-major storage.
var AxisConvert = mgl64.Mat4{
	1, 0, 0, 0,
	0, 0, -1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// TRS is a decomposed target-space transform.
type TRS struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// ToTargetTRS conjugates a source-space world matrix with the axis
// conversion and decomposes the result into translation, rotation and
// per-axis scale, in that order. Rotation is extracted from the
// scale-normalized basis so non-uniform scale does not corrupt it.
func ToTargetTRS(world mgl64.Mat4) TRS {
	m := AxisConvert.Mul4(world).Mul4(AxisConvert.Inv())

	pos := mgl64.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}

	bx := mgl64.Vec3{m.At(0, 0), m.At(1, 0), m.At(2, 0)}
	by := mgl64.Vec3{m.At(0, 1), m.At(1, 1), m.At(2, 1)}
	bz := mgl64.Vec3{m.At(0, 2), m.At(1, 2), m.At(2, 2)}

	scale := mgl64.Vec3{bx.Len(), by.Len(), bz.Len()}

	// A negative determinant means one axis is mirrored. Fold the flip
	// into the X scale so the remaining basis is a proper rotation.
	if det3(bx, by, bz) < 0 {
		scale[0] = -scale[0]
	}

	rot := mgl64.QuatIdent()
	if scale[0] != 0 && scale[1] != 0 && scale[2] != 0 {
		bx = bx.Mul(1 / scale[0])
		by = by.Mul(1 / scale[1])
		bz = bz.Mul(1 / scale[2])
		rm := mgl64.Mat4{
			bx[0], bx[1], bx[2], 0,
			by[0], by[1], by[2], 0,
			bz[0], bz[1], bz[2], 0,
			0, 0, 0, 1,
		}
		rot = mgl64.Mat4ToQuat(rm).Normalize()
	}

	return TRS{Position: pos, Rotation: rot, Scale: scale}
}

func det3(a, b, c mgl64.Vec3) float64 {
	return a.Dot(b.Cross(c))
}

// Compose builds a source-space world matrix from translation, XYZ euler
// rotation (radians) and scale. Used by scene loaders and tests.
func Compose(pos, eulerRad, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(pos[0], pos[1], pos[2])
	rx := mgl64.HomogRotate3DX(eulerRad[0])
	ry := mgl64.HomogRotate3DY(eulerRad[1])
	rz := mgl64.HomogRotate3DZ(eulerRad[2])
	s := mgl64.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(rz).Mul4(ry).Mul4(rx).Mul4(s)
}

func DegToRad(v mgl64.Vec3) mgl64.Vec3 {
	const k = math.Pi / 180
	return mgl64.Vec3{v[0] * k, v[1] * k, v[2] * k}
}
