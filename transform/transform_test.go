package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol && math.Abs(a[2]-b[2]) <= tol
}

func quatNear(a, b mgl64.Quat, tol float64) bool {
	// q and -q encode the same rotation.
	dot := a.W*b.W + a.V.Dot(b.V)
	return math.Abs(math.Abs(dot)-1) <= tol
}

func TestIdentity(t *testing.T) {
	trs := ToTargetTRS(mgl64.Ident4())
	if !vecNear(trs.Position, mgl64.Vec3{}, eps) {
		t.Errorf("identity position = %v", trs.Position)
	}
	if !quatNear(trs.Rotation, mgl64.QuatIdent(), eps) {
		t.Errorf("identity rotation = %v", trs.Rotation)
	}
	if !vecNear(trs.Scale, mgl64.Vec3{1, 1, 1}, eps) {
		t.Errorf("identity scale = %v", trs.Scale)
	}
}

// A rotation about the source up axis (Z) must come out as a rotation
// about the target up axis (Y).
func TestSourceZBecomesTargetY(t *testing.T) {
	trs := ToTargetTRS(mgl64.HomogRotate3DZ(math.Pi / 2))
	want := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	if !quatNear(trs.Rotation, want, 1e-9) {
		t.Errorf("rotation = %v; expected about-Y %v", trs.Rotation, want)
	}
	if !vecNear(trs.Scale, mgl64.Vec3{1, 1, 1}, 1e-9) {
		t.Errorf("scale = %v", trs.Scale)
	}
}

func TestTranslationAxisSwap(t *testing.T) {
	trs := ToTargetTRS(mgl64.Translate3D(1, 2, 3))
	if !vecNear(trs.Position, mgl64.Vec3{1, 3, -2}, eps) {
		t.Errorf("position = %v; expected (1, 3, -2)", trs.Position)
	}
}

func TestNonUniformScaleDecompose(t *testing.T) {
	world := Compose(
		mgl64.Vec3{5, -2, 1},
		DegToRad(mgl64.Vec3{0, 0, 90}),
		mgl64.Vec3{2, 1, 0.5},
	)
	trs := ToTargetTRS(world)
	// Scale magnitudes survive the basis change in swapped axis order.
	if !vecNear(trs.Scale, mgl64.Vec3{2, 0.5, 1}, 1e-9) {
		t.Errorf("scale = %v; expected (2, 0.5, 1)", trs.Scale)
	}
	if l := trs.Rotation.Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("rotation not unit length: %v", l)
	}
}

// Conjugating back with the inverse conversion must recover the source
// transform.
func TestRoundTrip(t *testing.T) {
	world := Compose(
		mgl64.Vec3{1, 2, 3},
		DegToRad(mgl64.Vec3{30, -45, 60}),
		mgl64.Vec3{2, 3, 4},
	)
	trs := ToTargetTRS(world)

	rebuilt := mgl64.Translate3D(trs.Position[0], trs.Position[1], trs.Position[2]).
		Mul4(trs.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(trs.Scale[0], trs.Scale[1], trs.Scale[2]))
	back := AxisConvert.Inv().Mul4(rebuilt).Mul4(AxisConvert)

	for i := 0; i < 16; i++ {
		if math.Abs(back[i]-world[i]) > 1e-9 {
			t.Fatalf("round trip mismatch at %d: %v vs %v", i, back[i], world[i])
		}
	}
}
