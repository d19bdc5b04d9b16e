package collision

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/reforge/reforge/defoldfmt"
	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/transform"
	"github.com/reforge/reforge/utils"
)

const (
	PropCollision = "defold_collision"
	PropGroup     = "collision_group"
	PropMask      = "collision_mask"
)

// HullPoints computes the convex hull of the object's evaluated geometry in
// the prototype's local target frame: each hull vertex is transformed by
// the world rotation/scale (no translation) and then the axis conversion.
// A mesh with no vertices produces an empty hull and no error.
func HullPoints(obj host.Object) []mgl64.Vec3 {
	mesh := obj.Mesh()
	if mesh == nil {
		return nil
	}
	hull := ConvexHull(mesh.Vertices())
	if len(hull) == 0 {
		return nil
	}

	world := obj.WorldTransform()
	rs := world.Mat3()
	axis := transform.AxisConvert.Mat3()

	out := make([]mgl64.Vec3, len(hull))
	for i, p := range hull {
		v := mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
		out[i] = axis.Mul3x1(rs.Mul3x1(v))
	}
	return out
}

// WriteConvexShape writes the hull file for an object. Returns false
// without error when the mesh is degenerate (nothing to write).
func WriteConvexShape(obj host.Object, path string) (bool, error) {
	points := HullPoints(obj)
	if len(points) == 0 {
		return false, nil
	}
	if err := utils.WriteTextFile(path, defoldfmt.ConvexShapeText(points)); err != nil {
		return false, errors.Wrapf(err, "write convex shape %q", path)
	}
	return true, nil
}

// Group and Mask read the object's collision filter identifiers, defaulting
// to "default".
func Group(obj host.Object) string {
	if v := host.PropString(obj, PropGroup); v != "" {
		return v
	}
	return "default"
}

func Mask(obj host.Object) string {
	if v := host.PropString(obj, PropMask); v != "" {
		return v
	}
	return "default"
}

func Enabled(obj host.Object) bool {
	return host.PropBool(obj, PropCollision)
}
