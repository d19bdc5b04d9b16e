// Package defoldfmt assembles the Defold text asset formats: .model, .go,
// .collection, .convexshape and .collisionobject. Everything is emitted
// with \n line endings and stable float formatting so regeneration of an
// unchanged scene is byte-identical.
package defoldfmt

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Tolerance under which a transform component counts as identity and its
// sub-block is omitted from the collection. The omission is part of the
// format contract, not an optimization.
const IdentityTolerance = 1e-9

const (
	CollisionFriction    = 0.1
	CollisionRestitution = 0.5
)

type MaterialBlock struct {
	Name     string
	Material string
	Texture  string
}

// ModelText builds a .model file: mesh reference, model name and one
// materials block per resolved binding, each with a single tex0 sampler.
func ModelText(meshProjectPath, name string, blocks []MaterialBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "mesh: %q\n", meshProjectPath)
	fmt.Fprintf(&sb, "name: %q\n", name)
	for _, b := range blocks {
		sb.WriteString("materials {\n")
		fmt.Fprintf(&sb, "  name: %q\n", b.Name)
		fmt.Fprintf(&sb, "  material: %q\n", b.Material)
		sb.WriteString("  textures {\n")
		sb.WriteString("    sampler: \"tex0\"\n")
		fmt.Fprintf(&sb, "    texture: %q\n", b.Texture)
		sb.WriteString("  }\n")
		sb.WriteString("}\n")
	}
	return sb.String()
}

// GameObjectText builds the prototype-definition .go file referencing the
// model component and, when non-empty, a collision component.
func GameObjectText(modelProjectPath, collisionObjectProjectPath string) string {
	var sb strings.Builder
	sb.WriteString("components {\n")
	sb.WriteString("  id: \"model\"\n")
	fmt.Fprintf(&sb, "  component: %q\n", modelProjectPath)
	sb.WriteString("}\n")
	if collisionObjectProjectPath != "" {
		sb.WriteString("components {\n")
		sb.WriteString("  id: \"collision\"\n")
		fmt.Fprintf(&sb, "  component: %q\n", collisionObjectProjectPath)
		sb.WriteString("}\n")
	}
	return sb.String()
}

// ConvexShapeText serializes hull points as a TYPE_HULL shape, one data
// line per coordinate, vertex-major.
func ConvexShapeText(points []mgl64.Vec3) string {
	var sb strings.Builder
	sb.WriteString("shape_type: TYPE_HULL\n")
	for _, p := range points {
		fmt.Fprintf(&sb, "data: %s\n", f6(p[0]))
		fmt.Fprintf(&sb, "data: %s\n", f6(p[1]))
		fmt.Fprintf(&sb, "data: %s\n", f6(p[2]))
	}
	return sb.String()
}

// CollisionObjectText builds the static physics-body descriptor referencing
// a hull shape file.
func CollisionObjectText(shapeProjectPath, group, mask string) string {
	if group == "" {
		group = "default"
	}
	if mask == "" {
		mask = "default"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "collision_shape: %q\n", shapeProjectPath)
	sb.WriteString("type: COLLISION_OBJECT_TYPE_STATIC\n")
	sb.WriteString("mass: 0.0\n")
	fmt.Fprintf(&sb, "friction: %.3f\n", CollisionFriction)
	fmt.Fprintf(&sb, "restitution: %.3f\n", CollisionRestitution)
	fmt.Fprintf(&sb, "group: %q\n", group)
	fmt.Fprintf(&sb, "mask: %q\n", mask)
	return sb.String()
}

func f6(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
