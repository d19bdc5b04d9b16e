package defoldfmt

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Instance is one placement of a prototype inside a collection.
type Instance struct {
	ID        string
	Prototype string // project path of the prototype .go file
	Position  mgl64.Vec3
	Rotation  mgl64.Quat
	Scale     mgl64.Vec3
}

// CollectionText builds the .collection file: flat instance placements
// followed by the grouping hierarchy (a root embedded instance listing all
// prototypes, then one embedded instance per prototype listing its
// placements). Position/rotation/scale3 blocks are omitted when within
// tolerance of identity.
func CollectionText(name string, protos []string, instances map[string][]Instance) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name: %q\n", name)

	for _, proto := range protos {
		for _, inst := range instances[proto] {
			sb.WriteString("instances {\n")
			fmt.Fprintf(&sb, "  id: %q\n", inst.ID)
			fmt.Fprintf(&sb, "  prototype: %q\n", inst.Prototype)
			writePosition(&sb, inst.Position)
			writeRotation(&sb, inst.Rotation)
			writeScale(&sb, inst.Scale)
			sb.WriteString("}\n")
		}
	}

	sb.WriteString("scale_along_z: 0\n")

	sb.WriteString("embedded_instances {\n")
	sb.WriteString("  id: \"root\"\n")
	for _, proto := range protos {
		fmt.Fprintf(&sb, "  children: %q\n", proto)
	}
	sb.WriteString("  data: \"\"\n")
	sb.WriteString("}\n")

	for _, proto := range protos {
		sb.WriteString("embedded_instances {\n")
		fmt.Fprintf(&sb, "  id: %q\n", proto)
		for _, inst := range instances[proto] {
			fmt.Fprintf(&sb, "  children: %q\n", inst.ID)
		}
		sb.WriteString("  data: \"\"\n")
		sb.WriteString("}\n")
	}

	return sb.String()
}

func writePosition(sb *strings.Builder, p mgl64.Vec3) {
	if math.Abs(p[0]) <= IdentityTolerance &&
		math.Abs(p[1]) <= IdentityTolerance &&
		math.Abs(p[2]) <= IdentityTolerance {
		return
	}
	sb.WriteString("  position {\n")
	fmt.Fprintf(sb, "    x: %s\n", f6(p[0]))
	fmt.Fprintf(sb, "    y: %s\n", f6(p[1]))
	fmt.Fprintf(sb, "    z: %s\n", f6(p[2]))
	sb.WriteString("  }\n")
}

func writeRotation(sb *strings.Builder, q mgl64.Quat) {
	if math.Abs(q.X()) <= IdentityTolerance &&
		math.Abs(q.Y()) <= IdentityTolerance &&
		math.Abs(q.Z()) <= IdentityTolerance &&
		math.Abs(q.W-1.0) <= IdentityTolerance {
		return
	}
	sb.WriteString("  rotation {\n")
	fmt.Fprintf(sb, "    x: %s\n", f6(q.X()))
	fmt.Fprintf(sb, "    y: %s\n", f6(q.Y()))
	fmt.Fprintf(sb, "    z: %s\n", f6(q.Z()))
	fmt.Fprintf(sb, "    w: %s\n", f6(q.W))
	sb.WriteString("  }\n")
}

func writeScale(sb *strings.Builder, s mgl64.Vec3) {
	if math.Abs(s[0]-1.0) <= IdentityTolerance &&
		math.Abs(s[1]-1.0) <= IdentityTolerance &&
		math.Abs(s[2]-1.0) <= IdentityTolerance {
		return
	}
	sb.WriteString("  scale3 {\n")
	fmt.Fprintf(sb, "    x: %s\n", f6(s[0]))
	fmt.Fprintf(sb, "    y: %s\n", f6(s[1]))
	fmt.Fprintf(sb, "    z: %s\n", f6(s[2]))
	sb.WriteString("  }\n")
}
