// Package collision extracts convex collision hulls from mesh geometry and
// serializes them as engine physics assets.
package collision

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type hullFace struct {
	a, b, c int
	normal  mgl32.Vec3
	offset  float32
	outside []int
	dead    bool
}

// ConvexHull computes the convex hull of a point cloud (quickhull) and
// returns its vertices sorted lexicographically, so serialization of the
// same cloud is always byte-stable. Degenerate clouds (fewer than four
// distinct points, collinear or coplanar input) fall back to the
// deduplicated input points.
func ConvexHull(points []mgl32.Vec3) []mgl32.Vec3 {
	pts := dedupe(points)
	if len(pts) < 4 {
		return sorted(pts)
	}

	eps := epsilonFor(pts)

	i0, i1 := extremePair(pts)
	if pts[i0].Sub(pts[i1]).Len() <= eps {
		return sorted(pts)
	}
	i2 := farthestFromLine(pts, i0, i1)
	if distToLine(pts[i2], pts[i0], pts[i1]) <= eps {
		return sorted(pts)
	}
	i3 := farthestFromPlane(pts, i0, i1, i2)
	if math32.Abs(signedPlaneDist(pts[i3], pts[i0], pts[i1], pts[i2])) <= eps {
		return sorted(pts)
	}

	faces := initialTetra(pts, i0, i1, i2, i3)
	assignOutside(pts, faces, []int{i0, i1, i2, i3}, eps)

	for {
		fi := -1
		for i := range faces {
			if !faces[i].dead && len(faces[i].outside) > 0 {
				fi = i
				break
			}
		}
		if fi < 0 {
			break
		}
		f := &faces[fi]

		// Farthest outside point of this face becomes a hull vertex.
		best, bestDist := -1, float32(0)
		for _, pi := range f.outside {
			if d := f.normal.Dot(pts[pi]) - f.offset; d > bestDist {
				best, bestDist = pi, d
			}
		}
		if best < 0 {
			f.outside = nil
			continue
		}

		visible := make([]int, 0, 8)
		for i := range faces {
			if faces[i].dead {
				continue
			}
			if faces[i].normal.Dot(pts[best])-faces[i].offset > eps {
				visible = append(visible, i)
			}
		}

		// Horizon edges: directed edges of visible faces whose reverse is
		// not shared with another visible face.
		type edge struct{ u, v int }
		edgeSet := make(map[edge]bool)
		for _, vi := range visible {
			vf := &faces[vi]
			for _, e := range [][2]int{{vf.a, vf.b}, {vf.b, vf.c}, {vf.c, vf.a}} {
				edgeSet[edge{e[0], e[1]}] = true
			}
		}

		var orphans []int
		for _, vi := range visible {
			orphans = append(orphans, faces[vi].outside...)
			faces[vi].dead = true
			faces[vi].outside = nil
		}

		var created []int
		for e := range edgeSet {
			if edgeSet[edge{e.v, e.u}] {
				continue // interior edge of the visible region
			}
			nf := newFace(pts, e.u, e.v, best)
			faces = append(faces, nf)
			created = append(created, len(faces)-1)
		}

		for _, pi := range orphans {
			if pi == best {
				continue
			}
			for _, ci := range created {
				cf := &faces[ci]
				if cf.normal.Dot(pts[pi])-cf.offset > eps {
					cf.outside = append(cf.outside, pi)
					break
				}
			}
		}
	}

	used := make(map[int]bool)
	for i := range faces {
		if faces[i].dead {
			continue
		}
		used[faces[i].a] = true
		used[faces[i].b] = true
		used[faces[i].c] = true
	}
	out := make([]mgl32.Vec3, 0, len(used))
	for i := range used {
		out = append(out, pts[i])
	}
	return sorted(out)
}

func dedupe(points []mgl32.Vec3) []mgl32.Vec3 {
	seen := make(map[mgl32.Vec3]bool, len(points))
	out := make([]mgl32.Vec3, 0, len(points))
	for _, p := range points {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func sorted(pts []mgl32.Vec3) []mgl32.Vec3 {
	out := append([]mgl32.Vec3(nil), pts...)
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][2] < out[j][2]
	})
	return out
}

func epsilonFor(pts []mgl32.Vec3) float32 {
	var ext float32
	for _, p := range pts {
		for a := 0; a < 3; a++ {
			if v := math32.Abs(p[a]); v > ext {
				ext = v
			}
		}
	}
	if ext < 1 {
		ext = 1
	}
	return ext * 1e-5
}

func extremePair(pts []mgl32.Vec3) (int, int) {
	minI := [3]int{0, 0, 0}
	maxI := [3]int{0, 0, 0}
	for i, p := range pts {
		for a := 0; a < 3; a++ {
			if p[a] < pts[minI[a]][a] {
				minI[a] = i
			}
			if p[a] > pts[maxI[a]][a] {
				maxI[a] = i
			}
		}
	}
	bi, bj, bd := 0, 0, float32(-1)
	for a := 0; a < 3; a++ {
		if d := pts[maxI[a]].Sub(pts[minI[a]]).Len(); d > bd {
			bi, bj, bd = minI[a], maxI[a], d
		}
	}
	return bi, bj
}

func distToLine(p, a, b mgl32.Vec3) float32 {
	ab := b.Sub(a)
	l := ab.Len()
	if l == 0 {
		return p.Sub(a).Len()
	}
	return p.Sub(a).Cross(ab).Len() / l
}

func farthestFromLine(pts []mgl32.Vec3, i0, i1 int) int {
	best, bd := 0, float32(-1)
	for i, p := range pts {
		if i == i0 || i == i1 {
			continue
		}
		if d := distToLine(p, pts[i0], pts[i1]); d > bd {
			best, bd = i, d
		}
	}
	return best
}

func signedPlaneDist(p, a, b, c mgl32.Vec3) float32 {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l == 0 {
		return 0
	}
	return n.Mul(1 / l).Dot(p.Sub(a))
}

func farthestFromPlane(pts []mgl32.Vec3, i0, i1, i2 int) int {
	best, bd := 0, float32(-1)
	for i, p := range pts {
		if i == i0 || i == i1 || i == i2 {
			continue
		}
		if d := math32.Abs(signedPlaneDist(p, pts[i0], pts[i1], pts[i2])); d > bd {
			best, bd = i, d
		}
	}
	return best
}

func newFace(pts []mgl32.Vec3, a, b, c int) hullFace {
	n := pts[b].Sub(pts[a]).Cross(pts[c].Sub(pts[a]))
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	return hullFace{a: a, b: b, c: c, normal: n, offset: n.Dot(pts[a])}
}

func initialTetra(pts []mgl32.Vec3, i0, i1, i2, i3 int) []hullFace {
	// Orient the base so the apex lies behind it.
	if signedPlaneDist(pts[i3], pts[i0], pts[i1], pts[i2]) > 0 {
		i1, i2 = i2, i1
	}
	return []hullFace{
		newFace(pts, i0, i1, i2),
		newFace(pts, i0, i3, i1),
		newFace(pts, i1, i3, i2),
		newFace(pts, i2, i3, i0),
	}
}

func assignOutside(pts []mgl32.Vec3, faces []hullFace, hullPts []int, eps float32) {
	onHull := make(map[int]bool, len(hullPts))
	for _, i := range hullPts {
		onHull[i] = true
	}
	for pi := range pts {
		if onHull[pi] {
			continue
		}
		for fi := range faces {
			if faces[fi].normal.Dot(pts[pi])-faces[fi].offset > eps {
				faces[fi].outside = append(faces[fi].outside, pi)
				break
			}
		}
	}
}
