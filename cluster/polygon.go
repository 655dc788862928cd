package cluster

import (
	"math"

	"github.com/tsawler/retypeset/model"
)

// eps absorbs floating point noise in orientation tests.
const eps = 1e-9

// orientation returns the sign of the turn a -> b -> c:
// 1 counter-clockwise, -1 clockwise, 0 collinear.
func orientation(a, b, c model.Point) int {
	v := b.Sub(a).Cross(c.Sub(a))
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether p lies within the bounding box of segment ab.
// Only meaningful when p is collinear with a and b.
func onSegment(a, b, p model.Point) bool {
	return p.X >= math.Min(a.X, b.X)-eps && p.X <= math.Max(a.X, b.X)+eps &&
		p.Y >= math.Min(a.Y, b.Y)-eps && p.Y <= math.Max(a.Y, b.Y)+eps
}

// segmentsIntersect reports whether closed segments ab and cd share a point.
func segmentsIntersect(a, b, c, d model.Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases
	if o1 == 0 && onSegment(a, b, c) {
		return true
	}
	if o2 == 0 && onSegment(a, b, d) {
		return true
	}
	if o3 == 0 && onSegment(c, d, a) {
		return true
	}
	if o4 == 0 && onSegment(c, d, b) {
		return true
	}
	return false
}

// pointSegmentDistance returns the distance from p to the closed segment ab.
func pointSegmentDistance(p, a, b model.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := model.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Distance(proj)
}

// segmentDistance returns the minimum distance between closed segments ab and cd.
func segmentDistance(a, b, c, d model.Point) float64 {
	if segmentsIntersect(a, b, c, d) {
		return 0
	}
	return math.Min(
		math.Min(pointSegmentDistance(a, c, d), pointSegmentDistance(b, c, d)),
		math.Min(pointSegmentDistance(c, a, b), pointSegmentDistance(d, a, b)),
	)
}

// containsPoint reports whether p lies strictly inside q using the even-odd
// ray casting rule. Works for non-convex simple quads; degenerate quads
// contain nothing.
func containsPoint(q model.Quad, p model.Point) bool {
	inside := false
	for i, j := 0, len(q)-1; i < len(q); j, i = i, i+1 {
		a, b := q[i], q[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// quadDistance returns the minimum distance between two quads treated as
// closed regions: 0 when their boundaries cross or one contains the other,
// otherwise the smallest edge-to-edge distance.
//
// Offsetting each quad by a radius and testing the results for intersection
// is equivalent to quadDistance(a, b) <= ra+rb.
func quadDistance(a, b model.Quad) float64 {
	if containsPoint(a, b[0]) || containsPoint(b, a[0]) {
		return 0
	}
	best := math.Inf(1)
	for i := range a {
		a1, a2 := a[i], a[(i+1)%len(a)]
		for j := range b {
			d := segmentDistance(a1, a2, b[j], b[(j+1)%len(b)])
			if d == 0 {
				return 0
			}
			best = math.Min(best, d)
		}
	}
	return best
}
