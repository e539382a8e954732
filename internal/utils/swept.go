package utils

import (
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// SweptHit describes the first contact of a moving circle with a segment.
type SweptHit struct {
	TOI      float64       // fraction of the tick in [0,1]
	Normal   types.Vector2 // unit, from the wall toward the circle
	Point    types.Vector2 // contact point on the segment
	Degraded bool          // bisection did not converge; TOI is approximate
}

// SweepOptions bounds the bisection fallback.
type SweepOptions struct {
	BisectionSteps int
	Tolerance      float64
}

// DefaultSweepOptions is used by CircleSegmentSwept.
var DefaultSweepOptions = SweepOptions{BisectionSteps: 32, Tolerance: 1e-6}

// CircleSegmentSwept returns the earliest time in [0,1] at which a circle of
// the given radius moving from p0 to p1 touches segment AB.
func CircleSegmentSwept(p0, p1 types.Vector2, radius float64, a, b types.Vector2) (SweptHit, bool) {
	return DefaultSweepOptions.Sweep(p0, p1, radius, a, b)
}

// Sweep solves the contact time analytically: the moving center against the
// segment's line clipped to its interior, then against both endpoint caps.
// When the analytic answer fails its own distance check the time is
// recovered by bisection.
func (o SweepOptions) Sweep(p0, p1 types.Vector2, radius float64, a, b types.Vector2) (SweptHit, bool) {
	d := p1.Sub(p0)

	// Already touching: only a hit if not separating
	if DistanceToSegment(p0, a, b) <= radius {
		n := WallNormal(p0, a, b)
		if d.Dot(n) > 0 {
			return SweptHit{}, false
		}
		return SweptHit{TOI: 0, Normal: n, Point: ClosestPointOnSegment(p0, a, b)}, true
	}

	if d.LengthSquared() < epsilon {
		return SweptHit{}, false
	}

	best := math.Inf(1)
	if t, ok := sweepLine(p0, d, radius, a, b); ok && t < best {
		best = t
	}
	if t, ok := sweepPoint(p0, d, radius, a); ok && t < best {
		best = t
	}
	if t, ok := sweepPoint(p0, d, radius, b); ok && t < best {
		best = t
	}

	if math.IsInf(best, 1) {
		// No analytic root. The distance along the path is convex, so a
		// positive minimum proves there is no contact.
		tMin, dMin := closestApproach(p0, d, a, b)
		if dMin > radius {
			return SweptHit{}, false
		}
		return o.bisect(p0, d, radius, a, b, tMin)
	}

	center := p0.Add(d.Scale(best))
	if math.IsNaN(best) || math.Abs(DistanceToSegment(center, a, b)-radius) > 1e-6*math.Max(1, radius) {
		tMin, dMin := closestApproach(p0, d, a, b)
		if dMin > radius {
			return SweptHit{}, false
		}
		return o.bisect(p0, d, radius, a, b, tMin)
	}

	return SweptHit{
		TOI:    best,
		Normal: WallNormal(center, a, b),
		Point:  ClosestPointOnSegment(center, a, b),
	}, true
}

// sweepLine finds when the center reaches distance r from the infinite line
// through AB, keeping roots whose projection falls inside the segment.
func sweepLine(p0, d types.Vector2, r float64, a, b types.Vector2) (float64, bool) {
	e := b.Sub(a)
	l2 := e.LengthSquared()
	if l2 < epsilon {
		return 0, false
	}
	n := types.Vector2{X: -e.Y, Y: e.X}.Normalize()
	s0 := p0.Sub(a).Dot(n)
	sd := d.Dot(n)

	var t float64
	switch {
	case s0 > 0 && sd < 0:
		t = (r - s0) / sd
	case s0 < 0 && sd > 0:
		t = (-r - s0) / sd
	default:
		return 0, false
	}
	if t < 0 || t > 1 {
		return 0, false
	}
	u := p0.Add(d.Scale(t)).Sub(a).Dot(e) / l2
	if u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

// sweepPoint solves |p0 + d t - q| = r for the entering root.
func sweepPoint(p0, d types.Vector2, r float64, q types.Vector2) (float64, bool) {
	m := p0.Sub(q)
	qa := d.Dot(d)
	qb := 2 * m.Dot(d)
	qc := m.Dot(m) - r*r
	if qa < epsilon {
		return 0, false
	}
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0, false
	}
	t := (-qb - math.Sqrt(disc)) / (2 * qa)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// closestApproach minimizes the center-to-segment distance over [0,1] by
// ternary search.
func closestApproach(p0, d types.Vector2, a, b types.Vector2) (float64, float64) {
	lo, hi := 0.0, 1.0
	for range 60 {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if DistanceToSegment(p0.Add(d.Scale(m1)), a, b) < DistanceToSegment(p0.Add(d.Scale(m2)), a, b) {
			hi = m2
		} else {
			lo = m1
		}
	}
	t := (lo + hi) / 2
	return t, DistanceToSegment(p0.Add(d.Scale(t)), a, b)
}

// bisect narrows [0, tContact] to the first time the distance reaches r.
// The distance is decreasing on that interval.
func (o SweepOptions) bisect(p0, d types.Vector2, r float64, a, b types.Vector2, tContact float64) (SweptHit, bool) {
	lo, hi := 0.0, tContact
	for i := 0; i < o.BisectionSteps && hi-lo > o.Tolerance; i++ {
		mid := (lo + hi) / 2
		if DistanceToSegment(p0.Add(d.Scale(mid)), a, b) <= r {
			hi = mid
		} else {
			lo = mid
		}
	}
	center := p0.Add(d.Scale(hi))
	return SweptHit{
		TOI:      hi,
		Normal:   WallNormal(center, a, b),
		Point:    ClosestPointOnSegment(center, a, b),
		Degraded: hi-lo > o.Tolerance,
	}, true
}
