package utils

import (
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

const epsilon = 1e-10

// CheckBoxCollision reports whether two boxes overlap, shared edges
// included.
func CheckBoxCollision(a, b types.AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X && a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func CutLineSegmentBeforeRect(x1, y1, x2, y2, rx, ry, rw, rh float64) (float64, float64) {
	// Liang-Barsky algorithm to find intersection point
	dx := x2 - x1
	dy := y2 - y1

	p := []float64{-dx, dx, -dy, dy}
	q := []float64{x1 - rx, rx + rw - x1, y1 - ry, ry + rh - y1}

	u1, u2 := 0.0, 1.0

	for i := range 4 {
		if p[i] == 0 {
			// Line is parallel to this edge
			if q[i] < 0 {
				return x2, y2
			}
		} else {
			t := q[i] / p[i]
			if p[i] < 0 {
				if t > u2 {
					return x2, y2
				}
				if t > u1 {
					u1 = t
				}
			} else {
				// Leaving the rectangle
				if t < u1 {
					return x2, y2
				}
				if t < u2 {
					u2 = t
				}
			}
		}
	}

	return x1 + u1*dx, y1 + u1*dy
}

// CheckLineRectCollision reports whether segment (x1,y1)-(x2,y2) touches the
// rectangle, borders included.
func CheckLineRectCollision(x1, y1, x2, y2, rx, ry, rw, rh float64) bool {
	if x2 >= rx && x2 <= rx+rw && y2 >= ry && y2 <= ry+rh {
		return true
	}
	ix, iy := CutLineSegmentBeforeRect(x1, y1, x2, y2, rx, ry, rw, rh)
	return !(ix == x2 && iy == y2)
}

func CheckCircleCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x1 - x2
	dy := y1 - y2
	distance := math.Sqrt(dx*dx + dy*dy)
	return distance < r1+r2
}

func CheckCircleRectCollision(cx, cy, r, rx, ry, rw, rh float64) bool {
	// Find closest point on rectangle to circle
	closestX := math.Max(rx, math.Min(cx, rx+rw))
	closestY := math.Max(ry, math.Min(cy, ry+rh))

	dx := cx - closestX
	dy := cy - closestY

	return (dx*dx + dy*dy) < (r * r)
}

// Returns the closest point on the line segment AB to point P
func ClosestPointOnLineSegment(ax, ay, bx, by, px, py float64) (float64, float64) {
	apx := px - ax
	apy := py - ay
	abx := bx - ax
	aby := by - ay

	ab2 := abx*abx + aby*aby
	if ab2 < epsilon {
		return ax, ay // a and b are the same point
	}

	t := (apx*abx + apy*aby) / ab2

	if t < 0 {
		return ax, ay
	} else if t > 1 {
		return bx, by
	}

	return ax + abx*t, ay + aby*t
}

// ClosestPointOnSegment is ClosestPointOnLineSegment over vectors.
func ClosestPointOnSegment(p, a, b types.Vector2) types.Vector2 {
	x, y := ClosestPointOnLineSegment(a.X, a.Y, b.X, b.Y, p.X, p.Y)
	return types.Vector2{X: x, Y: y}
}

func DistanceToSegment(p, a, b types.Vector2) float64 {
	return p.Distance(ClosestPointOnSegment(p, a, b))
}

// CheckCircleSegmentCollision is the discrete end-of-tick test.
func CheckCircleSegmentCollision(center types.Vector2, radius float64, a, b types.Vector2) bool {
	return DistanceToSegment(center, a, b) < radius
}

// WallNormal returns the unit normal of segment AB pointing toward p. When p
// lies on the segment the left-hand perpendicular is used.
func WallNormal(p, a, b types.Vector2) types.Vector2 {
	n := p.Sub(ClosestPointOnSegment(p, a, b))
	if n.Length() >= epsilon {
		return n.Normalize()
	}
	e := b.Sub(a)
	if e.Length() < epsilon {
		return types.Vector2{X: 1, Y: 0}
	}
	return types.Vector2{X: -e.Y, Y: e.X}.Normalize()
}

// ReflectVelocity mirrors v across the surface with unit normal n:
// v' = v - (1+e)(v.n)n. Restitution 1 is a perfect mirror, 0 kills the normal
// component.
func ReflectVelocity(v, n types.Vector2, restitution float64) types.Vector2 {
	return v.Sub(n.Scale((1 + restitution) * v.Dot(n)))
}

// SegmentsIntersect reports whether segments PQ and AB cross or touch.
func SegmentsIntersect(p, q, a, b types.Vector2) bool {
	r := q.Sub(p)
	s := b.Sub(a)
	denom := r.Cross(s)
	ap := a.Sub(p)
	if math.Abs(denom) < epsilon {
		if math.Abs(ap.Cross(r)) > epsilon {
			return false // parallel
		}
		// Collinear: overlap of projections
		rr := r.Dot(r)
		if rr < epsilon {
			return DistanceToSegment(p, a, b) < epsilon
		}
		t0 := ap.Dot(r) / rr
		t1 := t0 + s.Dot(r)/rr
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		return t1 >= 0 && t0 <= 1
	}
	t := ap.Cross(s) / denom
	u := ap.Cross(r) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// CellXYFromPosition maps a world position to the coordinates of the grid
// cell of the given size containing it.
func CellXYFromPosition(posX, posY, cellSize float64) (int, int) {
	return int(math.Floor(posX / cellSize)), int(math.Floor(posY / cellSize))
}
