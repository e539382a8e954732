package types

import "math"

// Vector2 represents a 2D vector
type Vector2 struct {
	X float64 `json:"x" msgpack:"x" bson:"x"`
	Y float64 `json:"y" msgpack:"y" bson:"y"`
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector2) Cross(o Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector2) Distance(o Vector2) float64 {
	return v.Sub(o).Length()
}

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l < 1e-10 {
		return Vector2{}
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// Lerp interpolates between v and o at t in [0,1].
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// FromAngle builds a vector of the given length pointing at angle degrees,
// measured clockwise from +X in screen coordinates.
func FromAngle(angle, length float64) Vector2 {
	rad := angle * (math.Pi / 180.0)
	return Vector2{X: math.Cos(rad) * length, Y: math.Sin(rad) * length}
}

// AABB is an axis-aligned box with Min <= Max.
type AABB struct {
	Min Vector2 `json:"min"`
	Max Vector2 `json:"max"`
}

// BoxAround returns the box bounding a circle.
func BoxAround(center Vector2, radius float64) AABB {
	return AABB{
		Min: Vector2{X: center.X - radius, Y: center.Y - radius},
		Max: Vector2{X: center.X + radius, Y: center.Y + radius},
	}
}

// SweptBox bounds a circle moving from p0 to p1.
func SweptBox(p0, p1 Vector2, radius float64) AABB {
	return AABB{
		Min: Vector2{X: math.Min(p0.X, p1.X) - radius, Y: math.Min(p0.Y, p1.Y) - radius},
		Max: Vector2{X: math.Max(p0.X, p1.X) + radius, Y: math.Max(p0.Y, p1.Y) + radius},
	}
}

func (b AABB) Width() float64  { return b.Max.X - b.Min.X }
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }
