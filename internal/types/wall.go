package types

// Wall is a segment of maze geometry. Index is its position in the maze's
// segment sequence and doubles as its identifier.
type Wall struct {
	Index int     `json:"index" msgpack:"i"`
	Start Vector2 `json:"start" msgpack:"a"`
	End   Vector2 `json:"end" msgpack:"b"`
}

func (w Wall) Bounds() AABB {
	b := AABB{Min: w.Start, Max: w.End}
	if b.Min.X > b.Max.X {
		b.Min.X, b.Max.X = b.Max.X, b.Min.X
	}
	if b.Min.Y > b.Max.Y {
		b.Min.Y, b.Max.Y = b.Max.Y, b.Min.Y
	}
	return b
}

func (w Wall) Length() float64 {
	return w.Start.Distance(w.End)
}

func (w Wall) Center() Vector2 {
	return w.Start.Lerp(w.End, 0.5)
}
