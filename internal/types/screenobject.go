package types

// ScreenObject is the shared record every movable entity embeds.
type ScreenObject struct {
	ID       string  `json:"id"`
	Position Vector2 `json:"position"`
	Velocity Vector2 `json:"velocity"`
	Radius   float64 `json:"radius"`
	Active   bool    `json:"active"`
}

// Object gives access to the embedded record.
func (s *ScreenObject) Object() *ScreenObject {
	return s
}

// Collidable is implemented by every entity the spatial index and the
// resolver handle.
type Collidable interface {
	Object() *ScreenObject
}
