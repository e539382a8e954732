package types

// Crystal is a power-up left by a destroyed enemy. Picking it up upgrades
// the ship's gun.
type Crystal struct {
	ScreenObject
	SourceID string `json:"sourceId"`
}

func (c *Crystal) Clone() *Crystal {
	clone := *c
	return &clone
}
