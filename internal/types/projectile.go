package types

// Projectile represents a shot in flight
type Projectile struct {
	ScreenObject
	OwnerID   string `json:"ownerId"`
	IsEnemy   bool   `json:"isEnemy"`
	TicksLeft int    `json:"ticksLeft"`
	Damage    int    `json:"damage"`
}

// Expire counts down the lifetime and deactivates the projectile at zero.
func (p *Projectile) Expire() {
	p.TicksLeft--
	if p.TicksLeft <= 0 {
		p.Active = false
	}
}

func (p *Projectile) Clone() *Projectile {
	clone := *p
	return &clone
}
