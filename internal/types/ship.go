package types

import "math"

// Thruster holds the rotate/thrust/drag constants shared by the player ship
// and the command-replaying enemies.
type Thruster struct {
	RotationSpeed float64
	ThrustForce   float64
	Friction      float64
	MaxSpeed      float64
}

// Rotate turns angle by one rotation step; dir is -1 for left, 1 for right.
func (t Thruster) Rotate(angle float64, dir float64) float64 {
	return NormalizeDegrees(angle + dir*t.RotationSpeed)
}

// Thrust accelerates the object along angle.
func (t Thruster) Thrust(o *ScreenObject, angle float64) {
	o.Velocity = o.Velocity.Add(FromAngle(angle, t.ThrustForce))
}

// Drag applies friction and clamps to the maximum speed.
func (t Thruster) Drag(o *ScreenObject) {
	o.Velocity = o.Velocity.Scale(t.Friction)
	if speed := o.Velocity.Length(); speed > t.MaxSpeed && speed > 0 {
		o.Velocity = o.Velocity.Scale(t.MaxSpeed / speed)
	}
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle -= 360
	}
	return angle
}

// Ship is the player's vessel.
type Ship struct {
	ScreenObject
	Angle        float64 `json:"angle"`
	Fuel         int     `json:"fuel"`
	Ammo         int     `json:"ammo"`
	FireCooldown int     `json:"-"`
	Thrusting    bool    `json:"thrusting"`
	Shielded     bool    `json:"shielded"`
	ShieldTicks  int     `json:"shieldTicks"` // level start shield left
	Started      bool    `json:"started"`     // has moved or fired this level
	GunLevel     int     `json:"gunLevel"`
}

// HasFuel reports whether another thrust can be paid for.
func (s *Ship) HasFuel(cost int) bool {
	return s.Fuel >= cost
}

// CanFire reports whether the gun is loaded and cooled down.
func (s *Ship) CanFire() bool {
	return s.Ammo > 0 && s.FireCooldown <= 0
}

func (s *Ship) Clone() *Ship {
	clone := *s
	return &clone
}
