package types

// LevelStatus is the state of the level from the coordinator's view.
type LevelStatus string

const (
	LevelRunning    LevelStatus = "running"
	LevelCompleted  LevelStatus = "completed"
	LevelExitLocked LevelStatus = "exit_locked"
)

// GameState represents the current state of a level, copied out of the
// simulation for external consumers
type GameState struct {
	Level       int              `json:"level"`
	Tick        uint64           `json:"tick"`
	Status      LevelStatus      `json:"status"`
	Ship        *Ship            `json:"ship"`
	Enemies     []*Enemy         `json:"enemies"`
	Projectiles []*Projectile    `json:"projectiles"`
	Crystals    []*Crystal       `json:"crystals"`
	Exit        Vector2          `json:"exit"`
	ActiveEggs  int              `json:"activeEggs"`
	Events      []CollisionEvent `json:"events,omitempty"`
	Destroyed   []DestroySignal  `json:"destroyed,omitempty"`
}
