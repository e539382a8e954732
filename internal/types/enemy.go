package types

// EnemyKind is the discriminant of the enemy variant. It never changes after
// spawn.
type EnemyKind string

const (
	EnemyKindStatic      EnemyKind = "static"
	EnemyKindPatrol      EnemyKind = "patrol"
	EnemyKindAggressive  EnemyKind = "aggressive"
	EnemyKindReplay      EnemyKind = "replay"
	EnemyKindEgg         EnemyKind = "egg"
	EnemyKindBaby        EnemyKind = "baby"
	EnemyKindSplitBoss   EnemyKind = "split_boss"
	EnemyKindMotherBoss  EnemyKind = "mother_boss"
	EnemyKindFlocker     EnemyKind = "flocker"
	EnemyKindFlighthouse EnemyKind = "flighthouse"
)

// EnemyKinds lists every kind in a stable order.
var EnemyKinds = []EnemyKind{
	EnemyKindStatic,
	EnemyKindPatrol,
	EnemyKindAggressive,
	EnemyKindReplay,
	EnemyKindEgg,
	EnemyKindBaby,
	EnemyKindSplitBoss,
	EnemyKindMotherBoss,
	EnemyKindFlocker,
	EnemyKindFlighthouse,
}

func (k EnemyKind) Valid() bool {
	for _, kind := range EnemyKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// PatrolState drives a patrol enemy along its heading.
type PatrolState struct {
	Reversed  bool    `json:"reversed"`
	Travelled float64 `json:"travelled"`
	Distance  float64 `json:"distance"`
}

// AggressiveState tracks pursuit of the player.
type AggressiveState struct {
	Alert     bool    `json:"alert"`
	LastKnown Vector2 `json:"lastKnown"`
}

// ReplayState is a cursor into the shared command recording.
type ReplayState struct {
	Cursor    int  `json:"cursor"`
	Exhausted bool `json:"exhausted"`
}

// EggState tracks growth towards hatching.
type EggState struct {
	Progress   float64 `json:"progress"`
	GrowthRate float64 `json:"growthRate"`
}

// MotherState tracks egg laying.
type MotherState struct {
	EggCooldown int `json:"eggCooldown"`
}

// LighthouseState sweeps a vision cone and launches flockers at the player.
type LighthouseState struct {
	Tracking      bool `json:"tracking"`
	SpawnCooldown int  `json:"spawnCooldown"`
}

// Enemy represents an enemy in the game. Only the payload matching Kind is
// meaningful.
type Enemy struct {
	ScreenObject
	Kind         EnemyKind `json:"kind"`
	Angle        float64   `json:"angle"` // degrees
	Hits         int       `json:"hits"`
	RequiredHits int       `json:"requiredHits"`
	FireCooldown int       `json:"-"`
	Struck       bool      `json:"struck"` // carries momentum from an impact
	ParentID     string    `json:"parentId,omitempty"`

	Patrol     PatrolState     `json:"patrol"`
	Aggressive AggressiveState `json:"aggressive"`
	Replay     ReplayState     `json:"replay"`
	Egg        EggState        `json:"egg"`
	Mother     MotherState     `json:"mother"`
	Lighthouse LighthouseState `json:"lighthouse"`
}

// RemainingHits is the number of hits left before destruction.
func (e *Enemy) RemainingHits() int {
	if r := e.RequiredHits - e.Hits; r > 0 {
		return r
	}
	return 0
}

func (e *Enemy) IsBoss() bool {
	return e.Kind == EnemyKindSplitBoss || e.Kind == EnemyKindMotherBoss
}

// ReplaysCommands reports whether the enemy is driven by the command
// recording. Bosses are oversized replay ships.
func (e *Enemy) ReplaysCommands() bool {
	switch e.Kind {
	case EnemyKindReplay, EnemyKindBaby, EnemyKindSplitBoss, EnemyKindMotherBoss:
		return true
	}
	return false
}

// DropsCrystal reports whether destroying the enemy can leave a power-up.
// Eggs and flocker swarms never do.
func (e *Enemy) DropsCrystal() bool {
	return e.Kind != EnemyKindEgg && e.Kind != EnemyKindFlocker
}

func (e *Enemy) Clone() *Enemy {
	clone := *e
	return &clone
}
