package types

// Command is one recorded player action.
type Command uint8

const (
	CmdNoAction Command = iota
	CmdRotateLeft
	CmdRotateRight
	CmdThrust
	CmdFire
)

var commandNames = map[Command]string{
	CmdNoAction:    "no_action",
	CmdRotateLeft:  "rotate_left",
	CmdRotateRight: "rotate_right",
	CmdThrust:      "thrust",
	CmdFire:        "fire",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Input is the player's control state for one tick
type Input struct {
	RotateLeft  bool `json:"rotateLeft"`
	RotateRight bool `json:"rotateRight"`
	Thrust      bool `json:"thrust"`
	Fire        bool `json:"fire"`
	Shield      bool `json:"shield"` // held, never recorded
}

// Moves reports whether the input steers or fires the ship.
func (in Input) Moves() bool {
	return in.RotateLeft || in.RotateRight || in.Thrust || in.Fire
}

// Commands lists the movement commands in execution order. Fire is recorded
// separately, only when a shot actually leaves the gun.
func (in Input) Commands() []Command {
	var cmds []Command
	if in.RotateLeft {
		cmds = append(cmds, CmdRotateLeft)
	}
	if in.RotateRight {
		cmds = append(cmds, CmdRotateRight)
	}
	if in.Thrust {
		cmds = append(cmds, CmdThrust)
	}
	return cmds
}

// CollisionKind tells what an entity hit.
type CollisionKind string

const (
	CollisionWall    CollisionKind = "wall"
	CollisionEnemy   CollisionKind = "enemy"
	CollisionCrystal CollisionKind = "crystal"
)

// CollisionEvent is emitted for every resolved collision
type CollisionEvent struct {
	EntityID    string        `json:"entityId"`
	Kind        CollisionKind `json:"kind"`
	ImpactPoint Vector2       `json:"impactPoint"`
	Normal      Vector2       `json:"normal"`
	OtherID     string        `json:"otherId,omitempty"`
	WallIndex   int           `json:"wallIndex"`
}

// SpawnRequest asks the owner of the entity list to add a new enemy.
type SpawnRequest struct {
	Kind     EnemyKind `json:"kind"`
	Position Vector2   `json:"position"`
	Velocity Vector2   `json:"velocity"`
	Angle    float64   `json:"angle"`
	ParentID string    `json:"parentId"`
}

// DestroySignal tells effects collaborators that an entity went away.
type DestroySignal struct {
	EntityID string    `json:"entityId"`
	Kind     EnemyKind `json:"kind"`
	Position Vector2   `json:"position"`
	Hatched  bool      `json:"hatched,omitempty"`
}
