package protocol

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/besuhoff/dungeon-maze-go/internal/maze"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// Message types sent to clients.
const (
	MessageLevel    = "level"
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

// ErrMalformedInput is returned for client frames that are not inputs.
var ErrMalformedInput = errors.New("malformed input message")

// ToProtoVector2 converts a vector to a {x, y} object
func ToProtoVector2(v types.Vector2) map[string]any {
	return map[string]any{"x": v.X, "y": v.Y}
}

// ToProtoShip converts the ship
func ToProtoShip(s *types.Ship) map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"id":          s.ID,
		"position":    ToProtoVector2(s.Position),
		"velocity":    ToProtoVector2(s.Velocity),
		"radius":      s.Radius,
		"angle":       s.Angle,
		"fuel":        s.Fuel,
		"ammo":        s.Ammo,
		"thrusting":   s.Thrusting,
		"shielded":    s.Shielded,
		"shieldTicks": s.ShieldTicks,
		"gunLevel":    s.GunLevel,
	}
}

// ToProtoEnemy converts an enemy, with the state of its kind only.
func ToProtoEnemy(e *types.Enemy) map[string]any {
	out := map[string]any{
		"id":            e.ID,
		"kind":          string(e.Kind),
		"position":      ToProtoVector2(e.Position),
		"velocity":      ToProtoVector2(e.Velocity),
		"radius":        e.Radius,
		"angle":         e.Angle,
		"hits":          e.Hits,
		"requiredHits":  e.RequiredHits,
		"remainingHits": e.RemainingHits(),
		"replay":        e.ReplaysCommands(),
	}
	if e.ParentID != "" {
		out["parentId"] = e.ParentID
	}
	switch e.Kind {
	case types.EnemyKindAggressive:
		out["alert"] = e.Aggressive.Alert
	case types.EnemyKindEgg:
		out["progress"] = e.Egg.Progress
	case types.EnemyKindFlighthouse:
		out["tracking"] = e.Lighthouse.Tracking
	}
	return out
}

// ToProtoCrystal converts a power-up crystal
func ToProtoCrystal(c *types.Crystal) map[string]any {
	return map[string]any{
		"id":       c.ID,
		"position": ToProtoVector2(c.Position),
		"radius":   c.Radius,
	}
}

// ToProtoProjectile converts a projectile
func ToProtoProjectile(p *types.Projectile) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"position": ToProtoVector2(p.Position),
		"velocity": ToProtoVector2(p.Velocity),
		"radius":   p.Radius,
		"ownerId":  p.OwnerID,
		"isEnemy":  p.IsEnemy,
	}
}

// ToProtoEvent converts a collision event
func ToProtoEvent(ev types.CollisionEvent) map[string]any {
	out := map[string]any{
		"entityId":    ev.EntityID,
		"kind":        string(ev.Kind),
		"impactPoint": ToProtoVector2(ev.ImpactPoint),
		"normal":      ToProtoVector2(ev.Normal),
	}
	if ev.Kind == types.CollisionWall {
		out["wallIndex"] = ev.WallIndex
	} else {
		out["otherId"] = ev.OtherID
	}
	return out
}

// ToProtoDestroy converts a destroy signal
func ToProtoDestroy(d types.DestroySignal) map[string]any {
	return map[string]any{
		"entityId": d.EntityID,
		"kind":     string(d.Kind),
		"position": ToProtoVector2(d.Position),
		"hatched":  d.Hatched,
	}
}

// ToProtoSnapshot converts a game state into the per-tick message.
func ToProtoSnapshot(state types.GameState) (*structpb.Struct, error) {
	enemies := make([]any, 0, len(state.Enemies))
	for _, e := range state.Enemies {
		enemies = append(enemies, ToProtoEnemy(e))
	}
	projectiles := make([]any, 0, len(state.Projectiles))
	for _, p := range state.Projectiles {
		projectiles = append(projectiles, ToProtoProjectile(p))
	}
	crystals := make([]any, 0, len(state.Crystals))
	for _, c := range state.Crystals {
		crystals = append(crystals, ToProtoCrystal(c))
	}
	events := make([]any, 0, len(state.Events))
	for _, ev := range state.Events {
		events = append(events, ToProtoEvent(ev))
	}
	destroyed := make([]any, 0, len(state.Destroyed))
	for _, d := range state.Destroyed {
		destroyed = append(destroyed, ToProtoDestroy(d))
	}

	msg, err := structpb.NewStruct(map[string]any{
		"type":        MessageSnapshot,
		"level":       state.Level,
		"tick":        state.Tick,
		"status":      string(state.Status),
		"ship":        ToProtoShip(state.Ship),
		"enemies":     enemies,
		"projectiles": projectiles,
		"crystals":    crystals,
		"exit":        ToProtoVector2(state.Exit),
		"activeEggs":  state.ActiveEggs,
		"events":      events,
		"destroyed":   destroyed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}
	return msg, nil
}

// ToProtoLevel describes the static geometry of a level, sent once when a
// client joins.
func ToProtoLevel(lvl int, m *maze.Maze) (*structpb.Struct, error) {
	walls := make([]any, 0, len(m.Walls))
	for _, w := range m.Walls {
		walls = append(walls, []any{w.Start.X, w.Start.Y, w.End.X, w.End.Y})
	}
	msg, err := structpb.NewStruct(map[string]any{
		"type":        MessageLevel,
		"level":       lvl,
		"seed":        m.Seed,
		"size":        m.Size,
		"complexity":  string(m.Complexity),
		"cellSize":    m.CellSize,
		"start":       ToProtoVector2(m.StartPos),
		"exit":        ToProtoVector2(m.ExitPos),
		"walls":       walls,
		"fingerprint": m.Fingerprint().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build level message: %w", err)
	}
	return msg, nil
}

// ToProtoError builds an error message for the client.
func ToProtoError(err error) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":    structpb.NewStringValue(MessageError),
		"message": structpb.NewStringValue(err.Error()),
	}}
}

// FromProtoInput reads the control flags of an input message. Missing
// flags are off.
func FromProtoInput(msg *structpb.Struct) types.Input {
	f := msg.GetFields()
	return types.Input{
		RotateLeft:  f["rotateLeft"].GetBoolValue(),
		RotateRight: f["rotateRight"].GetBoolValue(),
		Thrust:      f["thrust"].GetBoolValue(),
		Fire:        f["fire"].GetBoolValue(),
		Shield:      f["shield"].GetBoolValue(),
	}
}

// MarshalBinary encodes a message in protobuf wire format.
func MarshalBinary(msg *structpb.Struct) ([]byte, error) {
	return proto.Marshal(msg)
}

// MarshalJSON encodes a message as JSON.
func MarshalJSON(msg *structpb.Struct) ([]byte, error) {
	return protojson.Marshal(msg)
}

// UnmarshalInput decodes a client frame in either encoding.
func UnmarshalInput(data []byte, binary bool) (types.Input, error) {
	msg := &structpb.Struct{}
	var err error
	if binary {
		err = proto.Unmarshal(data, msg)
	} else {
		err = protojson.Unmarshal(data, msg)
	}
	if err != nil {
		return types.Input{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return FromProtoInput(msg), nil
}
