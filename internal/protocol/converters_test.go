package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/besuhoff/dungeon-maze-go/internal/maze"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

func sampleState() types.GameState {
	return types.GameState{
		Level:  3,
		Tick:   42,
		Status: types.LevelExitLocked,
		Ship: &types.Ship{
			ScreenObject: types.ScreenObject{ID: "ship", Position: types.Vector2{X: 10, Y: 20}, Radius: 6, Active: true},
			Angle:        90,
			Fuel:         900,
			Ammo:         12,
			Shielded:     true,
			ShieldTicks:  30,
			GunLevel:     2,
		},
		Enemies: []*types.Enemy{
			{ScreenObject: types.ScreenObject{ID: "egg", Radius: 8}, Kind: types.EnemyKindEgg, ParentID: "mother", Egg: types.EggState{Progress: 0.5}},
			{ScreenObject: types.ScreenObject{ID: "hunter", Radius: 12}, Kind: types.EnemyKindAggressive, Aggressive: types.AggressiveState{Alert: true}},
			{ScreenObject: types.ScreenObject{ID: "tower", Radius: 16}, Kind: types.EnemyKindFlighthouse, Lighthouse: types.LighthouseState{Tracking: true}},
		},
		Crystals: []*types.Crystal{
			{ScreenObject: types.ScreenObject{ID: "c1", Position: types.Vector2{X: 7, Y: 8}, Radius: 8, Active: true}, SourceID: "gone"},
		},
		Projectiles: []*types.Projectile{
			{ScreenObject: types.ScreenObject{ID: "p1", Velocity: types.Vector2{X: 10}}, OwnerID: "hunter", IsEnemy: true},
		},
		Exit:       types.Vector2{X: 500, Y: 400},
		ActiveEggs: 1,
		Events: []types.CollisionEvent{
			{EntityID: "ship", Kind: types.CollisionWall, WallIndex: 7, Normal: types.Vector2{X: -1}},
		},
		Destroyed: []types.DestroySignal{{EntityID: "baby", Kind: types.EnemyKindBaby}},
	}
}

func TestToProtoSnapshot(t *testing.T) {
	msg, err := ToProtoSnapshot(sampleState())
	require.NoError(t, err)

	f := msg.GetFields()
	assert.Equal(t, MessageSnapshot, f["type"].GetStringValue())
	assert.Equal(t, 42.0, f["tick"].GetNumberValue())
	assert.Equal(t, "exit_locked", f["status"].GetStringValue())
	assert.Equal(t, 1.0, f["activeEggs"].GetNumberValue())

	ship := f["ship"].GetStructValue().GetFields()
	assert.Equal(t, 900.0, ship["fuel"].GetNumberValue())
	assert.Equal(t, 20.0, ship["position"].GetStructValue().GetFields()["y"].GetNumberValue())
	assert.True(t, ship["shielded"].GetBoolValue())
	assert.Equal(t, 30.0, ship["shieldTicks"].GetNumberValue())
	assert.Equal(t, 2.0, ship["gunLevel"].GetNumberValue())

	enemies := f["enemies"].GetListValue().GetValues()
	require.Len(t, enemies, 3)
	egg := enemies[0].GetStructValue().GetFields()
	assert.Equal(t, "egg", egg["kind"].GetStringValue())
	assert.Equal(t, "mother", egg["parentId"].GetStringValue())
	assert.Equal(t, 0.5, egg["progress"].GetNumberValue())
	assert.NotContains(t, egg, "alert")
	assert.False(t, egg["replay"].GetBoolValue())
	assert.Equal(t, 0.0, egg["remainingHits"].GetNumberValue())
	hunter := enemies[1].GetStructValue().GetFields()
	assert.True(t, hunter["alert"].GetBoolValue())
	assert.NotContains(t, hunter, "parentId")
	tower := enemies[2].GetStructValue().GetFields()
	assert.Equal(t, "flighthouse", tower["kind"].GetStringValue())
	assert.True(t, tower["tracking"].GetBoolValue())

	crystals := f["crystals"].GetListValue().GetValues()
	require.Len(t, crystals, 1)
	crystal := crystals[0].GetStructValue().GetFields()
	assert.Equal(t, "c1", crystal["id"].GetStringValue())
	assert.Equal(t, 8.0, crystal["position"].GetStructValue().GetFields()["y"].GetNumberValue())

	events := f["events"].GetListValue().GetValues()
	require.Len(t, events, 1)
	assert.Equal(t, 7.0, events[0].GetStructValue().GetFields()["wallIndex"].GetNumberValue())
}

func TestSnapshotEncodings(t *testing.T) {
	msg, err := ToProtoSnapshot(sampleState())
	require.NoError(t, err)

	bin, err := MarshalBinary(msg)
	require.NoError(t, err)
	fromBin := &structpb.Struct{}
	require.NoError(t, proto.Unmarshal(bin, fromBin))
	assert.True(t, proto.Equal(msg, fromBin))

	js, err := MarshalJSON(msg)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"snapshot"`)
	fromJSON := &structpb.Struct{}
	require.NoError(t, protojson.Unmarshal(js, fromJSON))
	assert.True(t, proto.Equal(msg, fromJSON))
}

func TestToProtoLevel(t *testing.T) {
	m, err := maze.Generate(9, 7, maze.ComplexityEmpty)
	require.NoError(t, err)

	msg, err := ToProtoLevel(1, m)
	require.NoError(t, err)
	f := msg.GetFields()
	assert.Equal(t, MessageLevel, f["type"].GetStringValue())
	assert.Equal(t, m.Fingerprint().String(), f["fingerprint"].GetStringValue())

	walls := f["walls"].GetListValue().GetValues()
	require.Len(t, walls, len(m.Walls))
	first := walls[0].GetListValue().GetValues()
	require.Len(t, first, 4)
	assert.Equal(t, m.Walls[0].End.X, first[2].GetNumberValue())
}

func TestUnmarshalInput(t *testing.T) {
	msg, err := structpb.NewStruct(map[string]any{"rotateRight": true})
	require.NoError(t, err)
	bin, err := proto.Marshal(msg)
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		binary  bool
		want    types.Input
		wantErr bool
	}{
		{name: "json", data: []byte(`{"thrust":true,"fire":true}`), want: types.Input{Thrust: true, Fire: true}},
		{name: "json unknown fields ignored", data: []byte(`{"rotateLeft":true,"jump":1}`), want: types.Input{RotateLeft: true}},
		{name: "binary", data: bin, binary: true, want: types.Input{RotateRight: true}},
		{name: "shield", data: []byte(`{"shield":true}`), want: types.Input{Shield: true}},
		{name: "not json", data: []byte(`thrust`), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalInput(tt.data, tt.binary)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromProtoInputNil(t *testing.T) {
	assert.Equal(t, types.Input{}, FromProtoInput(nil))
}
