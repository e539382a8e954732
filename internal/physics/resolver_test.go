package physics

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/logger"
	"github.com/besuhoff/dungeon-maze-go/internal/spatial"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

func vec(x, y float64) types.Vector2 {
	return types.Vector2{X: x, Y: y}
}

func wall(i int, a, b types.Vector2) types.Wall {
	return types.Wall{Index: i, Start: a, End: b}
}

func newResolver(t *testing.T, walls []types.Wall, log logrus.FieldLogger) *Resolver {
	t.Helper()
	index := spatial.NewGrid(types.AABB{Min: vec(-100, -100), Max: vec(100, 100)}, 50)
	index.InsertWalls(walls)
	return NewResolver(config.Default(), index, log)
}

func body(pos, vel types.Vector2, radius float64) *types.ScreenObject {
	return &types.ScreenObject{ID: "b", Position: pos, Velocity: vel, Radius: radius, Active: true}
}

func TestAdvanceStopsAtThinWall(t *testing.T) {
	r := newResolver(t, []types.Wall{wall(0, vec(10, -5), vec(10, 5))}, logger.Discard())
	o := body(vec(0, 0), vec(20, 0), 1)

	ev, hit := r.Advance(o, 0.8)
	require.True(t, hit)

	assert.Equal(t, "b", ev.EntityID)
	assert.Equal(t, types.CollisionWall, ev.Kind)
	assert.Equal(t, 0, ev.WallIndex)
	assert.InDelta(t, -1.0, ev.Normal.X, 1e-9)
	assert.InDelta(t, 10.0, ev.ImpactPoint.X, 1e-9)

	assert.Less(t, o.Position.X, 9.0)
	assert.InDelta(t, 9.0, o.Position.X, 0.01)
	assert.InDelta(t, -16.0, o.Velocity.X, 1e-9)
	assert.InDelta(t, 0.0, o.Velocity.Y, 1e-9)
}

func TestAdvanceWithoutContactMovesFullStep(t *testing.T) {
	r := newResolver(t, []types.Wall{wall(0, vec(10, -5), vec(10, 5))}, logger.Discard())
	o := body(vec(0, 20), vec(20, 0), 1)

	_, hit := r.Advance(o, 0.8)
	assert.False(t, hit)
	assert.Equal(t, vec(20, 20), o.Position)
	assert.Equal(t, vec(20, 0), o.Velocity)
}

func TestAdvancePicksEarliestWall(t *testing.T) {
	r := newResolver(t, []types.Wall{
		wall(0, vec(15, -5), vec(15, 5)),
		wall(1, vec(5, -5), vec(5, 5)),
	}, logger.Discard())
	o := body(vec(0, 0), vec(20, 0), 1)

	ev, hit := r.Advance(o, 1)
	require.True(t, hit)
	assert.Equal(t, 1, ev.WallIndex)
	assert.InDelta(t, 4.0, o.Position.X, 0.01)
}

func TestAdvanceBreaksTiesByLowestIndex(t *testing.T) {
	walls := []types.Wall{
		wall(0, vec(-50, 50), vec(-40, 50)),
		wall(1, vec(10, -5), vec(10, 5)),
		wall(2, vec(-50, -50), vec(-40, -50)),
		wall(3, vec(10, -5), vec(10, 5)),
	}
	for run := 0; run < 3; run++ {
		r := newResolver(t, walls, logger.Discard())
		o := body(vec(0, 0), vec(20, 0), 1)

		ev, hit := r.Advance(o, 0.8)
		require.True(t, hit)
		assert.Equal(t, 1, ev.WallIndex)
	}
}

func TestAdvanceElasticBounceKeepsSpeed(t *testing.T) {
	r := newResolver(t, []types.Wall{wall(0, vec(-20, 10), vec(20, 10))}, logger.Discard())
	o := body(vec(0, 0), vec(3, 12), 2)

	_, hit := r.Advance(o, 1)
	require.True(t, hit)
	assert.InDelta(t, 3.0, o.Velocity.X, 1e-9)
	assert.InDelta(t, -12.0, o.Velocity.Y, 1e-9)
}

func TestClamp(t *testing.T) {
	w := wall(0, vec(10, -5), vec(10, 5))
	tests := []struct {
		name  string
		x     float64
		moved bool
		wantX float64
	}{
		{name: "deep penetration", x: 10.2, moved: true, wantX: 11.001},
		{name: "within tolerance", x: 10.7, moved: false, wantX: 10.7},
		{name: "clear", x: 12, moved: false, wantX: 12},
		{name: "other side", x: 9.9, moved: true, wantX: 8.999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(t, []types.Wall{w}, logger.Discard())
			o := body(vec(tt.x, 0), vec(0, 0), 1)
			if got := r.Clamp(o); got != tt.moved {
				t.Errorf("Clamp() = %v, want %v", got, tt.moved)
			}
			assert.InDelta(t, tt.wantX, o.Position.X, 1e-9)
		})
	}
}

func TestDegradedSweepLogsAndFallsBack(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := newResolver(t, []types.Wall{wall(0, vec(10, -5), vec(10, 5))}, log)
	o := body(vec(9, 0), vec(1.5, 0), 1)

	ev, hit := r.resolveDegraded(o, vec(10.5, 0), 0, 0.8)
	require.True(t, hit)
	assert.Equal(t, 0, ev.WallIndex)
	assert.InDelta(t, 11.001, o.Position.X, 1e-9)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "degraded_precision", entry.Data["event"])
	assert.Equal(t, "b", entry.Data["entity_id"])
}

func TestDegradedSweepWithoutContactKeepsEndPosition(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := newResolver(t, []types.Wall{wall(0, vec(10, -5), vec(10, 5))}, log)
	o := body(vec(7, 0), vec(2, 0), 1)

	// ends exactly one radius short of the wall
	_, hit := r.resolveDegraded(o, vec(9, 0), 0, 0.8)
	assert.False(t, hit)
	assert.Equal(t, vec(9, 0), o.Position)
	assert.Equal(t, vec(2, 0), o.Velocity)
	assert.Len(t, hook.AllEntries(), 1)
}

func TestCollide(t *testing.T) {
	a := &types.ScreenObject{ID: "a", Position: vec(0, 0), Radius: 5, Active: true}
	tests := []struct {
		name string
		b    types.ScreenObject
		want bool
	}{
		{name: "overlapping", b: types.ScreenObject{Position: vec(6, 0), Radius: 2, Active: true}, want: true},
		{name: "touching", b: types.ScreenObject{Position: vec(7, 0), Radius: 2, Active: true}, want: false},
		{name: "apart", b: types.ScreenObject{Position: vec(20, 0), Radius: 2, Active: true}, want: false},
		{name: "inactive", b: types.ScreenObject{Position: vec(1, 0), Radius: 2}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collide(a, &tt.b); got != tt.want {
				t.Errorf("Collide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContact(t *testing.T) {
	a := &types.ScreenObject{ID: "ship", Position: vec(10, 0), Radius: 6}
	b := &types.ScreenObject{ID: "enemy", Position: vec(0, 0), Radius: 5}

	ev := Contact(a, b)
	assert.Equal(t, types.CollisionEnemy, ev.Kind)
	assert.Equal(t, "ship", ev.EntityID)
	assert.Equal(t, "enemy", ev.OtherID)
	assert.Equal(t, vec(1, 0), ev.Normal)
	assert.Equal(t, vec(5, 0), ev.ImpactPoint)
}

func TestApplyImpulse(t *testing.T) {
	o := &types.ScreenObject{Velocity: vec(1, 0)}
	ApplyImpulse(o, vec(10, 20), 0.3)
	assert.InDelta(t, 4.0, o.Velocity.X, 1e-9)
	assert.InDelta(t, 6.0, o.Velocity.Y, 1e-9)
}
