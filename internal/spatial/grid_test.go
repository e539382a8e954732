package spatial

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
	"github.com/besuhoff/dungeon-maze-go/internal/utils"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func world() types.AABB {
	return types.AABB{Max: types.Vector2{X: 1200, Y: 800}}
}

func randomWalls(rng *rand.Rand, n int) []types.Wall {
	walls := make([]types.Wall, n)
	for i := range walls {
		start := types.Vector2{X: rng.Float64() * 1200, Y: rng.Float64() * 800}
		end := start.Add(types.Vector2{X: rng.Float64()*300 - 150, Y: rng.Float64()*300 - 150})
		walls[i] = types.Wall{Index: i, Start: start, End: end}
	}
	return walls
}

type body struct{ types.ScreenObject }

func randomBodies(rng *rand.Rand, n int) []types.Collidable {
	items := make([]types.Collidable, n)
	for i := range items {
		items[i] = &body{types.ScreenObject{
			ID:       fmt.Sprintf("e%03d", i),
			Position: types.Vector2{X: rng.Float64() * 1200, Y: rng.Float64() * 800},
			Radius:   5 + rng.Float64()*20,
			Active:   true,
		}}
	}
	return items
}

func TestQueryIsConservative(t *testing.T) {
	rng := testRNG()
	walls := randomWalls(rng, 200)
	items := randomBodies(rng, 100)

	g := NewGrid(world(), 150)
	g.InsertWalls(walls)
	g.RebuildEntities(items)

	for q := 0; q < 200; q++ {
		center := types.Vector2{X: rng.Float64() * 1200, Y: rng.Float64() * 800}
		radius := rng.Float64() * 60
		box := types.BoxAround(center, radius)
		res := g.Query(box)

		for _, w := range walls {
			if utils.CheckLineRectCollision(w.Start.X, w.Start.Y, w.End.X, w.End.Y, box.Min.X, box.Min.Y, box.Width(), box.Height()) {
				assert.Contains(t, res.Walls, w.Index, "wall %d touches query box %v", w.Index, box)
			}
		}
		for _, item := range items {
			o := item.Object()
			if utils.CheckCircleRectCollision(o.Position.X, o.Position.Y, o.Radius, box.Min.X, box.Min.Y, box.Width(), box.Height()) {
				assert.Contains(t, res.Entities, o.ID)
			}
		}
	}
}

func TestEntitiesSkipCellsOnlyTheirBoxReaches(t *testing.T) {
	g := NewGrid(world(), 100)
	g.RebuildEntities([]types.Collidable{&body{types.ScreenObject{
		ID:       "e",
		Position: types.Vector2{X: 190, Y: 190},
		Radius:   12,
		Active:   true,
	}}})

	// the bounding box pokes into cell (2,2) but the circle stops short of its corner
	corner := g.Query(types.AABB{Min: types.Vector2{X: 250, Y: 250}, Max: types.Vector2{X: 260, Y: 260}})
	assert.Empty(t, corner.Entities)

	side := g.Query(types.AABB{Min: types.Vector2{X: 250, Y: 150}, Max: types.Vector2{X: 260, Y: 160}})
	assert.Equal(t, []string{"e"}, side.Entities)
}

func TestQueryResultsAreSortedAndUnique(t *testing.T) {
	g := NewGrid(world(), 100)
	g.InsertWalls([]types.Wall{
		{Index: 0, Start: types.Vector2{X: 0, Y: 50}, End: types.Vector2{X: 1200, Y: 50}},
		{Index: 1, Start: types.Vector2{X: 50, Y: 0}, End: types.Vector2{X: 50, Y: 800}},
	})

	res := g.Query(types.AABB{Max: types.Vector2{X: 1200, Y: 800}})
	assert.Equal(t, []int{0, 1}, res.Walls)
}

func TestRebuildIsIdempotent(t *testing.T) {
	rng := testRNG()
	items := randomBodies(rng, 50)

	g := NewGrid(world(), 150)
	g.InsertWalls(randomWalls(rng, 40))
	g.RebuildEntities(items)
	first := g.Buckets()

	g.RebuildEntities(items)
	second := g.Buckets()

	require.Equal(t, first, second)
}

func TestRebuildSkipsInactive(t *testing.T) {
	g := NewGrid(world(), 150)
	gone := &body{types.ScreenObject{ID: "gone", Position: types.Vector2{X: 10, Y: 10}, Radius: 5}}
	here := &body{types.ScreenObject{ID: "here", Position: types.Vector2{X: 10, Y: 10}, Radius: 5, Active: true}}
	g.RebuildEntities([]types.Collidable{gone, here})

	res := g.QueryCircle(types.Vector2{X: 10, Y: 10}, 1)
	assert.Equal(t, []string{"here"}, res.Entities)
}

func TestOutOfBoundsQueriesClampToEdges(t *testing.T) {
	g := NewGrid(world(), 150)
	g.InsertWalls([]types.Wall{{Index: 0, Start: types.Vector2{X: 0, Y: 0}, End: types.Vector2{X: 0, Y: 100}}})

	res := g.QueryCircle(types.Vector2{X: -50, Y: 50}, 10)
	assert.Equal(t, []int{0}, res.Walls)
}

func TestLineOfSight(t *testing.T) {
	g := NewGrid(world(), 150)
	g.InsertWalls([]types.Wall{
		{Index: 0, Start: types.Vector2{X: 600, Y: 0}, End: types.Vector2{X: 600, Y: 400}},
	})

	tests := []struct {
		name string
		a, b types.Vector2
		want bool
	}{
		{name: "blocked", a: types.Vector2{X: 100, Y: 200}, b: types.Vector2{X: 1000, Y: 200}, want: false},
		{name: "under the wall", a: types.Vector2{X: 100, Y: 600}, b: types.Vector2{X: 1000, Y: 600}, want: true},
		{name: "same side", a: types.Vector2{X: 100, Y: 200}, b: types.Vector2{X: 500, Y: 300}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.LineOfSight(tt.a, tt.b); got != tt.want {
				t.Errorf("LineOfSight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryPathFindsCrossedWall(t *testing.T) {
	g := NewGrid(world(), 150)
	g.InsertWalls([]types.Wall{
		{Index: 0, Start: types.Vector2{X: 700, Y: 0}, End: types.Vector2{X: 700, Y: 800}},
		{Index: 1, Start: types.Vector2{X: 100, Y: 700}, End: types.Vector2{X: 200, Y: 700}},
	})

	walls := g.QueryPath(types.Vector2{X: 10, Y: 100}, types.Vector2{X: 1100, Y: 100}, 6)
	assert.Contains(t, walls, 0)
	assert.NotContains(t, walls, 1)
}
