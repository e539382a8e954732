package maze

import (
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/spatial"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
	"github.com/besuhoff/dungeon-maze-go/internal/utils"
)

// spawnCandidates lists carved cell centers, row by row, that keep at
// least the spawn clearance from every wall, along with the room around
// each: the distance to its nearest wall, capped at the largest enemy
// radius.
func (g *Generator) spawnCandidates(m *Maze) ([]types.Vector2, []float64) {
	index := spatial.NewGrid(m.Bounds(), g.cfg.Level.SpatialCellSize)
	index.InsertWalls(m.Walls)
	// large grids have corridors narrower than the configured clearance
	clearance := math.Min(g.cfg.Level.SpawnClearance, m.CellSize/2)
	limit := math.Max(g.cfg.Enemy.MaxRadius(), clearance)

	var out []types.Vector2
	var room []float64
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			c := Cell{X: x, Y: y}
			if m.IsWall(c) {
				continue
			}
			center := m.CellCenter(c)
			if free := nearestWall(index, center, limit); free >= clearance {
				out = append(out, center)
				room = append(room, free)
			}
		}
	}
	return out, room
}

// nearestWall returns the distance from p to the closest wall, or limit
// when no wall is that close.
func nearestWall(index *spatial.Grid, p types.Vector2, limit float64) float64 {
	best := limit
	for _, i := range index.QueryCircle(p, limit).Walls {
		w := index.Wall(i)
		best = math.Min(best, utils.DistanceToSegment(p, w.Start, w.End))
	}
	return best
}
