package maze

import (
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// toWorld scales the grid into the world rectangle and emits the walls.
// Walls are the boundaries between solid and carved cells, merged into
// maximal runs: horizontal lines top to bottom first, then vertical lines
// left to right. Wall indices follow that order.
func (g *Generator) toWorld(m *Maze) {
	n := float64(m.Size)
	fill := g.cfg.Level.MazeFillRatio
	cs := math.Min(g.cfg.Level.WorldWidth*fill/n, g.cfg.Level.WorldHeight*fill/n)
	m.CellSize = cs
	m.Origin = types.Vector2{
		X: (g.cfg.Level.WorldWidth - n*cs) / 2,
		Y: (g.cfg.Level.WorldHeight - n*cs) / 2,
	}

	point := func(gx, gy int) types.Vector2 {
		return types.Vector2{X: m.Origin.X + float64(gx)*cs, Y: m.Origin.Y + float64(gy)*cs}
	}

	var walls []types.Wall
	emit := func(a, b types.Vector2) {
		walls = append(walls, types.Wall{Index: len(walls), Start: a, End: b})
	}

	for y := 0; y <= m.Size; y++ {
		runStart := -1
		for x := 0; x <= m.Size; x++ {
			edge := x < m.Size && m.IsWall(Cell{X: x, Y: y - 1}) != m.IsWall(Cell{X: x, Y: y})
			switch {
			case edge && runStart < 0:
				runStart = x
			case !edge && runStart >= 0:
				emit(point(runStart, y), point(x, y))
				runStart = -1
			}
		}
	}

	for x := 0; x <= m.Size; x++ {
		runStart := -1
		for y := 0; y <= m.Size; y++ {
			edge := y < m.Size && m.IsWall(Cell{X: x - 1, Y: y}) != m.IsWall(Cell{X: x, Y: y})
			switch {
			case edge && runStart < 0:
				runStart = y
			case !edge && runStart >= 0:
				emit(point(x, runStart), point(x, y))
				runStart = -1
			}
		}
	}

	m.Walls = walls
	m.StartPos = m.CellCenter(m.Start)
	m.ExitPos = m.CellCenter(m.Exit)
}
