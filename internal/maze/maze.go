package maze

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

var (
	// ErrInvalidGridSize is a configuration error: grid size outside [5,100].
	ErrInvalidGridSize = errors.New("grid size out of range")
	// ErrUnknownComplexity is a configuration error.
	ErrUnknownComplexity = errors.New("unknown maze complexity")
	// ErrDisconnected means generation produced an unreachable carved cell.
	// It is a bug in the generator, never a user error.
	ErrDisconnected = errors.New("maze is not fully connected")
)

// fingerprintNamespace scopes maze fingerprints.
var fingerprintNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8e-9c55-0d6c1c7a2f10")

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Maze is the immutable result of generation. It is safe to share between
// readers without synchronization.
type Maze struct {
	Seed       int64      `json:"seed"`
	Size       int        `json:"size"`
	Complexity Complexity `json:"complexity"`

	Walls           []types.Wall    `json:"walls"`
	Start           Cell            `json:"start"`
	Exit            Cell            `json:"exit"`
	StartPos        types.Vector2   `json:"startPos"`
	ExitPos         types.Vector2   `json:"exitPos"`
	SpawnCandidates []types.Vector2 `json:"spawnCandidates"`
	SpawnClearance  []float64       `json:"spawnClearance"` // free radius around each candidate
	CellSize        float64         `json:"cellSize"`
	Origin          types.Vector2   `json:"origin"`

	grid [][]bool // true = wall
}

// IsWall reports whether a cell is solid. Cells outside the grid are solid.
func (m *Maze) IsWall(c Cell) bool {
	if c.X < 0 || c.Y < 0 || c.X >= m.Size || c.Y >= m.Size {
		return true
	}
	return m.grid[c.Y][c.X]
}

// IsPath reports whether a cell is carved.
func (m *Maze) IsPath(c Cell) bool {
	return !m.IsWall(c)
}

// CellCenter returns the world position of a cell's center.
func (m *Maze) CellCenter(c Cell) types.Vector2 {
	return types.Vector2{
		X: m.Origin.X + (float64(c.X)+0.5)*m.CellSize,
		Y: m.Origin.Y + (float64(c.Y)+0.5)*m.CellSize,
	}
}

// CellAt returns the cell containing a world position.
func (m *Maze) CellAt(p types.Vector2) (Cell, bool) {
	x := int(math.Floor((p.X - m.Origin.X) / m.CellSize))
	y := int(math.Floor((p.Y - m.Origin.Y) / m.CellSize))
	if x < 0 || y < 0 || x >= m.Size || y >= m.Size {
		return Cell{}, false
	}
	return Cell{X: x, Y: y}, true
}

// Bounds is the world-space box covered by the grid.
func (m *Maze) Bounds() types.AABB {
	span := float64(m.Size) * m.CellSize
	return types.AABB{Min: m.Origin, Max: m.Origin.Add(types.Vector2{X: span, Y: span})}
}

// PathCells counts carved cells.
func (m *Maze) PathCells() int {
	n := 0
	for _, row := range m.grid {
		for _, wall := range row {
			if !wall {
				n++
			}
		}
	}
	return n
}

// Reachable returns the carved cells reachable from start by a 4-connected
// flood fill.
func (m *Maze) Reachable() map[Cell]bool {
	return floodFill(m.grid, m.Start)
}

// Rows renders the grid as strings of '#' and '.', top row first.
func (m *Maze) Rows() []string {
	rows := make([]string, m.Size)
	for y, row := range m.grid {
		b := make([]byte, m.Size)
		for x, wall := range row {
			if wall {
				b[x] = '#'
			} else {
				b[x] = '.'
			}
		}
		rows[y] = string(b)
	}
	return rows
}

// Fingerprint is a stable identifier of the wall geometry.
func (m *Maze) Fingerprint() uuid.UUID {
	buf := make([]byte, 0, len(m.Walls)*32)
	for _, w := range m.Walls {
		for _, f := range []float64{w.Start.X, w.Start.Y, w.End.X, w.End.Y} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
	}
	return uuid.NewSHA1(fingerprintNamespace, buf)
}

func (m *Maze) String() string {
	return fmt.Sprintf("maze(seed=%d size=%d complexity=%s walls=%d)", m.Seed, m.Size, m.Complexity, len(m.Walls))
}

func floodFill(grid [][]bool, start Cell) map[Cell]bool {
	size := len(grid)
	seen := make(map[Cell]bool)
	if start.X < 0 || start.Y < 0 || start.X >= size || start.Y >= size || grid[start.Y][start.X] {
		return seen
	}
	queue := []Cell{start}
	seen[start] = true
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range [4]Cell{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			n := Cell{X: c.X + d.X, Y: c.Y + d.Y}
			if n.X < 0 || n.Y < 0 || n.X >= size || n.Y >= size {
				continue
			}
			if grid[n.Y][n.X] || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}
