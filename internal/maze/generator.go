package maze

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/logger"
)

// Generator builds mazes for one configuration.
type Generator struct {
	cfg *config.Config
	log logrus.FieldLogger
}

// NewGenerator creates a generator bound to the world and spawn settings of
// cfg.
func NewGenerator(cfg *config.Config, log logrus.FieldLogger) *Generator {
	return &Generator{cfg: cfg, log: log}
}

// Generate builds a maze with the default configuration.
func Generate(seed int64, gridSize int, complexity Complexity) (*Maze, error) {
	return NewGenerator(config.Default(), logger.Discard()).Generate(seed, gridSize, complexity)
}

// Generate carves a gridSize x gridSize maze. The same inputs always give
// the same walls, in the same order.
func (g *Generator) Generate(seed int64, gridSize int, complexity Complexity) (*Maze, error) {
	if gridSize < config.MinMazeSize || gridSize > config.MaxMazeSize {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidGridSize, gridSize, config.MinMazeSize, config.MaxMazeSize)
	}
	preset, err := PresetFor(complexity)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	grid := newGrid(gridSize)

	if complexity == ComplexityEmpty {
		for y := 1; y < gridSize-1; y++ {
			for x := 1; x < gridSize-1; x++ {
				grid[y][x] = false
			}
		}
	} else {
		carve(grid, rng, preset)
		g.addExtraPaths(grid, rng, preset, gridSize)
	}

	start, exit := pickCorners(gridSize, rng)
	clearCorner(grid, start, preset.CornerClearSize)
	clearCorner(grid, exit, preset.CornerClearSize)
	ensurePerimeter(grid)
	sealed := sealUnreachable(grid, start)

	if err := checkConnected(grid, start, exit); err != nil {
		return nil, fmt.Errorf("seed %d size %d complexity %s: %w", seed, gridSize, complexity, err)
	}

	m := &Maze{
		Seed:       seed,
		Size:       gridSize,
		Complexity: complexity,
		Start:      start,
		Exit:       exit,
		grid:       grid,
	}
	g.toWorld(m)
	m.SpawnCandidates, m.SpawnClearance = g.spawnCandidates(m)

	g.log.WithFields(logrus.Fields{
		"seed":       seed,
		"size":       gridSize,
		"complexity": complexity,
		"walls":      len(m.Walls),
		"sealed":     sealed,
		"candidates": len(m.SpawnCandidates),
	}).Debug("Maze generated")

	return m, nil
}

func newGrid(size int) [][]bool {
	grid := make([][]bool, size)
	for y := range grid {
		grid[y] = make([]bool, size)
		for x := range grid[y] {
			grid[y][x] = true
		}
	}
	return grid
}

func interior(size, v int) bool {
	return v >= 1 && v <= size-2
}

func open(grid [][]bool, x, y int) {
	size := len(grid)
	if interior(size, x) && interior(size, y) {
		grid[y][x] = false
	}
}

type frame struct {
	cell Cell
	dirs [4]Cell
	next int
}

// carve runs the recursive backtracker from (1,1) with an explicit stack.
// Each visited cell shuffles its four directions once, like a recursive
// call would.
func carve(grid [][]bool, rng *rand.Rand, p Preset) {
	size := len(grid)
	step := p.StepSize
	visited := make([][]bool, size)
	for y := range visited {
		visited[y] = make([]bool, size)
	}

	push := func(stack []frame, c Cell) []frame {
		visited[c.Y][c.X] = true
		open(grid, c.X, c.Y)
		f := frame{cell: c, dirs: [4]Cell{{0, -step}, {step, 0}, {0, step}, {-step, 0}}}
		rng.Shuffle(4, func(i, j int) { f.dirs[i], f.dirs[j] = f.dirs[j], f.dirs[i] })
		return append(stack, f)
	}

	stack := push(nil, Cell{X: 1, Y: 1})
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == 4 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := top.dirs[top.next]
		top.next++

		from := top.cell
		to := Cell{X: from.X + d.X, Y: from.Y + d.Y}
		if !interior(size, to.X) || !interior(size, to.Y) || visited[to.Y][to.X] {
			continue
		}

		ux, uy := sign(d.X), sign(d.Y)
		for i := 0; i <= step; i++ {
			cx, cy := from.X+ux*i, from.Y+uy*i
			open(grid, cx, cy)
			clearPassage(grid, cx, cy, p.PassageWidth)
		}
		stack = push(stack, to)
	}
}

func clearPassage(grid [][]bool, x, y, width int) {
	for dy := -width; dy <= width; dy++ {
		for dx := -width; dx <= width; dx++ {
			open(grid, x+dx, y+dy)
		}
	}
}

// addExtraPaths punches random round clearings to create loops. The count
// scales with the level the grid size corresponds to.
func (g *Generator) addExtraPaths(grid [][]bool, rng *rand.Rand, p Preset, size int) {
	levelEq := 1
	if inc := g.cfg.Level.MazeSizeIncrement; inc > 0 && size > g.cfg.Level.BaseMazeSize {
		levelEq += (size - g.cfg.Level.BaseMazeSize) / inc
	}
	count := p.ExtraPathsMultiplier * levelEq
	r := p.ClearRadius

	for i := 0; i < count; i++ {
		cx := 1 + rng.Intn(size-2)
		cy := 1 + rng.Intn(size-2)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				dist := math.Sqrt(float64(dx*dx + dy*dy))
				if dist > float64(r) {
					continue
				}
				if rng.Float64() < 1-0.2*dist {
					open(grid, cx+dx, cy+dy)
				}
			}
		}
	}
}

// pickCorners chooses start and exit as an opposite pair of interior
// corners.
func pickCorners(size int, rng *rand.Rand) (Cell, Cell) {
	lo, hi := 1, size-2
	pairs := [4][2]Cell{
		{{lo, lo}, {hi, hi}},
		{{hi, hi}, {lo, lo}},
		{{hi, lo}, {lo, hi}},
		{{lo, hi}, {hi, lo}},
	}
	pair := pairs[rng.Intn(len(pairs))]
	return pair[0], pair[1]
}

// clearCorner opens a k x k square growing from the corner into the grid.
func clearCorner(grid [][]bool, corner Cell, k int) {
	size := len(grid)
	dx, dy := 1, 1
	if corner.X > size/2 {
		dx = -1
	}
	if corner.Y > size/2 {
		dy = -1
	}
	open(grid, corner.X, corner.Y)
	for j := 0; j < k; j++ {
		for i := 0; i < k; i++ {
			open(grid, corner.X+dx*i, corner.Y+dy*j)
		}
	}
}

func ensurePerimeter(grid [][]bool) {
	size := len(grid)
	for i := 0; i < size; i++ {
		grid[0][i] = true
		grid[size-1][i] = true
		grid[i][0] = true
		grid[i][size-1] = true
	}
}

// sealUnreachable fills carved pockets cut off from start and returns how
// many cells it filled.
func sealUnreachable(grid [][]bool, start Cell) int {
	reach := floodFill(grid, start)
	sealed := 0
	for y, row := range grid {
		for x, wall := range row {
			if !wall && !reach[Cell{X: x, Y: y}] {
				grid[y][x] = true
				sealed++
			}
		}
	}
	return sealed
}

func checkConnected(grid [][]bool, start, exit Cell) error {
	reach := floodFill(grid, start)
	if !reach[exit] {
		return fmt.Errorf("%w: exit %v unreachable from start %v", ErrDisconnected, exit, start)
	}
	for y, row := range grid {
		for x, wall := range row {
			if !wall && !reach[Cell{X: x, Y: y}] {
				return fmt.Errorf("%w: cell (%d,%d) unreachable", ErrDisconnected, x, y)
			}
		}
	}
	return nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
