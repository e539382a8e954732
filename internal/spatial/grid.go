package spatial

import (
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
	"github.com/besuhoff/dungeon-maze-go/internal/utils"
)

// Result holds the ids whose buckets overlap a query region. It is a
// superset of the true hits; callers re-check with exact geometry.
type Result struct {
	Walls    []int
	Entities []string
}

// Bucket is a copy of one cell's contents.
type Bucket struct {
	Walls    []int
	Entities []string
}

// Grid is a uniform bucket grid over the level. Walls are inserted once per
// level, entities are rebuilt every tick.
type Grid struct {
	bounds   types.AABB
	cellSize float64
	cols     int
	rows     int
	walls    [][]int
	entities [][]string
	wallSet  []types.Wall
}

// NewGrid creates a grid covering bounds with square cells of cellSize.
func NewGrid(bounds types.AABB, cellSize float64) *Grid {
	cols := int(math.Ceil(bounds.Width()/cellSize)) + 1
	rows := int(math.Ceil(bounds.Height()/cellSize)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		bounds:   bounds,
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		walls:    make([][]int, cols*rows),
		entities: make([][]string, cols*rows),
	}
}

func (g *Grid) cellOf(p types.Vector2) (int, int) {
	cx, cy := utils.CellXYFromPosition(p.X-g.bounds.Min.X, p.Y-g.bounds.Min.Y, g.cellSize)
	return clamp(cx, 0, g.cols-1), clamp(cy, 0, g.rows-1)
}

func (g *Grid) cellRect(cx, cy int) (float64, float64) {
	return g.bounds.Min.X + float64(cx)*g.cellSize, g.bounds.Min.Y + float64(cy)*g.cellSize
}

func (g *Grid) cellRange(box types.AABB) (x0, y0, x1, y1 int) {
	x0, y0 = g.cellOf(box.Min)
	x1, y1 = g.cellOf(box.Max)
	return
}

// InsertWalls buckets every segment into each cell it actually crosses.
func (g *Grid) InsertWalls(walls []types.Wall) {
	for i := range g.walls {
		g.walls[i] = g.walls[i][:0]
	}
	g.wallSet = walls
	for _, w := range walls {
		x0, y0, x1, y1 := g.cellRange(w.Bounds())
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				rx, ry := g.cellRect(cx, cy)
				// Edge cells extend to infinity once positions are clamped
				if !g.edgeCell(cx, cy) && !utils.CheckLineRectCollision(w.Start.X, w.Start.Y, w.End.X, w.End.Y, rx, ry, g.cellSize, g.cellSize) {
					continue
				}
				idx := cy*g.cols + cx
				g.walls[idx] = append(g.walls[idx], w.Index)
			}
		}
	}
}

func (g *Grid) edgeCell(cx, cy int) bool {
	return cx == 0 || cy == 0 || cx == g.cols-1 || cy == g.rows-1
}

// Wall returns the segment with the given index.
func (g *Grid) Wall(index int) types.Wall {
	return g.wallSet[index]
}

// RebuildEntities clears the entity buckets and re-inserts every active
// entity into the cells its circle reaches, in input order.
func (g *Grid) RebuildEntities(items []types.Collidable) {
	for i := range g.entities {
		g.entities[i] = g.entities[i][:0]
	}
	for _, item := range items {
		o := item.Object()
		if !o.Active {
			continue
		}
		x0, y0, x1, y1 := g.cellRange(types.BoxAround(o.Position, o.Radius))
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				rx, ry := g.cellRect(cx, cy)
				if !g.edgeCell(cx, cy) && !utils.CheckCircleRectCollision(o.Position.X, o.Position.Y, o.Radius, rx, ry, g.cellSize, g.cellSize) {
					continue
				}
				idx := cy*g.cols + cx
				g.entities[idx] = append(g.entities[idx], o.ID)
			}
		}
	}
}

// Query returns every wall and entity whose bucket overlaps box.
func (g *Grid) Query(box types.AABB) Result {
	x0, y0, x1, y1 := g.cellRange(box)
	walls := mapset.New[int]()
	entities := mapset.New[string]()
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			idx := cy*g.cols + cx
			for _, w := range g.walls[idx] {
				walls.Put(w)
			}
			for _, id := range g.entities[idx] {
				entities.Put(id)
			}
		}
	}
	return collect(walls, entities)
}

// QueryCircle is Query over the circle's bounding box.
func (g *Grid) QueryCircle(center types.Vector2, radius float64) Result {
	return g.Query(types.BoxAround(center, radius))
}

// QueryPath returns the walls in cells a circle of the given radius touches
// while travelling from start to end.
func (g *Grid) QueryPath(start, end types.Vector2, radius float64) []int {
	x0, y0, x1, y1 := g.cellRange(types.SweptBox(start, end, radius))
	walls := mapset.New[int]()
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			rx, ry := g.cellRect(cx, cy)
			if !g.edgeCell(cx, cy) && !utils.CheckLineRectCollision(start.X, start.Y, end.X, end.Y,
				rx-radius, ry-radius, g.cellSize+2*radius, g.cellSize+2*radius) {
				continue
			}
			for _, w := range g.walls[cy*g.cols+cx] {
				walls.Put(w)
			}
		}
	}
	return collect(walls, mapset.New[string]()).Walls
}

// LineOfSight reports whether no wall crosses the segment between a and b.
func (g *Grid) LineOfSight(a, b types.Vector2) bool {
	for _, idx := range g.QueryPath(a, b, 0) {
		w := g.wallSet[idx]
		if utils.SegmentsIntersect(a, b, w.Start, w.End) {
			return false
		}
	}
	return true
}

// Buckets copies the non-empty buckets keyed by cell coordinate.
func (g *Grid) Buckets() map[[2]int]Bucket {
	out := make(map[[2]int]Bucket)
	for cy := 0; cy < g.rows; cy++ {
		for cx := 0; cx < g.cols; cx++ {
			idx := cy*g.cols + cx
			if len(g.walls[idx]) == 0 && len(g.entities[idx]) == 0 {
				continue
			}
			out[[2]int{cx, cy}] = Bucket{
				Walls:    append([]int(nil), g.walls[idx]...),
				Entities: append([]string(nil), g.entities[idx]...),
			}
		}
	}
	return out
}

func collect(walls mapset.Set[int], entities mapset.Set[string]) Result {
	res := Result{
		Walls:    make([]int, 0, walls.Size()),
		Entities: make([]string, 0, entities.Size()),
	}
	walls.Each(func(w int) { res.Walls = append(res.Walls, w) })
	entities.Each(func(id string) { res.Entities = append(res.Entities, id) })
	sort.Ints(res.Walls)
	sort.Strings(res.Entities)
	return res
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
