package level

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/maze"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// Placement is one enemy's kind and starting point.
type Placement struct {
	Kind     types.EnemyKind `json:"kind"`
	Position types.Vector2   `json:"position"`
}

// Kinds expands the counts in spawn order.
func (c Counts) Kinds() []types.EnemyKind {
	var kinds []types.EnemyKind
	for _, group := range []struct {
		kind  types.EnemyKind
		count int
	}{
		{types.EnemyKindStatic, c.Static},
		{types.EnemyKindPatrol, c.Patrol},
		{types.EnemyKindAggressive, c.Aggressive},
		{types.EnemyKindReplay, c.Replay},
		{types.EnemyKindFlighthouse, c.Flighthouse},
		{types.EnemyKindSplitBoss, c.SplitBoss},
		{types.EnemyKindMotherBoss, c.MotherBoss},
	} {
		for i := 0; i < group.count; i++ {
			kinds = append(kinds, group.kind)
		}
	}
	return kinds
}

// Radius is the body radius an enemy of the given kind spawns with.
func (r *Rules) Radius(kind types.EnemyKind) float64 {
	ec := r.cfg.Enemy
	switch kind {
	case types.EnemyKindStatic:
		return ec.StaticRadius
	case types.EnemyKindPatrol, types.EnemyKindAggressive:
		return ec.DynamicRadius
	case types.EnemyKindBaby:
		return ec.BabyRadius
	case types.EnemyKindEgg:
		return ec.EggInitialRadius
	case types.EnemyKindSplitBoss:
		return ec.ReplayRadius * ec.SplitBossSizeFactor
	case types.EnemyKindMotherBoss:
		return ec.ReplayRadius * ec.MotherBossSizeFactor
	case types.EnemyKindFlocker:
		return ec.FlockerRadius
	case types.EnemyKindFlighthouse:
		return ec.FlighthouseRadius
	}
	return ec.ReplayRadius
}

// Place picks enemy positions from the maze's spawn candidates. Each spot
// keeps away from start and exit and from the spots placed before it, and
// leaves room for the enemy's body. When random draws find no spot roomy
// enough, the roomiest free one is used.
func (r *Rules) Place(plan Plan, m *maze.Maze, rng *rand.Rand) ([]Placement, error) {
	kinds := plan.Counts.Kinds()
	if len(kinds) == 0 {
		return nil, nil
	}
	if len(m.SpawnCandidates) == 0 {
		return nil, fmt.Errorf("%w: maze %s has no spawn candidates", ErrSpawnPlacement, m)
	}

	// small mazes cannot honor the full distance
	span := float64(m.Size) * m.CellSize
	s := &spotter{
		m:       m,
		keepOut: math.Min(r.cfg.Level.SpawnMinDistance, span/4),
		spacing: math.Min(r.cfg.Level.SpawnMinDistance/2, m.CellSize),
		used:    make(map[int]bool, len(kinds)),
		placed:  make([]Placement, 0, len(kinds)),
	}

	for _, kind := range kinds {
		radius := r.Radius(kind)
		i := -1
		for attempt := 0; attempt < r.cfg.Level.SpawnAttemptsPerItem; attempt++ {
			c := rng.Intn(len(m.SpawnCandidates))
			if s.free(c) && s.room(c) >= radius {
				i = c
				break
			}
		}
		if i < 0 {
			i = s.roomiest()
		}
		if i < 0 {
			return nil, fmt.Errorf("%w: placed %d of %d enemies in %s", ErrSpawnPlacement, len(s.placed), len(kinds), m)
		}
		s.used[i] = true
		s.placed = append(s.placed, Placement{Kind: kind, Position: m.SpawnCandidates[i]})
	}
	return s.placed, nil
}

// spotter tracks which spawn candidates are still open during placement.
type spotter struct {
	m       *maze.Maze
	keepOut float64
	spacing float64
	used    map[int]bool
	placed  []Placement
}

func (s *spotter) free(i int) bool {
	p := s.m.SpawnCandidates[i]
	if s.used[i] || p.Distance(s.m.StartPos) < s.keepOut || p.Distance(s.m.ExitPos) < s.keepOut {
		return false
	}
	return !tooClose(p, s.placed, s.spacing)
}

// room is the free radius around a candidate. Mazes without clearance data
// treat every candidate as open.
func (s *spotter) room(i int) float64 {
	if len(s.m.SpawnClearance) != len(s.m.SpawnCandidates) {
		return math.Inf(1)
	}
	return s.m.SpawnClearance[i]
}

// roomiest returns the free candidate with the most room, the lowest index
// on ties, or -1.
func (s *spotter) roomiest() int {
	best, bestRoom := -1, -1.0
	for i := range s.m.SpawnCandidates {
		if !s.free(i) {
			continue
		}
		if room := s.room(i); room > bestRoom {
			best, bestRoom = i, room
		}
	}
	return best
}

// Place uses the default configuration.
func Place(plan Plan, m *maze.Maze, rng *rand.Rand) ([]Placement, error) {
	return NewRules(config.Default()).Place(plan, m, rng)
}

func tooClose(p types.Vector2, placed []Placement, spacing float64) bool {
	for _, other := range placed {
		if p.Distance(other.Position) < spacing {
			return true
		}
	}
	return false
}
