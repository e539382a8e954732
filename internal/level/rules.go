package level

import (
	"errors"
	"fmt"
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/maze"
)

var (
	// ErrInvalidLevel is returned for level numbers below 1.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrMalformedOverride is returned for override files that do not parse
	// or carry out-of-range values.
	ErrMalformedOverride = errors.New("malformed level override")
	// ErrSpawnPlacement means the maze has no room for the planned enemies.
	ErrSpawnPlacement = errors.New("spawn placement failed")
)

// Counts is the number of enemies of each spawned kind.
type Counts struct {
	Static      int `json:"static"`
	Patrol      int `json:"patrol"`
	Aggressive  int `json:"aggressive"`
	Replay      int `json:"replay"`
	Flighthouse int `json:"flighthouse"`
	SplitBoss   int `json:"splitBoss"`
	MotherBoss  int `json:"motherBoss"`
}

// Total is the number of regular enemies.
func (c Counts) Total() int {
	return c.Static + c.Patrol + c.Aggressive
}

// Scaling holds the level-dependent enemy strength.
type Scaling struct {
	SpeedFactor           float64 `json:"speedFactor"`
	Damage                int     `json:"damage"`
	FireIntervalMin       int     `json:"fireIntervalMin"`
	FireIntervalMax       int     `json:"fireIntervalMax"`
	FireRange             float64 `json:"fireRange"`
	FlighthouseSpawnTicks int     `json:"flighthouseSpawnTicks"`
}

// Plan is everything needed to build a level.
type Plan struct {
	Level      int             `json:"level"`
	Seed       int64           `json:"seed"`
	GridSize   int             `json:"gridSize"`
	Complexity maze.Complexity `json:"complexity"`
	Counts     Counts          `json:"counts"`
	Scaling    Scaling         `json:"scaling"`
}

// Rules computes level plans from a configuration.
type Rules struct {
	cfg *config.Config
}

func NewRules(cfg *config.Config) *Rules {
	return &Rules{cfg: cfg}
}

// SpawnPlan computes the plan with the default configuration.
func SpawnPlan(level int, overrides *Overrides) (Plan, error) {
	return NewRules(config.Default()).SpawnPlan(level, overrides)
}

// SpawnPlan returns the defaults for a level with overrides merged over
// them field by field.
func (r *Rules) SpawnPlan(level int, overrides *Overrides) (Plan, error) {
	if level < 1 {
		return Plan{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	plan := Plan{
		Level:      level,
		Seed:       int64(level),
		GridSize:   r.GridSize(level),
		Complexity: maze.ComplexityForLevel(level),
		Counts:     r.Counts(level),
		Scaling:    r.Scaling(level),
	}
	if overrides == nil {
		return plan, nil
	}
	if err := overrides.Validate(); err != nil {
		return Plan{}, err
	}
	overrides.apply(&plan)
	return plan, nil
}

// GridSize grows the maze with the level, clamped to the valid range.
func (r *Rules) GridSize(level int) int {
	size := r.cfg.Level.BaseMazeSize + (level-1)*r.cfg.Level.MazeSizeIncrement
	return min(max(size, config.MinMazeSize), config.MaxMazeSize)
}

// Counts splits the level's enemies between kinds.
func (r *Rules) Counts(level int) Counts {
	total := r.cfg.Level.BaseEnemyCount + (level-1)*r.cfg.Level.EnemyCountIncrement
	static := max(1, total/2)
	dynamic := total - static
	patrol := dynamic / 2

	c := Counts{
		Static:     static,
		Patrol:     patrol,
		Aggressive: dynamic - patrol,
		Replay:     min(1+(level-1)/2, 4),
	}
	if level >= 10 {
		c.Replay = 5
	}
	if level >= 6 {
		c.Flighthouse = 1
	}
	if level >= 12 {
		c.Flighthouse = 2
	}
	if level >= 11 {
		c.SplitBoss = 1
	}
	if level >= 15 {
		c.MotherBoss = 1
	}
	return c
}

// Scaling makes enemies faster, harder hitting and quicker to fire as the
// level rises.
func (r *Rules) Scaling(level int) Scaling {
	mult := 1 + float64(level-1)*0.1
	reduction := math.Min(0.4, float64(level-1)*0.05)

	fireMin := int(float64(r.cfg.Enemy.FireIntervalMin) * (1 - reduction))
	fireMax := int(float64(r.cfg.Enemy.FireIntervalMax) * (1 - reduction))
	fireMin = max(fireMin, 30)
	fireMax = max(fireMax, fireMin+60)

	return Scaling{
		SpeedFactor:           mult,
		Damage:                int(float64(r.cfg.Enemy.Damage) * mult),
		FireIntervalMin:       fireMin,
		FireIntervalMax:       fireMax,
		FireRange:             r.cfg.Enemy.FireRange * (1 + float64(level-1)*0.05),
		FlighthouseSpawnTicks: max(int(float64(r.cfg.Enemy.FlighthouseSpawnTicks)*(1-reduction)), 60),
	}
}
