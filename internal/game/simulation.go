package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/behavior"
	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/level"
	"github.com/besuhoff/dungeon-maze-go/internal/maze"
	"github.com/besuhoff/dungeon-maze-go/internal/physics"
	"github.com/besuhoff/dungeon-maze-go/internal/replay"
	"github.com/besuhoff/dungeon-maze-go/internal/spatial"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// ErrNoMaze is returned when a simulation is built without geometry.
var ErrNoMaze = errors.New("simulation needs a maze")

// idNamespace scopes entity ids so that equal seeds give equal ids.
var idNamespace = uuid.MustParse("1b4e28ba-2fa1-4d3b-9c1a-6e8f2b7d5c30")

// TickResult summarizes what happened during one tick.
type TickResult struct {
	Tick      uint64                 `json:"tick"`
	Status    types.LevelStatus      `json:"status"`
	Events    []types.CollisionEvent `json:"events,omitempty"`
	Destroyed []types.DestroySignal  `json:"destroyed,omitempty"`
	Spawned   int                    `json:"spawned"`
	Fired     int                    `json:"fired"`
	Damage    int                    `json:"damage"`
}

// Completed reports whether the ship left through the exit this tick.
func (r TickResult) Completed() bool {
	return r.Status == types.LevelCompleted
}

// Simulation runs one level: the ship, its enemies and their projectiles
// inside one maze. It is deterministic for a given plan, maze, recording
// and input sequence.
type Simulation struct {
	mu sync.RWMutex

	cfg      *config.Config
	plan     level.Plan
	maze     *maze.Maze
	index    *spatial.Grid
	resolver *physics.Resolver
	behavior *behavior.Engine
	recorder *replay.Recorder
	rng      *rand.Rand
	log      logrus.FieldLogger

	tick        uint64
	nextID      uint64
	status      types.LevelStatus
	ship        *types.Ship
	enemies     []*types.Enemy
	projectiles []*types.Projectile
	crystals    []*types.Crystal
	pending     []types.SpawnRequest
	last        TickResult
}

// NewSimulation builds the level described by plan over m. Commands from a
// previous recording seed the recorder replay enemies fly with; rec may be
// nil.
func NewSimulation(cfg *config.Config, plan level.Plan, m *maze.Maze, rec *replay.Recording, log logrus.FieldLogger) (*Simulation, error) {
	if m == nil {
		return nil, ErrNoMaze
	}

	var history []types.Command
	if rec != nil {
		history = rec.Commands
	}

	index := spatial.NewGrid(m.Bounds(), cfg.Level.SpatialCellSize)
	index.InsertWalls(m.Walls)

	rng := rand.New(rand.NewSource(plan.Seed))
	recorder := replay.NewRecorderFrom(cfg.Enemy.ReplayWindowSize, history)

	s := &Simulation{
		cfg:      cfg,
		plan:     plan,
		maze:     m,
		index:    index,
		resolver: physics.NewResolver(cfg, index, log),
		behavior: behavior.NewEngine(cfg, plan.Scaling, index, recorder, rng, log),
		recorder: recorder,
		rng:      rng,
		log:      log.WithField("level", plan.Level),
		status:   types.LevelRunning,
	}

	s.ship = &types.Ship{
		ScreenObject: types.ScreenObject{
			ID:       s.newID(),
			Position: m.StartPos,
			Radius:   cfg.Ship.Radius,
			Active:   true,
		},
		Angle:       startAngle(m),
		Fuel:        cfg.Ship.InitialFuel,
		Ammo:        cfg.Ship.InitialAmmo,
		Shielded:    cfg.Ship.ShieldInitialTicks > 0,
		ShieldTicks: cfg.Ship.ShieldInitialTicks,
	}

	placements, err := level.NewRules(cfg).Place(plan, m, rng)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", plan.Level, err)
	}
	for _, p := range placements {
		s.enemies = append(s.enemies, s.behavior.NewEnemy(s.newID(), p.Kind, p.Position))
	}
	s.index.RebuildEntities(s.collidables())

	s.log.WithFields(logrus.Fields{
		"seed":    plan.Seed,
		"size":    plan.GridSize,
		"enemies": len(s.enemies),
		"history": recorder.Len(),
	}).Info("Simulation created")

	return s, nil
}

// Load plans, generates and builds a level, reading per-level overrides
// from the configured levels directory.
func Load(cfg *config.Config, lvl int, rec *replay.Recording, log logrus.FieldLogger) (*Simulation, error) {
	overrides, err := level.LoadOverrides(cfg.Level.LevelsDir, lvl)
	if err != nil {
		return nil, err
	}
	plan, err := level.NewRules(cfg).SpawnPlan(lvl, overrides)
	if err != nil {
		return nil, err
	}
	m, err := maze.NewGenerator(cfg, log).Generate(plan.Seed, plan.GridSize, plan.Complexity)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", lvl, err)
	}
	return NewSimulation(cfg, plan, m, rec, log)
}

// startAngle points the ship at the exit.
func startAngle(m *maze.Maze) float64 {
	d := m.ExitPos.Sub(m.StartPos)
	switch {
	case d.X >= 0 && d.Y >= 0:
		return 45
	case d.X < 0 && d.Y >= 0:
		return 135
	case d.X < 0:
		return 225
	}
	return 315
}

func (s *Simulation) newID() string {
	s.nextID++
	name := strconv.FormatInt(s.plan.Seed, 10) + ":" + strconv.FormatUint(s.nextID, 10)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

func (s *Simulation) Plan() level.Plan { return s.plan }

func (s *Simulation) Maze() *maze.Maze { return s.maze }

// Status returns the level status after the last tick.
func (s *Simulation) Status() types.LevelStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Ticks returns the number of ticks run so far.
func (s *Simulation) Ticks() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Tick advances the level by one fixed step. Once the level is completed
// further ticks are no-ops.
func (s *Simulation) Tick(in types.Input) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == types.LevelCompleted {
		return TickResult{Tick: s.tick, Status: s.status}
	}

	s.tick++
	res := TickResult{Tick: s.tick}

	s.controlShip(in, &res)
	wallHits := s.movePhase(&res)
	s.collisionPhase(&res)
	s.behaviorPhase(wallHits, &res)
	s.exitGate()
	s.compact()

	res.Status = s.status
	s.last = res
	return res
}

// Recording returns the commands recorded so far, tagged with the level.
func (s *Simulation) Recording() replay.Recording {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return replay.Recording{Level: s.plan.Level, Seed: s.plan.Seed, Commands: s.recorder.Commands()}
}

// Snapshot copies the current state for consumers outside the tick loop.
func (s *Simulation) Snapshot() types.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := types.GameState{
		Level:       s.plan.Level,
		Tick:        s.tick,
		Status:      s.status,
		Ship:        s.ship.Clone(),
		Enemies:     make([]*types.Enemy, 0, len(s.enemies)),
		Projectiles: make([]*types.Projectile, 0, len(s.projectiles)),
		Crystals:    make([]*types.Crystal, 0, len(s.crystals)),
		Exit:        s.maze.ExitPos,
		ActiveEggs:  behavior.ActiveEggCount(s.enemies),
		Events:      append([]types.CollisionEvent(nil), s.last.Events...),
		Destroyed:   append([]types.DestroySignal(nil), s.last.Destroyed...),
	}
	for _, en := range s.enemies {
		state.Enemies = append(state.Enemies, en.Clone())
	}
	for _, p := range s.projectiles {
		state.Projectiles = append(state.Projectiles, p.Clone())
	}
	for _, c := range s.crystals {
		state.Crystals = append(state.Crystals, c.Clone())
	}
	return state
}

func (s *Simulation) collidables() []types.Collidable {
	items := make([]types.Collidable, 0, len(s.enemies)+1)
	items = append(items, s.ship)
	for _, en := range s.enemies {
		items = append(items, en)
	}
	return items
}
