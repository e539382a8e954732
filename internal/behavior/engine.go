package behavior

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/level"
	"github.com/besuhoff/dungeon-maze-go/internal/physics"
	"github.com/besuhoff/dungeon-maze-go/internal/replay"
	"github.com/besuhoff/dungeon-maze-go/internal/spatial"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
	"github.com/besuhoff/dungeon-maze-go/internal/utils"
)

const (
	// stopSpeed is the speed below which a struck enemy comes to rest.
	stopSpeed = 0.01
	// spawnBackoff is the gap kept between a spawned body and the wall that
	// cut its offset short.
	spawnBackoff = 1.0
)

// View is the read-only world an enemy sees during its update.
type View struct {
	Player   types.Vector2
	Tick     uint64
	DT       float64
	WallHits map[string]types.CollisionEvent // this tick's wall contacts by entity id
	Enemies  []*types.Enemy
}

// Outcome is what an update or a hit asks the owner of the entity list to
// do.
type Outcome struct {
	Spawns    []types.SpawnRequest
	Destroyed *types.DestroySignal
	Fired     *types.Projectile
	Crystal   *types.Crystal // power-up left behind, without an id yet
	Events    []types.CollisionEvent
}

// HitResult reports the effect of a projectile on an enemy.
type HitResult struct {
	Consumed  bool
	Destroyed bool
	Outcome   Outcome
}

// Engine runs enemy behavior for one level
type Engine struct {
	cfg      *config.Config
	rules    *level.Rules
	scale    level.Scaling
	index    *spatial.Grid
	recorder *replay.Recorder
	rng      *rand.Rand
	log      logrus.FieldLogger
}

// NewEngine creates an engine. The rng is the level's seeded source and is
// the only randomness behaviors draw from.
func NewEngine(cfg *config.Config, scale level.Scaling, index *spatial.Grid, recorder *replay.Recorder, rng *rand.Rand, log logrus.FieldLogger) *Engine {
	return &Engine{
		cfg:      cfg,
		rules:    level.NewRules(cfg),
		scale:    scale,
		index:    index,
		recorder: recorder,
		rng:      rng,
		log:      log,
	}
}

// NewEnemy builds an enemy of the given kind with its kind defaults.
func (e *Engine) NewEnemy(id string, kind types.EnemyKind, pos types.Vector2) *types.Enemy {
	ec := e.cfg.Enemy
	en := &types.Enemy{
		ScreenObject: types.ScreenObject{ID: id, Position: pos, Radius: e.rules.Radius(kind), Active: true},
		Kind:         kind,
		RequiredHits: ec.RequiredHits,
		FireCooldown: e.fireInterval(),
	}

	switch kind {
	case types.EnemyKindPatrol:
		en.Angle = e.rng.Float64() * 360
		en.Patrol.Distance = ec.PatrolDistanceMin + e.rng.Float64()*(ec.PatrolDistanceMax-ec.PatrolDistanceMin)
	case types.EnemyKindEgg:
		en.RequiredHits = ec.RequiredHitsEgg
		en.Egg.GrowthRate = ec.EggGrowthRateMin + e.rng.Float64()*(ec.EggGrowthRateMax-ec.EggGrowthRateMin)
	case types.EnemyKindSplitBoss:
		en.RequiredHits = ec.RequiredHitsSplit
	case types.EnemyKindMotherBoss:
		en.RequiredHits = ec.RequiredHitsMother
	case types.EnemyKindFlocker:
		en.RequiredHits = ec.RequiredHitsFlocker
	case types.EnemyKindFlighthouse:
		en.RequiredHits = ec.RequiredHitsFlighthouse
		en.Angle = e.rng.Float64() * 360
	}
	return en
}

// FromRequest materializes a spawn request.
func (e *Engine) FromRequest(id string, req types.SpawnRequest) *types.Enemy {
	en := e.NewEnemy(id, req.Kind, req.Position)
	en.Velocity = req.Velocity
	en.Angle = req.Angle
	en.ParentID = req.ParentID
	return en
}

// Update advances one enemy's behavior by a tick. Physics has already moved
// it; the velocity set here is applied next tick.
func (e *Engine) Update(en *types.Enemy, view View) Outcome {
	if !en.Active {
		return Outcome{}
	}
	switch en.Kind {
	case types.EnemyKindStatic:
		return e.updateStatic(en, view)
	case types.EnemyKindPatrol:
		return e.updatePatrol(en, view)
	case types.EnemyKindAggressive:
		return e.updateAggressive(en, view)
	case types.EnemyKindReplay, types.EnemyKindBaby, types.EnemyKindSplitBoss:
		return e.updateReplay(en, view)
	case types.EnemyKindEgg:
		return e.updateEgg(en)
	case types.EnemyKindMotherBoss:
		return e.updateMother(en, view)
	case types.EnemyKindFlocker:
		return e.updateFlocker(en, view)
	case types.EnemyKindFlighthouse:
		return e.updateFlighthouse(en, view)
	}
	e.log.WithFields(logrus.Fields{"entity_id": en.ID, "kind": en.Kind}).Warn("Unknown enemy kind")
	return Outcome{}
}

// Hit applies a player projectile to an enemy.
func (e *Engine) Hit(en *types.Enemy, p *types.Projectile) HitResult {
	if !en.Active || !p.Active || p.IsEnemy {
		return HitResult{}
	}

	en.Hits++
	res := HitResult{Consumed: true}

	if en.Hits >= en.RequiredHits {
		en.Active = false
		res.Destroyed = true
		res.Outcome.Destroyed = &types.DestroySignal{EntityID: en.ID, Kind: en.Kind, Position: en.Position}
		if en.IsBoss() {
			res.Outcome.Spawns = e.split(en)
		}
		if en.DropsCrystal() && e.rng.Float64() < e.cfg.Enemy.CrystalDropChance {
			res.Outcome.Crystal = &types.Crystal{
				ScreenObject: types.ScreenObject{Position: en.Position, Radius: e.cfg.Enemy.CrystalRadius, Active: true},
				SourceID:     en.ID,
			}
		}
		e.log.WithFields(logrus.Fields{
			"entity_id": en.ID,
			"kind":      en.Kind,
			"spawns":    len(res.Outcome.Spawns),
			"crystal":   res.Outcome.Crystal != nil,
		}).Debug("Enemy destroyed")
		return res
	}

	if en.Kind == types.EnemyKindStatic || en.Kind == types.EnemyKindEgg {
		physics.ApplyImpulse(&en.ScreenObject, p.Velocity, e.cfg.Physics.EnemyImpactForce)
		en.Struck = true
	}
	return res
}

// ActiveEggCount counts eggs that have neither hatched nor been destroyed.
// The exit stays locked while it is non-zero.
func ActiveEggCount(enemies []*types.Enemy) int {
	n := 0
	for _, en := range enemies {
		if en.Active && en.Kind == types.EnemyKindEgg {
			n++
		}
	}
	return n
}

// childrenOf counts the active enemies of a kind spawned by parentID.
func childrenOf(parentID string, kind types.EnemyKind, enemies []*types.Enemy) int {
	n := 0
	for _, en := range enemies {
		if en.Active && en.Kind == kind && en.ParentID == parentID {
			n++
		}
	}
	return n
}

func (e *Engine) fireInterval() int {
	lo, hi := e.scale.FireIntervalMin, e.scale.FireIntervalMax
	if hi <= lo {
		return lo
	}
	return lo + e.rng.Intn(hi-lo+1)
}

func (e *Engine) projectile(en *types.Enemy, angle float64) *types.Projectile {
	pc := e.cfg.Physics
	return &types.Projectile{
		ScreenObject: types.ScreenObject{
			Position: en.Position,
			Velocity: types.FromAngle(angle, pc.ProjectileSpeed),
			Radius:   pc.ProjectileRadius,
			Active:   true,
		},
		OwnerID:   en.ID,
		IsEnemy:   true,
		TicksLeft: pc.ProjectileLifetime,
		Damage:    e.scale.Damage,
	}
}

// fireAtPlayer shoots straight at the player when the cooldown has run
// out and the player is in range with nothing in between.
func (e *Engine) fireAtPlayer(en *types.Enemy, view View) *types.Projectile {
	if en.FireCooldown > 0 {
		en.FireCooldown--
	}
	if en.FireCooldown > 0 {
		return nil
	}
	if en.Position.Distance(view.Player) > e.scale.FireRange {
		return nil
	}
	if !e.index.LineOfSight(en.Position, view.Player) {
		return nil
	}
	en.FireCooldown = e.fireInterval()
	return e.projectile(en, utils.AngleToPoint(en.Position, view.Player))
}

// spawnPoint moves a body of the given radius from its parent toward want
// and stops short of the first wall in the way, so spawns never start
// inside a wall or on the far side of one.
func (e *Engine) spawnPoint(from, want types.Vector2, radius float64) types.Vector2 {
	d := want.Sub(from)
	dist := d.Length()
	if dist == 0 {
		return from
	}
	t := 1.0
	for _, idx := range e.index.QueryPath(from, want, radius) {
		w := e.index.Wall(idx)
		if hit, ok := utils.CircleSegmentSwept(from, want, radius, w.Start, w.End); ok && hit.TOI < t {
			t = hit.TOI
		}
	}
	if t < 1 {
		t = math.Max(0, t-spawnBackoff/dist)
	}
	return from.Add(d.Scale(t))
}

// coast decays the momentum of a struck enemy.
func (e *Engine) coast(en *types.Enemy) {
	if !en.Struck {
		en.Velocity = types.Vector2{}
		return
	}
	en.Velocity = en.Velocity.Scale(e.cfg.Physics.EnemyFriction)
	if en.Velocity.Length() < stopSpeed {
		en.Velocity = types.Vector2{}
		en.Struck = false
	}
}
