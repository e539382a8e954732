package behavior

import (
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/replay"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
	"github.com/besuhoff/dungeon-maze-go/internal/utils"
)

func (e *Engine) updateStatic(en *types.Enemy, view View) Outcome {
	e.coast(en)
	return Outcome{Fired: e.fireAtPlayer(en, view)}
}

func (e *Engine) updatePatrol(en *types.Enemy, view View) Outcome {
	speed := e.cfg.Enemy.PatrolSpeed * e.scale.SpeedFactor
	hit, hitWall := view.WallHits[en.ID]
	if hitWall || en.Patrol.Travelled >= en.Patrol.Distance {
		en.Angle = patrolTurn(en.Angle, hit.Normal, hitWall)
		en.Patrol.Reversed = !en.Patrol.Reversed
		en.Patrol.Travelled = 0
	}
	en.Velocity = types.FromAngle(en.Angle, speed)
	en.Patrol.Travelled += speed
	return Outcome{Fired: e.fireAtPlayer(en, view)}
}

// patrolTurn mirrors the heading across the wall normal, so a head-on
// contact turns back and a glancing one slides off. Without a usable
// normal the patrol simply turns around.
func patrolTurn(angle float64, normal types.Vector2, hitWall bool) float64 {
	dir := types.FromAngle(angle, 1)
	if !hitWall || dir.Dot(normal) >= 0 {
		return utils.NormalizeAngle(angle + 180)
	}
	out := utils.ReflectVelocity(dir, normal, 1)
	return utils.AngleToPoint(types.Vector2{}, out)
}

func (e *Engine) updateAggressive(en *types.Enemy, view View) Outcome {
	ec := e.cfg.Enemy
	sees := en.Position.Distance(view.Player) <= ec.AggressiveAlertRange &&
		e.index.LineOfSight(en.Position, view.Player)
	if sees {
		en.Aggressive.Alert = true
		en.Aggressive.LastKnown = view.Player
	}

	if en.Aggressive.Alert {
		target := en.Aggressive.LastKnown
		// lost the player and reached where it was last seen
		if !sees && en.Position.Distance(target) <= en.Radius {
			en.Aggressive.Alert = false
			en.Velocity = types.Vector2{}
		} else {
			en.Angle = utils.RotateTowards(en.Angle, utils.AngleToPoint(en.Position, target), ec.AggressiveTurnRate)
			en.Velocity = types.FromAngle(en.Angle, ec.AggressiveSpeed*e.scale.SpeedFactor)
		}
	} else {
		en.Velocity = types.Vector2{}
	}

	return Outcome{Fired: e.fireAtPlayer(en, view)}
}

// thruster returns the ship controls a replaying or flocking enemy flies
// with.
func (e *Engine) thruster(en *types.Enemy) types.Thruster {
	sc := e.cfg.Ship
	t := types.Thruster{
		RotationSpeed: sc.RotationSpeed,
		ThrustForce:   sc.ThrustForce,
		Friction:      sc.Friction,
		MaxSpeed:      sc.MaxSpeed * e.cfg.Enemy.ReplayMaxSpeedFactor,
	}
	switch en.Kind {
	case types.EnemyKindBaby:
		t.MaxSpeed = sc.MaxSpeed / 2
	case types.EnemyKindFlocker:
		t.MaxSpeed = sc.MaxSpeed * e.cfg.Enemy.FlockerSpeedFactor
	}
	return t
}

// updateReplay executes one recorded player command.
func (e *Engine) updateReplay(en *types.Enemy, view View) Outcome {
	var out Outcome
	thr := e.thruster(en)

	if en.FireCooldown > 0 {
		en.FireCooldown--
	}

	// not enough history yet: drift
	if e.recorder.Len() < e.cfg.Enemy.ReplayMinCommands {
		thr.Drag(&en.ScreenObject)
		return out
	}

	policy := e.cfg.Enemy.ReplayExhausted
	cursor := replay.Resume(en.Replay, policy)
	cmd, ok := cursor.Next(e.recorder)
	en.Replay = cursor.State()

	if !ok && cursor.Exhausted && policy == config.ReplayDespawn {
		en.Active = false
		en.Velocity = types.Vector2{}
		out.Destroyed = &types.DestroySignal{EntityID: en.ID, Kind: en.Kind, Position: en.Position}
		return out
	}

	fireCmd := false
	if ok {
		switch cmd {
		case types.CmdNoAction:
			en.Angle = utils.RotateTowards(en.Angle, utils.AngleToPoint(en.Position, view.Player), thr.RotationSpeed)
		case types.CmdRotateLeft:
			en.Angle = thr.Rotate(en.Angle, -1)
		case types.CmdRotateRight:
			en.Angle = thr.Rotate(en.Angle, 1)
		case types.CmdThrust:
			thr.Thrust(&en.ScreenObject, en.Angle)
		case types.CmdFire:
			fireCmd = true
		}
	}

	out.Fired = e.replayFire(en, view, thr, fireCmd)
	thr.Drag(&en.ScreenObject)
	return out
}

// replayFire lunges and shoots when the ship points at the player, or
// shoots along its heading on a recorded fire command.
func (e *Engine) replayFire(en *types.Enemy, view View, thr types.Thruster, fireCmd bool) *types.Projectile {
	aimed := false
	if en.Position.Distance(view.Player) <= e.scale.FireRange {
		diff := utils.AngleDiff(en.Angle, utils.AngleToPoint(en.Position, view.Player))
		if math.Abs(diff) <= e.cfg.Enemy.ReplayFireAngle {
			thr.Thrust(&en.ScreenObject, en.Angle)
			aimed = true
		}
	}
	if (!aimed && !fireCmd) || en.FireCooldown > 0 {
		return nil
	}
	en.FireCooldown = e.fireInterval()
	return e.projectile(en, en.Angle)
}

func (e *Engine) updateEgg(en *types.Enemy) Outcome {
	ec := e.cfg.Enemy
	e.coast(en)

	span := ec.EggMaxRadius - ec.EggInitialRadius
	if span > 0 {
		en.Egg.Progress += en.Egg.GrowthRate / span
	} else {
		en.Egg.Progress = 1
	}
	en.Radius = ec.EggInitialRadius + span*math.Min(en.Egg.Progress, 1)

	if en.Egg.Progress < 1 {
		return Outcome{}
	}

	n := e.rng.Intn(3) + 1
	spawns := make([]types.SpawnRequest, 0, n)
	for i := 0; i < n; i++ {
		angle := e.rng.Float64() * 360
		dist := ec.EggSpawnOffset * (0.5 + 0.5*e.rng.Float64())
		want := en.Position.Add(types.FromAngle(angle, dist))
		spawns = append(spawns, types.SpawnRequest{
			Kind:     types.EnemyKindBaby,
			Position: e.spawnPoint(en.Position, want, ec.BabyRadius),
			Angle:    angle,
			ParentID: en.ID,
		})
	}
	en.Active = false
	en.Velocity = types.Vector2{}

	e.log.WithField("entity_id", en.ID).WithField("babies", n).Debug("Egg hatched")

	return Outcome{
		Spawns:    spawns,
		Destroyed: &types.DestroySignal{EntityID: en.ID, Kind: en.Kind, Position: en.Position, Hatched: true},
	}
}

func (e *Engine) updateMother(en *types.Enemy, view View) Outcome {
	out := e.updateReplay(en, view)
	if !en.Active {
		return out
	}

	ec := e.cfg.Enemy
	if en.Mother.EggCooldown > 0 {
		en.Mother.EggCooldown--
	}
	if en.Mother.EggCooldown > 0 || childrenOf(en.ID, types.EnemyKindEgg, view.Enemies) >= ec.MotherBossMaxEggs {
		return out
	}

	angle := e.rng.Float64() * 360
	dist := e.rng.Float64() * en.Radius * 0.5
	want := en.Position.Add(types.FromAngle(angle, dist))
	out.Spawns = append(out.Spawns, types.SpawnRequest{
		Kind:     types.EnemyKindEgg,
		Position: e.spawnPoint(en.Position, want, ec.EggInitialRadius),
		ParentID: en.ID,
	})
	en.Mother.EggCooldown = ec.MotherBossEggTicks
	return out
}

// split replaces a destroyed boss with two replay ships flying apart at
// 45 degrees either side of its heading.
func (e *Engine) split(en *types.Enemy) []types.SpawnRequest {
	ec := e.cfg.Enemy
	spawns := make([]types.SpawnRequest, 0, 2)
	for _, side := range []float64{-45, 45} {
		heading := utils.NormalizeAngle(en.Angle + side)
		dist := ec.SplitBossSpawnOffset * (0.5 + 0.5*e.rng.Float64())
		want := en.Position.Add(types.FromAngle(heading, dist))
		spawns = append(spawns, types.SpawnRequest{
			Kind:     types.EnemyKindReplay,
			Position: e.spawnPoint(en.Position, want, ec.ReplayRadius),
			Velocity: types.FromAngle(heading, ec.SplitBossSplitSpeed),
			Angle:    heading,
			ParentID: en.ID,
		})
	}
	return spawns
}
