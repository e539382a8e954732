package behavior

import (
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
	"github.com/besuhoff/dungeon-maze-go/internal/utils"
)

// steer sums the boid rules over the other flockers in the view and adds a
// pull toward the player. Each rule is normalized before weighting.
func (e *Engine) steer(en *types.Enemy, view View) types.Vector2 {
	ec := e.cfg.Enemy
	var separation, alignment, center types.Vector2
	neighbors := 0
	for _, other := range view.Enemies {
		if other == en || !other.Active || other.Kind != types.EnemyKindFlocker {
			continue
		}
		away := en.Position.Sub(other.Position)
		dist := away.Length()
		if dist == 0 || dist > ec.FlockerNeighborRadius {
			continue
		}
		if dist < ec.FlockerSeparationRadius {
			separation = separation.Add(away.Scale(1 / (dist * dist)))
		}
		alignment = alignment.Add(other.Velocity)
		center = center.Add(other.Position)
		neighbors++
	}

	force := separation.Normalize().Scale(ec.FlockerSeparationWeight)
	if neighbors > 0 {
		center = center.Scale(1 / float64(neighbors))
		force = force.Add(alignment.Normalize().Scale(ec.FlockerAlignmentWeight))
		force = force.Add(center.Sub(en.Position).Normalize().Scale(ec.FlockerCohesionWeight))
	}
	return force.Add(view.Player.Sub(en.Position).Normalize().Scale(ec.FlockerSeekWeight))
}

// updateFlocker flies with the swarm toward the player. It turns while the
// wanted heading is more than two rotation steps off and thrusts once it
// points within 45 degrees of it.
func (e *Engine) updateFlocker(en *types.Enemy, view View) Outcome {
	thr := e.thruster(en)

	if force := e.steer(en, view); force.LengthSquared() > 0 {
		diff := utils.AngleDiff(en.Angle, utils.AngleToPoint(types.Vector2{}, force))
		if math.Abs(diff) > 2*thr.RotationSpeed {
			en.Angle = thr.Rotate(en.Angle, math.Copysign(1, diff))
		}
		if math.Abs(diff) < 45 {
			thr.Thrust(&en.ScreenObject, en.Angle)
		}
	}
	thr.Drag(&en.ScreenObject)

	aim := utils.AngleDiff(en.Angle, utils.AngleToPoint(en.Position, view.Player))
	if math.Abs(aim) > e.cfg.Enemy.ReplayFireAngle {
		if en.FireCooldown > 0 {
			en.FireCooldown--
		}
		return Outcome{}
	}
	return Outcome{Fired: e.fireAtPlayer(en, view)}
}

// updateFlighthouse sweeps a vision cone around an anchored tower. Once the
// player is inside the cone, in range and in sight, the beam follows it and
// flockers are launched at it, the first one immediately.
func (e *Engine) updateFlighthouse(en *types.Enemy, view View) Outcome {
	ec := e.cfg.Enemy
	lh := &en.Lighthouse
	en.Velocity = types.Vector2{}
	if lh.SpawnCooldown > 0 {
		lh.SpawnCooldown--
	}

	toPlayer := utils.AngleToPoint(en.Position, view.Player)
	sees := en.Position.Distance(view.Player) <= ec.FlighthouseVisionRange &&
		math.Abs(utils.AngleDiff(en.Angle, toPlayer)) <= ec.FlighthouseVisionCone/2 &&
		e.index.LineOfSight(en.Position, view.Player)

	if !sees {
		lh.Tracking = false
		en.Angle = utils.NormalizeAngle(en.Angle + ec.FlighthouseScanSpeed)
		return Outcome{}
	}
	if !lh.Tracking {
		lh.Tracking = true
		lh.SpawnCooldown = 0
		e.log.WithField("entity_id", en.ID).Debug("Flighthouse spotted the player")
	}
	en.Angle = utils.RotateTowards(en.Angle, toPlayer, ec.FlighthouseTrackSpeed)

	if lh.SpawnCooldown > 0 || childrenOf(en.ID, types.EnemyKindFlocker, view.Enemies) >= ec.FlighthouseMaxFlockers {
		return Outcome{}
	}
	lh.SpawnCooldown = e.scale.FlighthouseSpawnTicks

	want := en.Position.Add(types.FromAngle(toPlayer, en.Radius+ec.FlockerRadius))
	return Outcome{Spawns: []types.SpawnRequest{{
		Kind:     types.EnemyKindFlocker,
		Position: e.spawnPoint(en.Position, want, ec.FlockerRadius),
		Velocity: types.FromAngle(toPlayer, ec.FlighthouseLaunchSpeed),
		Angle:    toPlayer,
		ParentID: en.ID,
	}}}
}
