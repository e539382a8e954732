package physics

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/spatial"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
	"github.com/besuhoff/dungeon-maze-go/internal/utils"
)

const (
	// contactEpsilon backs a body off the exact contact time so it does not
	// start the next tick touching the wall.
	contactEpsilon = 1e-4
	// pushSlack is added to the radius when a body is clamped out of a wall.
	pushSlack = 1e-3
	// clampPasses bounds the push-out iterations in corners.
	clampPasses = 3
)

// Resolver moves bodies against the wall set of one level
type Resolver struct {
	index     *spatial.Grid
	sweep     utils.SweepOptions
	tolerance float64
	log       logrus.FieldLogger
}

// NewResolver creates a resolver over the walls stored in index.
func NewResolver(cfg *config.Config, index *spatial.Grid, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		index: index,
		sweep: utils.SweepOptions{
			BisectionSteps: cfg.Physics.SweepBisectionSteps,
			Tolerance:      cfg.Physics.SweepTolerance,
		},
		tolerance: cfg.Physics.PenetrationTolerance,
		log:       log,
	}
}

// Advance moves the body one tick along its velocity. When the path meets a
// wall the body stops at the contact point and its velocity is reflected
// with the given restitution. The earliest contact wins; equal contact times
// go to the lowest wall index.
func (r *Resolver) Advance(o *types.ScreenObject, restitution float64) (types.CollisionEvent, bool) {
	p0 := o.Position
	p1 := p0.Add(o.Velocity)

	var best utils.SweptHit
	bestWall := -1
	for _, idx := range r.index.QueryPath(p0, p1, o.Radius) {
		w := r.index.Wall(idx)
		hit, ok := r.sweep.Sweep(p0, p1, o.Radius, w.Start, w.End)
		if !ok {
			continue
		}
		// indices arrive sorted, so strict comparison keeps the lowest
		if bestWall < 0 || hit.TOI < best.TOI {
			best = hit
			bestWall = idx
		}
	}

	if bestWall < 0 {
		o.Position = p1
		r.Clamp(o)
		return types.CollisionEvent{}, false
	}

	if best.Degraded {
		return r.resolveDegraded(o, p1, bestWall, restitution)
	}

	t := math.Max(0, best.TOI-contactEpsilon)
	o.Position = p0.Add(p1.Sub(p0).Scale(t))
	o.Velocity = utils.ReflectVelocity(o.Velocity, best.Normal, restitution)
	r.Clamp(o)

	return types.CollisionEvent{
		EntityID:    o.ID,
		Kind:        types.CollisionWall,
		ImpactPoint: best.Point,
		Normal:      best.Normal,
		WallIndex:   bestWall,
	}, true
}

// resolveDegraded falls back to the discrete end-of-tick test when the
// contact time could not be pinned down.
func (r *Resolver) resolveDegraded(o *types.ScreenObject, p1 types.Vector2, wallIdx int, restitution float64) (types.CollisionEvent, bool) {
	r.log.WithFields(logrus.Fields{
		"event":     "degraded_precision",
		"entity_id": o.ID,
		"wall":      wallIdx,
	}).Warn("Swept collision did not converge, using discrete test")

	o.Position = p1
	w := r.index.Wall(wallIdx)
	if !utils.CheckCircleSegmentCollision(p1, o.Radius, w.Start, w.End) {
		r.Clamp(o)
		return types.CollisionEvent{}, false
	}

	n := utils.WallNormal(p1, w.Start, w.End)
	point := utils.ClosestPointOnSegment(p1, w.Start, w.End)
	o.Position = point.Add(n.Scale(o.Radius + pushSlack))
	if o.Velocity.Dot(n) < 0 {
		o.Velocity = utils.ReflectVelocity(o.Velocity, n, restitution)
	}
	r.Clamp(o)

	return types.CollisionEvent{
		EntityID:    o.ID,
		Kind:        types.CollisionWall,
		ImpactPoint: point,
		Normal:      n,
		WallIndex:   wallIdx,
	}, true
}

// Clamp pushes the body out of any wall it penetrates deeper than the
// tolerance, placing it at radius distance along the wall normal. It
// reports whether the body was moved.
func (r *Resolver) Clamp(o *types.ScreenObject) bool {
	moved := false
	for pass := 0; pass < clampPasses; pass++ {
		pushed := false
		for _, idx := range r.index.QueryCircle(o.Position, o.Radius).Walls {
			w := r.index.Wall(idx)
			if utils.DistanceToSegment(o.Position, w.Start, w.End) >= o.Radius-r.tolerance {
				continue
			}
			n := utils.WallNormal(o.Position, w.Start, w.End)
			point := utils.ClosestPointOnSegment(o.Position, w.Start, w.End)
			o.Position = point.Add(n.Scale(o.Radius + pushSlack))
			pushed = true
		}
		if !pushed {
			break
		}
		moved = true
	}
	if moved {
		r.log.WithField("entity_id", o.ID).Debug("Clamped body out of wall")
	}
	return moved
}

// Collide is the same-tick circle containment test between two bodies.
func Collide(a, b *types.ScreenObject) bool {
	if !a.Active || !b.Active {
		return false
	}
	return utils.CheckCircleCollision(a.Position.X, a.Position.Y, a.Radius, b.Position.X, b.Position.Y, b.Radius)
}

// Contact builds the collision event for entity a touching entity b. The
// normal points from b toward a.
func Contact(a, b *types.ScreenObject) types.CollisionEvent {
	n := a.Position.Sub(b.Position).Normalize()
	return types.CollisionEvent{
		EntityID:    a.ID,
		Kind:        types.CollisionEnemy,
		ImpactPoint: b.Position.Add(n.Scale(b.Radius)),
		Normal:      n,
		OtherID:     b.ID,
		WallIndex:   -1,
	}
}

// ApplyImpulse transfers a share of a projectile's momentum to the body.
func ApplyImpulse(o *types.ScreenObject, projectileVelocity types.Vector2, force float64) {
	o.Velocity = o.Velocity.Add(projectileVelocity.Scale(force))
}
