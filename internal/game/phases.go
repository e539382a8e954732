package game

import (
	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/behavior"
	"github.com/besuhoff/dungeon-maze-go/internal/physics"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

func (s *Simulation) thruster() types.Thruster {
	sc := s.cfg.Ship
	return types.Thruster{
		RotationSpeed: sc.RotationSpeed,
		ThrustForce:   sc.ThrustForce,
		Friction:      sc.Friction,
		MaxSpeed:      sc.MaxSpeed,
	}
}

// controlShip applies the input and records what the ship actually did.
// A tick without any action records a no-op so replays keep their pace.
func (s *Simulation) controlShip(in types.Input, res *TickResult) {
	sc := s.cfg.Ship
	ship := s.ship
	thr := s.thruster()
	recorded := false

	if in.Moves() {
		ship.Started = true
	}
	s.raiseShield(in)

	ship.Thrusting = false
	for _, cmd := range in.Commands() {
		switch cmd {
		case types.CmdRotateLeft:
			ship.Angle = thr.Rotate(ship.Angle, -1)
		case types.CmdRotateRight:
			ship.Angle = thr.Rotate(ship.Angle, 1)
		case types.CmdThrust:
			if !ship.HasFuel(sc.FuelPerThrust) {
				continue
			}
			thr.Thrust(&ship.ScreenObject, ship.Angle)
			ship.Fuel -= sc.FuelPerThrust
			ship.Thrusting = true
		}
		s.recorder.Record(cmd)
		recorded = true
	}
	thr.Drag(&ship.ScreenObject)

	if ship.FireCooldown > 0 {
		ship.FireCooldown--
	}
	if in.Fire && ship.CanFire() {
		ship.Ammo--
		ship.FireCooldown = s.fireCooldown()
		s.addProjectile(&types.Projectile{
			ScreenObject: types.ScreenObject{
				Position: ship.Position,
				Velocity: types.FromAngle(ship.Angle, s.cfg.Physics.ProjectileSpeed),
				Radius:   s.cfg.Physics.ProjectileRadius,
				Active:   true,
			},
			OwnerID:   ship.ID,
			TicksLeft: s.cfg.Physics.ProjectileLifetime,
			Damage:    1,
		}, res)
		s.recorder.Record(types.CmdFire)
		recorded = true
	}

	if !recorded {
		s.recorder.Record(types.CmdNoAction)
	}
}

// raiseShield keeps the level start shield up until its time runs out. The
// time only counts down once the ship has moved. Afterwards the shield is up
// only while held, and it burns fuel. Holding it is never recorded.
func (s *Simulation) raiseShield(in types.Input) {
	ship := s.ship
	if ship.ShieldTicks > 0 {
		ship.Shielded = true
		if ship.Started {
			ship.ShieldTicks--
		}
		return
	}
	cost := s.cfg.Ship.ShieldFuelPerTick
	ship.Shielded = in.Shield && ship.HasFuel(cost)
	if ship.Shielded {
		ship.Fuel -= cost
	}
}

// fireCooldown divides the base cooldown by the gun upgrade's fire rate.
func (s *Simulation) fireCooldown() int {
	sc := s.cfg.Ship
	lvl := min(s.ship.GunLevel, len(sc.GunFireRate))
	if lvl <= 0 {
		return sc.FireCooldownTicks
	}
	return max(1, int(float64(sc.FireCooldownTicks)/sc.GunFireRate[lvl-1]))
}

func (s *Simulation) upgradeGun() {
	if s.ship.GunLevel >= s.cfg.Ship.GunMaxLevel {
		return
	}
	s.ship.GunLevel++
	s.log.WithField("gun_level", s.ship.GunLevel).Info("Gun upgraded")
}

func (s *Simulation) addProjectile(p *types.Projectile, res *TickResult) {
	p.ID = s.newID()
	s.projectiles = append(s.projectiles, p)
	res.Fired++
}

// movePhase sweeps every moving body against the walls. It returns the
// wall contacts of enemies, which behaviors react to.
func (s *Simulation) movePhase(res *TickResult) map[string]types.CollisionEvent {
	restitution := s.cfg.Physics.WallRestitution
	hits := make(map[string]types.CollisionEvent)

	if moving(&s.ship.ScreenObject) {
		if ev, ok := s.resolver.Advance(&s.ship.ScreenObject, restitution); ok {
			res.Events = append(res.Events, ev)
		}
	}

	for _, en := range s.enemies {
		if !en.Active || !moving(&en.ScreenObject) {
			continue
		}
		if ev, ok := s.resolver.Advance(&en.ScreenObject, restitution); ok {
			hits[en.ID] = ev
			res.Events = append(res.Events, ev)
		}
	}

	for _, p := range s.projectiles {
		if !p.Active {
			continue
		}
		if _, ok := s.resolver.Advance(&p.ScreenObject, 0); ok {
			p.Active = false
			continue
		}
		p.Expire()
	}

	s.index.RebuildEntities(s.collidables())
	return hits
}

func moving(o *types.ScreenObject) bool {
	return o.Velocity != (types.Vector2{})
}

// collisionPhase resolves projectile and body contacts at the positions
// the move phase produced.
func (s *Simulation) collisionPhase(res *TickResult) {
	ship := s.ship
	byID := make(map[string]*types.Enemy, len(s.enemies))
	for _, en := range s.enemies {
		if en.Active {
			byID[en.ID] = en
		}
	}

	for _, p := range s.projectiles {
		if !p.Active {
			continue
		}

		if p.IsEnemy {
			// shots pass through the shield
			if !ship.Shielded && physics.Collide(&p.ScreenObject, &ship.ScreenObject) {
				p.Active = false
				physics.ApplyImpulse(&ship.ScreenObject, p.Velocity, s.cfg.Physics.ProjectileImpactForce)
				res.Damage += p.Damage
				res.Events = append(res.Events, physics.Contact(&ship.ScreenObject, &p.ScreenObject))
			}
			continue
		}

		for _, id := range s.index.QueryCircle(p.Position, p.Radius).Entities {
			en, ok := byID[id]
			if !ok || !physics.Collide(&p.ScreenObject, &en.ScreenObject) {
				continue
			}
			hit := s.behavior.Hit(en, p)
			if !hit.Consumed {
				continue
			}
			p.Active = false
			res.Events = append(res.Events, physics.Contact(&en.ScreenObject, &p.ScreenObject))
			s.absorb(hit.Outcome, res)
			if hit.Destroyed {
				delete(byID, id)
			}
			break
		}
	}

	if !ship.Shielded {
		for _, id := range s.index.QueryCircle(ship.Position, ship.Radius).Entities {
			en, ok := byID[id]
			if ok && physics.Collide(&ship.ScreenObject, &en.ScreenObject) {
				res.Events = append(res.Events, physics.Contact(&ship.ScreenObject, &en.ScreenObject))
			}
		}
	}

	for _, c := range s.crystals {
		if !physics.Collide(&ship.ScreenObject, &c.ScreenObject) {
			continue
		}
		c.Active = false
		s.upgradeGun()
		ev := physics.Contact(&ship.ScreenObject, &c.ScreenObject)
		ev.Kind = types.CollisionCrystal
		res.Events = append(res.Events, ev)
	}
}

// behaviorPhase updates enemies in slice order. Spawned enemies join the
// slice after the loop and act from the next tick on.
func (s *Simulation) behaviorPhase(wallHits map[string]types.CollisionEvent, res *TickResult) {
	view := behavior.View{
		Player:   s.ship.Position,
		Tick:     s.tick,
		DT:       1,
		WallHits: wallHits,
		Enemies:  s.enemies,
	}

	n := len(s.enemies)
	for i := 0; i < n; i++ {
		en := s.enemies[i]
		if !en.Active {
			continue
		}
		s.absorb(s.behavior.Update(en, view), res)
	}

	for _, req := range s.pending {
		s.enemies = append(s.enemies, s.behavior.FromRequest(s.newID(), req))
	}
	res.Spawned += len(s.pending)
	s.pending = s.pending[:0]
}

func (s *Simulation) absorb(out behavior.Outcome, res *TickResult) {
	s.pending = append(s.pending, out.Spawns...)
	if out.Destroyed != nil {
		res.Destroyed = append(res.Destroyed, *out.Destroyed)
	}
	if out.Fired != nil {
		s.addProjectile(out.Fired, res)
	}
	if out.Crystal != nil {
		out.Crystal.ID = s.newID()
		s.crystals = append(s.crystals, out.Crystal)
	}
	res.Events = append(res.Events, out.Events...)
}

// exitGate completes the level when the ship reaches the exit, unless an
// egg is still waiting to hatch.
func (s *Simulation) exitGate() {
	reach := s.cfg.Level.ExitRadius + s.ship.Radius
	if s.ship.Position.Distance(s.maze.ExitPos) > reach {
		if s.status == types.LevelExitLocked {
			s.status = types.LevelRunning
		}
		return
	}

	if eggs := behavior.ActiveEggCount(s.enemies); eggs > 0 {
		if s.status != types.LevelExitLocked {
			s.log.WithField("eggs", eggs).Debug("Exit locked by unhatched eggs")
		}
		s.status = types.LevelExitLocked
		return
	}

	s.status = types.LevelCompleted
	s.log.WithFields(logrus.Fields{
		"tick":     s.tick,
		"commands": s.recorder.Len(),
		"fuel":     s.ship.Fuel,
	}).Info("Level completed")
}

// compact drops inactive entities and refreshes the entity buckets.
func (s *Simulation) compact() {
	enemies := s.enemies[:0]
	for _, en := range s.enemies {
		if en.Active {
			enemies = append(enemies, en)
		}
	}
	clear(s.enemies[len(enemies):])
	s.enemies = enemies

	projectiles := s.projectiles[:0]
	for _, p := range s.projectiles {
		if p.Active {
			projectiles = append(projectiles, p)
		}
	}
	clear(s.projectiles[len(projectiles):])
	s.projectiles = projectiles

	crystals := s.crystals[:0]
	for _, c := range s.crystals {
		if c.Active {
			crystals = append(crystals, c)
		}
	}
	clear(s.crystals[len(crystals):])
	s.crystals = crystals

	s.index.RebuildEntities(s.collidables())
}
