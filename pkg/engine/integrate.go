// pkg/engine/integrate.go
package engine

import (
	"context"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/validation"
)

// applyCommands turns controller input into forces and shots.
func (g *Game) applyCommands(commands map[entity.ID]Command, dt float64) {
	for _, id := range g.world.SortedTankIDs() {
		tank := g.world.Tanks[id]
		cmd, ok := commands[id]
		if !ok {
			cmd = Command{Aim: tank.AimPoint}
		}
		if err := validation.ValidateCommand(cmd.Move, cmd.Aim); err != nil {
			g.logger.Warn(context.Background(), "dropping invalid command", "tank", id.Short(), "error", err.Error())
			cmd = Command{Aim: tank.AimPoint}
		}

		tank.MoveDir = cmd.Move
		tank.Firing = cmd.Fire
		tank.Steer(cmd.Move, dt)
		tank.AimAt(cmd.Aim, dt)
		g.fireTurrets(id, tank)
	}
}

// fireTurrets fires the tank's ready turrets. Drone turrets launch on their
// own until the tank's drone limit is reached; other turrets need the fire
// command.
func (g *Game) fireTurrets(id entity.ID, tank *entity.Tank) {
	drones := g.ownedDrones(tank)
	limit := g.droneLimit(tank)

	shots := tank.Fire(id, g.rng, func(t *entity.Turret) bool {
		if t.Kind == entity.Drone {
			if drones >= limit {
				return false
			}
			drones++
			return true
		}
		return tank.Firing
	})

	for _, p := range shots {
		pid, err := g.world.AddProjectile(p)
		if err != nil {
			g.logger.Warn(context.Background(), "discarding projectile", "tank", id.Short(), "error", err.Error())
			continue
		}
		g.emit(event.NewProjectileEvent(event.ProjectileFired, g, pid, id, p.Type))
	}
}

func (g *Game) ownedDrones(tank *entity.Tank) int {
	n := 0
	for pid := range tank.Owned {
		if p, ok := g.world.Projectile(pid); ok && p.Type == entity.Drone {
			n++
		}
	}
	return n
}

func (g *Game) droneLimit(tank *entity.Tank) int {
	if tank.MaxDrones > 0 {
		return tank.MaxDrones
	}
	return g.Config.Lifecycle.DefaultMaxDrones
}

// steerDrones homes every drone on its owner's aim point.
func (g *Game) steerDrones(dt float64) {
	lc := g.Config.Lifecycle
	for _, id := range g.world.SortedProjectileIDs() {
		p := g.world.Projectiles[id]
		if p.Type != entity.Drone {
			continue
		}
		owner, ok := g.world.Tank(p.Firer)
		if !ok || !owner.SpawnerLike() {
			continue
		}
		seek(&p.Body, owner.AimPoint, lc.DroneMaxSpeed, lc.DroneAcceleration*dt)
	}
}

// seek changes b's velocity toward full speed at target, by at most maxDelta.
func seek(b *physics.Body, target physics.Vector2D, maxSpeed, maxDelta float64) {
	desired := target.Sub(b.Position).Normalize().Scale(maxSpeed)
	b.Velocity = b.Velocity.Add(desired.Sub(b.Velocity).Limit(maxDelta))
	if b.Velocity.LengthSquared() > 0 {
		b.Rot = physics.HeadingAngle(b.Velocity)
	}
}

// integrate advances every body by dt, then updates shape growth.
func (g *Game) integrate(dt float64) {
	friction := g.Config.Physics.Friction
	for _, t := range g.world.Tanks {
		t.Update(dt, friction)
	}
	for _, s := range g.world.Shapes {
		s.Update(dt, friction)
		s.Age += dt
		s.Grow()
	}
	for _, p := range g.world.Projectiles {
		p.Update(dt, friction)
	}
}

// constrainToArena applies the soft wall to tanks and shapes. Projectiles
// may leave the arena; they expire on their own.
func (g *Game) constrainToArena(dt float64) {
	for _, t := range g.world.Tanks {
		g.constrain(&t.Body, dt)
	}
	for _, s := range g.world.Shapes {
		g.constrain(&s.Body, dt)
	}
}

func (g *Game) constrain(b *physics.Body, dt float64) {
	if dt <= 0 {
		return
	}
	overflow := arenaOverflow(b.Position, g.Config.MapHalfExtent)
	if overflow == (physics.Vector2D{}) {
		return
	}

	p := g.Config.Physics
	b.Damp(p.BoundaryDamping/b.Weight, dt)

	// never push hard enough to cross back over the wall in one step
	force := overflow.Scale(-p.BoundaryStiffness * dt)
	if maxForce := overflow.Length() * b.Weight / dt; force.Length() > maxForce {
		force = force.Normalize().Scale(maxForce)
	}
	b.Push(force)
}

// arenaOverflow is how far pos lies outside the square of half-extent h,
// per axis and signed.
func arenaOverflow(pos physics.Vector2D, h float64) physics.Vector2D {
	var o physics.Vector2D
	switch {
	case pos.X > h:
		o.X = pos.X - h
	case pos.X < -h:
		o.X = pos.X + h
	}
	switch {
	case pos.Y > h:
		o.Y = pos.Y - h
	case pos.Y < -h:
		o.Y = pos.Y + h
	}
	return o
}

// advanceCooldowns counts every turret's reload down.
func (g *Game) advanceCooldowns(dt float64) {
	for _, t := range g.world.Tanks {
		t.TickTurrets(dt)
	}
}
