// pkg/engine/collision.go
package engine

import (
	"math"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// resolveCollisions runs the broadphase over every live body and resolves
// each overlapping pair. Resolution only changes velocities and health, so
// the circles captured up front stay valid for the whole sweep.
func (g *Game) resolveCollisions(dt float64) {
	ids := g.world.SortedIDs()
	circles := make([]physics.Circle, len(ids))
	for i, id := range ids {
		b, _ := g.world.Body(id)
		circles[i] = b.Circle()
	}

	physics.Sweep(circles, func(k, a int) {
		g.resolvePair(ids[k], ids[a], dt)
		g.tick.collisions++
	})
}

// contact describes how one side of a pair reacts.
type contact struct {
	damage bool
	sticky bool
}

// resolvePair applies the collision response to both sides of a pair. Both
// bodies are copied first so each side reacts to the other's state from
// before the exchange.
func (g *Game) resolvePair(idA, idB entity.ID, dt float64) {
	ea, okA := g.world.Entity(idA)
	eb, okB := g.world.Entity(idB)
	if !okA || !okB {
		return
	}
	if selfImmune(idA, ea, eb) || selfImmune(idB, eb, ea) {
		return
	}

	a, b := ea.PhysicsBody(), eb.PhysicsBody()
	preA, preB := *a, *b

	damage := !positionOnly(ea, eb)
	dir := preA.Position.Sub(preB.Position).Normalize()
	if dir == (physics.Vector2D{}) {
		// coincident centers; separate along X by id order
		dir = physics.Vector2D{X: 1}
		if idA.Compare(idB) < 0 {
			dir.X = -1
		}
	}

	dmgA := g.applyContact(a, &preA, &preB, dir, contact{damage: damage, sticky: isSticky(ea)}, dt)
	dmgB := g.applyContact(b, &preB, &preA, dir.Scale(-1), contact{damage: damage, sticky: isSticky(eb)}, dt)

	if damage {
		g.attribute(idA, ea, idB, eb)
		g.attribute(idB, eb, idA, ea)
	}
	g.emit(event.NewCollisionEvent(g, idA, idB, dmgA, dmgB))
}

// selfImmune reports whether e is a projectile in the owned set of the
// tank other.
func selfImmune(id entity.ID, e, other entity.Entity) bool {
	if _, ok := e.(*entity.Projectile); !ok {
		return false
	}
	tank, ok := other.(*entity.Tank)
	return ok && tank.Owns(id)
}

// positionOnly reports whether a pair exchanges knockback but no damage:
// two projectiles where either is a trap or bomb, or that share a firer.
func positionOnly(a, b entity.Entity) bool {
	pa, okA := a.(*entity.Projectile)
	pb, okB := b.(*entity.Projectile)
	if !okA || !okB {
		return false
	}
	return pa.Type.PositionOnly() || pb.Type.PositionOnly() || pa.Firer == pb.Firer
}

func isSticky(e entity.Entity) bool {
	p, ok := e.(*entity.Projectile)
	return ok && p.Type.Sticky()
}

// applyContact mutates self in response to touching other. pre is self's
// state before the exchange and away points from other toward self. It
// returns the damage dealt to self.
func (g *Game) applyContact(self, pre, other *physics.Body, away physics.Vector2D, c contact, dt float64) float64 {
	p := g.Config.Physics

	overlap := pre.Radius + other.Radius - pre.Distance(other)
	relSpeed := pre.Velocity.Sub(other.Velocity).Length()
	mag := (relSpeed + math.Max(0, overlap)*p.CollisionStiffness) *
		math.Sqrt(pre.Weight+other.Weight) * dt * p.CollisionPushScale

	dir := away
	if c.sticky {
		dir = away.Scale(-1)
	}
	self.Push(dir.Scale(mag))
	self.Damp(p.ContactDamping, dt)

	dmg := 0.0
	if c.damage {
		dmg = math.Max(0, math.Min(mag/p.DamageDivisor, other.HP))
		self.HP -= dmg
	}

	// spin toward the side the other body is sliding past
	rel := other.Position.Sub(pre.Position)
	next := rel.Add(other.Velocity.Sub(pre.Velocity).Scale(dt))
	if rel.LengthSquared() > 0 && next.LengthSquared() > 0 {
		swing := physics.AngleDelta(physics.HeadingAngle(rel), physics.HeadingAngle(next))
		self.PushRot(swing * p.TorqueScale)
	}
	return dmg
}

// attribute records who hurt self and hands out rewards when self died in
// this contact.
func (g *Game) attribute(selfID entity.ID, self entity.Entity, otherID entity.ID, other entity.Entity) {
	switch s := self.(type) {
	case *entity.Tank:
		attacker := otherID
		switch o := other.(type) {
		case *entity.Projectile:
			attacker = o.Firer
		case *entity.Tank:
		default:
			return
		}
		if attacker == selfID {
			return
		}
		s.LastAttacker = entity.Some(attacker)
		if s.HP <= 0 {
			g.creditTankKill(selfID, s, attacker)
		}

	case *entity.Shape:
		if !s.Dead() || !s.Rewarding() {
			return
		}
		switch o := other.(type) {
		case *entity.Tank:
			g.creditShapeKill(selfID, s, otherID)
		case *entity.Projectile:
			g.creditShapeKill(selfID, s, o.Firer)
			g.queueInfection(selfID, s, o.Firer)
		}
	}
}

// creditTankKill moves the victim's kill value to killer, at most once per
// victim per tick and only while the killer is alive.
func (g *Game) creditTankKill(victimID entity.ID, victim *entity.Tank, killerID entity.ID) {
	if g.tick.creditedTanks[victimID] {
		return
	}
	killer, ok := g.world.Tank(killerID)
	if !ok {
		return
	}
	g.tick.creditedTanks[victimID] = true
	value := victim.KillValue()
	killer.XP += value
	g.emit(event.NewXPEvent(g, killerID, victimID, value))
}

// creditShapeKill rewards killer for a shape in proportion to its area.
func (g *Game) creditShapeKill(shapeID entity.ID, s *entity.Shape, killerID entity.ID) {
	if g.tick.creditedShapes[shapeID] {
		return
	}
	killer, ok := g.world.Tank(killerID)
	if !ok {
		return
	}
	g.tick.creditedShapes[shapeID] = true
	value := s.Area() * g.Config.Lifecycle.ShapeXPPerArea
	killer.XP += value
	g.emit(event.NewXPEvent(g, killerID, shapeID, value))
}

// queueInfection schedules a drone for firer in place of shape when firer's
// class converts that kind of shape. The drone is created during the death
// phase so the world is not modified mid-sweep.
func (g *Game) queueInfection(shapeID entity.ID, s *entity.Shape, firerID entity.ID) {
	firer, ok := g.world.Tank(firerID)
	if !ok || !firer.CanInfect(s.Type) {
		return
	}
	pending := 0
	for _, inf := range g.tick.infections {
		if inf.shape == shapeID {
			return
		}
		if inf.firer == firerID {
			pending++
		}
	}
	if g.ownedDrones(firer)+pending >= g.droneLimit(firer) {
		return
	}
	g.tick.infections = append(g.tick.infections, infection{
		shape: shapeID,
		firer: firerID,
		at:    s.Position,
		vel:   s.Velocity,
	})
}
