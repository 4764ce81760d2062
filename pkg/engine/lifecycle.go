// pkg/engine/lifecycle.go
package engine

import (
	"context"
	"math"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// Size scale bounds for spawned shapes, plus fixed fragment counts.
const (
	minSpawnScale = 0.6
	maxSpawnScale = 1.6
	minShrapnel   = 4
	splitChildren = 6
)

var spawnKinds = []entity.ShapeKind{entity.Square, entity.Triangle, entity.Pentagon, entity.Hexagon}

// processDeaths handles everything that dies this tick: hexagons split,
// explosives blow up, infected shapes turn into drones, then the dead are
// removed. It returns the number of entities removed.
func (g *Game) processDeaths() int {
	ctx := context.Background()

	var dead []entity.ID
	for _, id := range g.world.SortedIDs() {
		e, ok := g.world.Entity(id)
		if !ok {
			continue
		}
		switch v := e.(type) {
		case *entity.Tank:
			if !v.Dead() {
				continue
			}
			g.logger.Info(ctx, "tank destroyed",
				"id", id.Short(),
				"class", v.Class,
				"killer", v.LastAttacker.String(),
				"xp", v.XP)
			g.emit(event.NewKillEvent(g, id, v.Class, v.LastAttacker, v.KillValue()))

		case *entity.Shape:
			if !v.Dead() {
				continue
			}
			g.emit(event.NewEntityEvent(event.ShapeDestroyed, g, id, v))
			if v.Type == entity.Hexagon && v.Rewarding() {
				g.split(id, v)
			}

		case *entity.Projectile:
			if !v.Dead() {
				continue
			}
			if v.Type.Explosive() {
				g.explode(id, v)
			}
		}
		dead = append(dead, id)
	}

	g.spawnInfections()

	for _, id := range dead {
		g.world.Remove(id)
	}
	return len(dead)
}

// split replaces a dying hexagon with a cluster of full-health squares.
func (g *Game) split(id entity.ID, parent *entity.Shape) {
	lc := g.Config.Lifecycle
	base := entity.Square.Stats().Radius
	jitter := parent.Radius * lc.SplitJitter

	children := make([]entity.ID, 0, splitChildren)
	for range splitChildren {
		r := parent.Radius * lc.SplitSizeFraction * g.rng.Range(0.8, 1.2)
		pos := parent.Position.Add(physics.Vector2D{
			X: g.rng.Range(-jitter, jitter),
			Y: g.rng.Range(-jitter, jitter),
		})
		child := entity.NewMatureShape(entity.Square, pos, r/base)
		child.Velocity = parent.Velocity

		cid, err := g.world.AddShape(child)
		if err != nil {
			g.logger.Warn(context.Background(), "dropping split child", "parent", id.Short(), "error", err.Error())
			continue
		}
		children = append(children, cid)
	}
	g.emit(event.NewSpawnEvent(event.ShapeSplit, g, id, children))
}

// explode shoves everything near a dying explosive outward, then scatters
// shrapnel bullets owned by the bomb's firer.
func (g *Game) explode(id entity.ID, bomb *entity.Projectile) {
	lc := g.Config.Lifecycle
	r := bomb.Radius
	blast := lc.BlastRadiusFactor * r

	for _, oid := range g.world.SortedIDs() {
		if oid == id {
			continue
		}
		b, _ := g.world.Body(oid)
		offset := b.Position.Sub(bomb.Position)
		overlap := blast + b.Radius - offset.Length()
		if overlap <= 0 {
			continue
		}
		dir := offset.Normalize()
		if dir == (physics.Vector2D{}) {
			continue
		}
		b.Push(dir.Scale(overlap * lc.BlastForce))
	}

	n := max(minShrapnel, int(math.Round(r*lc.ShrapnelPerRadius)))
	decay := 0.0
	if lc.ShrapnelLifetime > 0 {
		decay = lc.ShrapnelHP / lc.ShrapnelLifetime
	}
	shards := make([]entity.ID, 0, n)
	for i := range n {
		dir := physics.Heading(float64(i) * 360 / float64(n))
		shard := &entity.Projectile{
			Body: physics.Body{
				Position: bomb.Position.Add(dir.Scale(r)),
				Velocity: bomb.Velocity.Add(dir.Scale(lc.ShrapnelSpeed)),
				Rot:      physics.HeadingAngle(dir),
				Weight:   bomb.Weight / float64(n),
				Radius:   r / 4,
				HP:       lc.ShrapnelHP,
				MaxHP:    lc.ShrapnelHP,
				HPRegen:  -decay,
			},
			Type:  entity.Bullet,
			Firer: bomb.Firer,
		}
		sid, err := g.world.AddProjectile(shard)
		if err != nil {
			g.logger.Warn(context.Background(), "dropping shrapnel", "bomb", id.Short(), "error", err.Error())
			continue
		}
		shards = append(shards, sid)
	}
	g.emit(event.NewSpawnEvent(event.ProjectileExploded, g, id, shards))
}

// spawnInfections creates the drones queued during collision resolution.
// Each takes its stats from the firer's drone turret.
func (g *Game) spawnInfections() {
	for _, inf := range g.tick.infections {
		firer, ok := g.world.Tank(inf.firer)
		if !ok {
			continue
		}
		tr := droneTurret(firer)
		if tr == nil {
			continue
		}
		drone := &entity.Projectile{
			Body: physics.Body{
				Position: inf.at,
				Velocity: inf.vel,
				Rot:      physics.HeadingAngle(firer.AimPoint.Sub(inf.at)),
				Weight:   tr.ProjectileWeight,
				Radius:   tr.ProjectileRadius,
				HP:       tr.ProjectileHP,
				MaxHP:    tr.ProjectileHP,
				HPRegen:  tr.ProjectileRegen,
			},
			Type:  entity.Drone,
			Firer: inf.firer,
		}
		pid, err := g.world.AddProjectile(drone)
		if err != nil {
			g.logger.Warn(context.Background(), "dropping infected drone", "tank", inf.firer.Short(), "error", err.Error())
			continue
		}
		g.emit(event.NewSpawnEvent(event.DroneInfected, g, inf.shape, []entity.ID{pid}))
	}
	g.tick.infections = nil
}

func droneTurret(t *entity.Tank) *entity.Turret {
	for i := range t.Turrets {
		if t.Turrets[i].Kind == entity.Drone {
			return &t.Turrets[i]
		}
	}
	return nil
}

// spawnShapes tops the shape population up toward the arena's target,
// a bounded number per tick. It returns the number spawned.
func (g *Game) spawnShapes() int {
	sp := g.Config.Spawning
	n := min(g.Config.TargetShapes()-len(g.world.Shapes), sp.MaxSpawnsPerTick)
	if n <= 0 {
		return 0
	}

	weights := make([]float64, len(spawnKinds))
	for i, k := range spawnKinds {
		weights[i] = sp.ShapeWeights[k.String()]
	}

	h := g.Config.MapHalfExtent
	spawned := 0
	for range n {
		i := g.rng.Pick(weights)
		if i < 0 {
			break
		}
		kind := spawnKinds[i]
		scale := math.Max(minSpawnScale, math.Min(maxSpawnScale, g.rng.Gaussian(1, sp.SizeStdDev)))
		pos := physics.Vector2D{X: g.rng.Range(-h, h), Y: g.rng.Range(-h, h)}

		var s *entity.Shape
		if sp.GrowthMode {
			s = entity.NewGrowingShape(kind, pos, scale)
		} else {
			s = entity.NewMatureShape(kind, pos, scale)
		}
		s.Rot = g.rng.Range(0, 360)

		id, err := g.world.AddShape(s)
		if err != nil {
			g.logger.Warn(context.Background(), "dropping spawned shape", "kind", kind.String(), "error", err.Error())
			continue
		}
		g.logger.Debug(context.Background(), "shape spawned", "id", id.Short(), "kind", kind.String(), "scale", scale)
		g.emit(event.NewEntityEvent(event.ShapeSpawned, g, id, s))
		spawned++
	}
	return spawned
}
