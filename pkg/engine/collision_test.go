package engine

import (
	"math"
	"testing"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
	"github.com/opd-ai/go-arena/pkg/physics"
)

func addProjectile(t *testing.T, g *Game, kind entity.ProjectileKind, firer entity.ID, pos physics.Vector2D, hp float64) *entity.Projectile {
	t.Helper()
	p := &entity.Projectile{
		Body:  physics.Body{Position: pos, Weight: 1, Radius: 5, HP: hp, MaxHP: hp},
		Type:  kind,
		Firer: firer,
	}
	if _, err := g.World().AddProjectile(p); err != nil {
		t.Fatalf("AddProjectile() error = %v", err)
	}
	return p
}

func TestStep_MagnetBombPullsTowardContact(t *testing.T) {
	tests := []struct {
		name     string
		kind     entity.ProjectileKind
		wantSign float64
	}{
		{"bullet_bounces_away", entity.Bullet, 1},
		{"mbomb_sticks", entity.MBomb, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, testConfig())
			firerID, _ := spawnTank(t, g, "basic", physics.Vector2D{X: 1000, Y: 1000})
			_, shape := addBody(t, g, physics.Vector2D{}, 5, 20, 1e6)
			p := addProjectile(t, g, tt.kind, firerID, physics.Vector2D{X: 10}, 1e6)

			g.Step(0.1, nil)

			if p.Velocity.X*tt.wantSign <= 0 {
				t.Errorf("%v velocity = %v, want x sign %v", tt.kind, p.Velocity, tt.wantSign)
			}
			// the shape is pushed away from the projectile either way
			if shape.Velocity.X >= 0 {
				t.Errorf("shape velocity = %v, want it pushed toward -x", shape.Velocity)
			}
		})
	}
}

func TestStep_PositionOnlyProjectilePairs(t *testing.T) {
	tests := []struct {
		name       string
		a, b       entity.ProjectileKind
		sameFirer  bool
		wantDamage bool
	}{
		{"trap_vs_bullet", entity.Trap, entity.Bullet, false, false},
		{"trapbomb_vs_bullet", entity.TrapBomb, entity.Bullet, false, false},
		{"bomb_vs_bullet", entity.Bomb, entity.Bullet, false, false},
		{"sibling_bullets", entity.Bullet, entity.Bullet, true, false},
		{"foreign_bullets", entity.Bullet, entity.Bullet, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, testConfig())
			firerA, _ := spawnTank(t, g, "basic", physics.Vector2D{X: -1000, Y: 1000})
			firerB, _ := spawnTank(t, g, "basic", physics.Vector2D{X: 1000, Y: 1000})
			if tt.sameFirer {
				firerB = firerA
			}
			a := addProjectile(t, g, tt.a, firerA, physics.Vector2D{X: -4}, 10)
			b := addProjectile(t, g, tt.b, firerB, physics.Vector2D{X: 4}, 10)

			g.Step(0.1, nil)

			damaged := a.HP < 10 || b.HP < 10
			if damaged != tt.wantDamage {
				t.Errorf("hp after contact a=%v b=%v, want damage %v", a.HP, b.HP, tt.wantDamage)
			}
			if a.Velocity.X >= 0 || b.Velocity.X <= 0 {
				t.Errorf("velocities a=%v b=%v, want them pushed apart", a.Velocity, b.Velocity)
			}
		})
	}
}

func TestStep_ShapeKillCreditedOnce(t *testing.T) {
	g := newTestGame(t, testConfig())
	killerID, killer := spawnTank(t, g, "basic", physics.Vector2D{X: 500})
	shapeID, shape := addBody(t, g, physics.Vector2D{}, 5, 20, 0.001)
	want := shape.Area() * g.Config.Lifecycle.ShapeXPPerArea

	// two bullets from the same tank hit the shape in the same tick
	addProjectile(t, g, entity.Bullet, killerID, physics.Vector2D{Y: 10}, 10)
	addProjectile(t, g, entity.Bullet, killerID, physics.Vector2D{Y: -10}, 10)
	awards := collect(g, event.XPAwarded)

	g.Step(0.1, nil)

	if _, ok := g.World().Shape(shapeID); ok {
		t.Fatal("shape survived")
	}
	if math.Abs(killer.XP-want) > epsilon {
		t.Errorf("killer XP = %v, want area x rate = %v", killer.XP, want)
	}
	if len(*awards) != 1 {
		t.Fatalf("got %d xp events, want 1", len(*awards))
	}
	ev := (*awards)[0].(*event.XPEvent)
	if ev.TankID != killerID || ev.Victim != shapeID {
		t.Errorf("xp event = %+v", ev)
	}
}

func TestStep_GrowingShapeKillGivesNoXP(t *testing.T) {
	g := newTestGame(t, testConfig())
	killerID, killer := spawnTank(t, g, "basic", physics.Vector2D{X: 500})
	shapeID, err := g.AddShape(entity.Square, physics.Vector2D{}, true)
	if err != nil {
		t.Fatal(err)
	}
	shape, _ := g.World().Shape(shapeID)
	shape.Age = 1
	shape.HP = 0.001
	shape.HPRegen = 0

	addProjectile(t, g, entity.Bullet, killerID, physics.Vector2D{Y: 3}, 10)
	awards := collect(g, event.XPAwarded)

	g.Step(0.1, nil)

	if _, ok := g.World().Shape(shapeID); ok {
		t.Fatal("growing shape survived")
	}
	if killer.XP != 0 || len(*awards) != 0 {
		t.Errorf("killer XP = %v with %d awards, want none", killer.XP, len(*awards))
	}
}

func TestStep_InfectionRespectsDroneLimit(t *testing.T) {
	tests := []struct {
		name         string
		kind         entity.ShapeKind
		maxDrones    int
		existing     int
		wantInfected int
	}{
		{"under_limit", entity.Triangle, 5, 0, 2},
		{"pending_infection_counts", entity.Triangle, 1, 0, 1},
		{"existing_drone_counts", entity.Triangle, 2, 1, 1},
		{"at_limit", entity.Triangle, 1, 1, 0},
		{"kind_not_infected", entity.Square, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, testConfig())
			id, tank := spawnTank(t, g, "infector", physics.Vector2D{Y: -1000})
			tank.MaxDrones = tt.maxDrones
			for i := range tank.Turrets {
				tank.Turrets[i].Cooldown = 100
			}
			for i := range tt.existing {
				addProjectile(t, g, entity.Drone, id, physics.Vector2D{X: 1500, Y: 1500 - float64(i)*100}, 10)
			}

			for _, x := range []float64{-600, 600} {
				sid, err := g.AddShape(tt.kind, physics.Vector2D{X: x}, false)
				if err != nil {
					t.Fatal(err)
				}
				s, _ := g.World().Shape(sid)
				s.HP = 0.001
				s.HPRegen = 0
				addProjectile(t, g, entity.Bullet, id, physics.Vector2D{X: x, Y: 10}, 10)
			}
			infected := collect(g, event.DroneInfected)

			g.Step(0.1, nil)

			if len(g.World().Shapes) != 0 {
				t.Fatalf("%d shapes survived", len(g.World().Shapes))
			}
			if len(*infected) != tt.wantInfected {
				t.Errorf("got %d infections, want %d", len(*infected), tt.wantInfected)
			}
			if got, want := g.ownedDrones(tank), tt.existing+tt.wantInfected; got != want {
				t.Errorf("infector owns %d drones, want %d", got, want)
			}
		})
	}
}
