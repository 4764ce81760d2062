// pkg/evolution/defaults.go
package evolution

import (
	"math"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// DefaultClass is the class new tanks start as.
const DefaultClass = "basic"

const evolveCost = 1000

type barrel struct {
	impulse, weight, radius, regen, hp, reload, inaccuracy float64
	x, y, dir                                              float64
	kind                                                   entity.ProjectileKind
}

func (b barrel) turret() entity.Turret {
	return entity.Turret{
		Impulse:          b.impulse,
		ProjectileWeight: b.weight,
		ProjectileRadius: b.radius,
		ProjectileRegen:  b.regen,
		ProjectileHP:     b.hp,
		Reload:           b.reload,
		Inaccuracy:       b.inaccuracy,
		Offset:           physics.Vector2D{X: b.x, Y: b.y},
		Direction:        b.dir,
		Kind:             b.kind,
	}
}

func turrets(bs ...barrel) []entity.Turret {
	out := make([]entity.Turret, len(bs))
	for i, b := range bs {
		out[i] = b.turret()
	}
	return out
}

func class(name string, body BodyStats, power, rotPower float64, ts []entity.Turret, promotions ...string) ClassTemplate {
	return ClassTemplate{
		Name:       name,
		Body:       body,
		Power:      power,
		RotPower:   rotPower,
		Turrets:    ts,
		Promotions: promotions,
		Cost:       evolveCost,
	}
}

// shotgunTurrets fans 41 barrels across four degrees.
func shotgunTurrets() []entity.Turret {
	out := make([]entity.Turret, 0, 41)
	for a := 0; a < 41; a++ {
		angle := float64(a-20) / 10
		sin, cos := math.Sincos(angle * math.Pi / 180)
		out = append(out, barrel{
			impulse: 8000, weight: 8, radius: 5, regen: -2, hp: 2, reload: 6, inaccuracy: 6,
			x: sin * 50, y: -cos * 50, dir: angle,
		}.turret())
	}
	return out
}

// DefaultTemplates returns the built-in class table.
func DefaultTemplates() []ClassTemplate {
	crossBarrel := barrel{impulse: 2000, weight: 3, radius: 15, regen: -2, hp: 5, reload: 1, inaccuracy: 1}
	antBarrel := barrel{impulse: 1000, weight: 3, radius: 10, regen: -0.5, hp: 5, reload: 1.6, inaccuracy: 1, kind: entity.Drone}
	tribomb := barrel{impulse: 5000, weight: 20, radius: 28, regen: -3, hp: 15, reload: 9, inaccuracy: 1, kind: entity.Bomb}
	trapSpawn := barrel{impulse: 16000, weight: 50, radius: 4, regen: -3, hp: 50, reload: 1.2, inaccuracy: 4, kind: entity.Trap}

	with := func(b barrel, x, y, dir float64) barrel {
		b.x, b.y, b.dir = x, y, dir
		return b
	}

	templates := []ClassTemplate{
		class("basic", BodyStats{Weight: 20, Radius: 30, HP: 20, Regen: 1}, 3000, 50,
			turrets(barrel{impulse: 2000, weight: 3, radius: 12, regen: -1.5, hp: 3, reload: 1, inaccuracy: 1, y: -52}),
			"double", "sniper", "bomber", "trapper", "spawner"),

		class("double", BodyStats{Weight: 25, Radius: 40, HP: 25, Regen: 1.1}, 3000, 50,
			turrets(
				barrel{impulse: 1300, weight: 2.15, radius: 11, regen: -1.1, hp: 2.15, reload: 1, inaccuracy: 2, x: -20, y: -50},
				barrel{impulse: 1300, weight: 2.15, radius: 11, regen: -1.1, hp: 2.15, reload: 1, inaccuracy: 2, x: 20, y: -50},
			),
			"hailstorm", "triple", "cross"),

		class("triple", BodyStats{Weight: 30, Radius: 50, HP: 30, Regen: 1.2}, 3000, 50,
			turrets(
				barrel{impulse: 1200, weight: 2, radius: 10, regen: -1.1, hp: 2, reload: 1, inaccuracy: 1, x: -25, y: -55},
				barrel{impulse: 1200, weight: 2, radius: 10, regen: -1.1, hp: 2, reload: 1, inaccuracy: 1, y: -65},
				barrel{impulse: 1200, weight: 2, radius: 10, regen: -1.1, hp: 2, reload: 1, inaccuracy: 1, x: 25, y: -55},
			)),

		class("cross", BodyStats{Weight: 80, Radius: 60, HP: 80, Regen: 1.5}, 4500, 50,
			turrets(
				with(crossBarrel, 0, 0, 0),
				with(crossBarrel, 0, 0, 180),
				with(crossBarrel, 0, 0, 90),
				with(crossBarrel, 0, 0, 270),
			)),

		class("hailstorm", BodyStats{Weight: 100, Radius: 60, HP: 100, Regen: 3}, 4000, 50,
			turrets(barrel{impulse: 2000, weight: 2, radius: 10, regen: -2, hp: 3, reload: 0.2, inaccuracy: 5, y: -85})),

		class("spawner", BodyStats{Weight: 25, Radius: 40, HP: 25, Regen: 1}, 3000, 50,
			turrets(barrel{impulse: 2000, weight: 6, radius: 15, regen: -1.2, hp: 12, reload: 2, inaccuracy: 1, y: -52, kind: entity.Drone}),
			"infector", "anthill", "trapspawner"),

		class("anthill", BodyStats{Weight: 35, Radius: 50, HP: 35, Regen: 1}, 2500, 40,
			turrets(
				with(antBarrel, 0, 0, 0),
				with(antBarrel, 0, 0, 120),
				with(antBarrel, 0, 0, -120),
			),
			"infector", "anthill"),

		class("infector", BodyStats{Weight: 30, Radius: 45, HP: 30, Regen: 1}, 3500, 50,
			turrets(barrel{impulse: 2000, weight: 6, radius: 15, regen: -1.2, hp: 12, reload: 2.4, inaccuracy: 1, y: -52, kind: entity.Drone})),

		class("bomber", BodyStats{Weight: 40, Radius: 50, HP: 40, Regen: 1}, 4500, 80,
			turrets(barrel{impulse: 3000, weight: 30, radius: 32, regen: -5, hp: 25, reload: 7, inaccuracy: 1, y: -70, kind: entity.Bomb}),
			"trapbomber", "tribomber", "magnet bomber"),

		class("magnet bomber", BodyStats{Weight: 45, Radius: 50, HP: 45, Regen: 1.1}, 4500, 80,
			turrets(barrel{impulse: 3000, weight: 30, radius: 32, regen: -5, hp: 25, reload: 7, inaccuracy: 1, y: -80, kind: entity.MBomb}),
			"tribomber", "trapbomber"),

		class("tribomber", BodyStats{Weight: 50, Radius: 55, HP: 50, Regen: 1.1}, 4500, 80,
			turrets(
				with(tribomb, -15, -65, -10),
				with(tribomb, 0, -70, 0),
				with(tribomb, 15, -65, 10),
			)),

		class("trapper", BodyStats{Weight: 40, Radius: 45, HP: 40, Regen: 1}, 3000, 40,
			turrets(barrel{impulse: 20000, weight: 200, radius: 6, regen: -8, hp: 200, reload: 1.2, y: -65, kind: entity.Trap}),
			"trapbomber", "trapspawner", "barricade"),

		class("trapspawner", BodyStats{Weight: 45, Radius: 55, HP: 45, Regen: 1.1}, 3000, 40,
			turrets(
				with(trapSpawn, 0, 0, -120),
				with(trapSpawn, 0, 0, 120),
				barrel{impulse: 1000, weight: 3, radius: 12, regen: -0.5, hp: 6, reload: 1.8, inaccuracy: 1, y: -60, kind: entity.Drone},
			)),

		class("barricade", BodyStats{Weight: 55, Radius: 60, HP: 55, Regen: 1.2}, 3000, 40,
			turrets(barrel{impulse: 16000, weight: 50, radius: 4, regen: -3, hp: 50, reload: 0.3, inaccuracy: 10, y: -65, kind: entity.Trap})),

		class("trapbomber", BodyStats{Weight: 50, Radius: 50, HP: 50, Regen: 1.2}, 3000, 40,
			turrets(barrel{impulse: 10000, weight: 50, radius: 16, regen: -10, hp: 50, reload: 6, inaccuracy: 1, y: -80, kind: entity.TrapBomb})),

		class("sniper", BodyStats{Weight: 20, Radius: 35, HP: 20, Regen: 1.2}, 4000, 30,
			turrets(barrel{impulse: 32000, weight: 25, radius: 15, regen: -10, hp: 25, reload: 6, y: -60}),
			"hailstorm", "wide", "shotgun"),

		class("wide", BodyStats{Weight: 80, Radius: 65, HP: 80, Regen: 2}, 3000, 50,
			turrets(barrel{impulse: 60000, weight: 100, radius: 40, regen: -25, hp: 100, reload: 4, y: -90})),

		class("shotgun", BodyStats{Weight: 40, Radius: 50, HP: 40, Regen: 1.4}, 3500, 60,
			shotgunTurrets()),
	}

	drones := map[string]int{"spawner": 8, "anthill": 12, "infector": 10, "trapspawner": 6}
	for i := range templates {
		templates[i].MaxDrones = drones[templates[i].Name]
		if templates[i].Name == "infector" {
			templates[i].Infects = []entity.ShapeKind{entity.Triangle}
		}
	}
	return templates
}

// DefaultTree returns the built-in class table as a Tree.
func DefaultTree() *Tree {
	t, err := NewTree(DefaultTemplates())
	if err != nil {
		// the built-in table is static; failing here is a programming error
		panic(err)
	}
	return t
}
