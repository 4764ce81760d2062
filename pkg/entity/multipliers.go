// pkg/entity/multipliers.go
package entity

// Multipliers scale a tank's class stats by its upgrade levels. The levels
// themselves are computed outside the simulation; a zero field means 1x.
type Multipliers struct {
	BodyHP            float64 `json:"body_hp,omitempty"`
	Regen             float64 `json:"regen,omitempty"`
	Movement          float64 `json:"movement,omitempty"`
	Reload            float64 `json:"reload,omitempty"`
	ProjectileImpulse float64 `json:"projectile_impulse,omitempty"`
	ProjectileHP      float64 `json:"projectile_hp,omitempty"`
	ProjectileWeight  float64 `json:"projectile_weight,omitempty"`
	ProjectileRadius  float64 `json:"projectile_radius,omitempty"`
}

// factor maps the zero value to 1.
func factor(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
