// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-arena/pkg/physics"
)

// Kind partitions the entity store.
type Kind int

const (
	KindTank Kind = iota
	KindShape
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindTank:
		return "tank"
	case KindShape:
		return "shape"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Entity is the behavior shared by tanks, shapes and projectiles.
type Entity interface {
	Kind() Kind
	PhysicsBody() *physics.Body
	// Tag names the entity's look: a class name for tanks, the behavior
	// tag for shapes and projectiles.
	Tag() string
}

func (t *Tank) Kind() Kind                 { return KindTank }
func (t *Tank) PhysicsBody() *physics.Body { return &t.Body }
func (t *Tank) Tag() string                { return t.Class }

func (s *Shape) Kind() Kind                 { return KindShape }
func (s *Shape) PhysicsBody() *physics.Body { return &s.Body }
func (s *Shape) Tag() string                { return s.Type.String() }

func (p *Projectile) Kind() Kind                 { return KindProjectile }
func (p *Projectile) PhysicsBody() *physics.Body { return &p.Body }
func (p *Projectile) Tag() string                { return p.Type.String() }
