// pkg/controller/bot.go
package controller

import (
	"math"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/random"
)

// Behavior selects what a bot hunts.
type Behavior int

const (
	BehaviorAggressor Behavior = iota // Prefers tanks, farms shapes otherwise
	BehaviorFarmer                    // Only shoots shapes
)

// String returns the behavior's flag name.
func (b Behavior) String() string {
	switch b {
	case BehaviorAggressor:
		return "aggressor"
	case BehaviorFarmer:
		return "farmer"
	default:
		return "unknown"
	}
}

// Bot defaults.
const (
	DefaultFireRange        = 900.0
	DefaultPreferredRange   = 350.0
	DefaultRetargetInterval = 60 // ticks
	// tanks count as this much closer than they are when an aggressor
	// picks a target
	tankPreference = 0.5
	wanderTurn     = 0.1
)

// Bot chases the nearest worthwhile target and shoots at it. The target is
// kept by id; once it disappears from the snapshot the bot simply picks a
// new one.
type Bot struct {
	Behavior         Behavior
	FireRange        float64
	PreferredRange   float64
	RetargetInterval uint64

	target     entity.OptionalID
	retargetAt uint64
	wander     physics.Vector2D
	rng        *random.Source
}

// NewBot creates a bot. rng drives its wandering while it has no target.
func NewBot(behavior Behavior, rng *random.Source) *Bot {
	if rng == nil {
		rng = random.NewFromTime()
	}
	return &Bot{
		Behavior:         behavior,
		FireRange:        DefaultFireRange,
		PreferredRange:   DefaultPreferredRange,
		RetargetInterval: DefaultRetargetInterval,
		target:           entity.None(),
		rng:              rng,
	}
}

// Target returns the id the bot is currently chasing.
func (b *Bot) Target() entity.OptionalID {
	return b.target
}

// Command implements Controller.
func (b *Bot) Command(snap *engine.Snapshot, self entity.ID) engine.Command {
	me, ok := snap.Find(self)
	if !ok {
		b.target = entity.None()
		return engine.Command{}
	}

	target, ok := b.resolveTarget(snap, me)
	if !ok {
		return b.roam(snap, me)
	}

	offset := target.Position.Sub(me.Position)
	dist := offset.Length()
	cmd := engine.Command{
		Aim:  target.Position,
		Fire: dist <= b.FireRange,
	}
	switch {
	case dist > b.PreferredRange:
		cmd.Move = offset.Normalize()
	case dist < b.PreferredRange/2:
		cmd.Move = offset.Normalize().Scale(-1)
	}
	return cmd
}

// resolveTarget returns the current target's state, choosing a new target
// when the old one is gone, no longer eligible, or due for review.
func (b *Bot) resolveTarget(snap *engine.Snapshot, me engine.EntityState) (engine.EntityState, bool) {
	if id, ok := b.target.Get(); ok && snap.Tick < b.retargetAt {
		if st, alive := snap.Find(id); alive && b.eligible(st, me.ID) {
			return st, true
		}
	}

	b.target = entity.None()
	best, found := b.nearest(snap, me)
	if !found {
		return engine.EntityState{}, false
	}
	b.target = entity.Some(best.ID)
	b.retargetAt = snap.Tick + b.RetargetInterval
	return best, true
}

func (b *Bot) nearest(snap *engine.Snapshot, me engine.EntityState) (engine.EntityState, bool) {
	var best engine.EntityState
	bestScore := math.Inf(1)
	for _, st := range snap.Entities {
		if !b.eligible(st, me.ID) {
			continue
		}
		score := st.Position.Distance(me.Position)
		if st.Kind == entity.KindTank {
			score *= tankPreference
		}
		if score < bestScore {
			best, bestScore = st, score
		}
	}
	return best, !math.IsInf(bestScore, 1)
}

// eligible reports whether st is something the bot may shoot at. Growing
// shapes are never targets.
func (b *Bot) eligible(st engine.EntityState, self entity.ID) bool {
	if st.ID == self {
		return false
	}
	switch st.Kind {
	case entity.KindShape:
		return !st.Growing
	case entity.KindTank:
		return b.Behavior == BehaviorAggressor
	default:
		return false
	}
}

// roam drifts in a slowly changing direction, steering back toward the
// center near the arena edge.
func (b *Bot) roam(snap *engine.Snapshot, me engine.EntityState) engine.Command {
	if b.wander == (physics.Vector2D{}) || b.rng.Float64() < wanderTurn {
		b.wander = physics.Heading(b.rng.Range(0, 360))
	}
	if h := snap.HalfExtent; h > 0 && (math.Abs(me.Position.X) > 0.8*h || math.Abs(me.Position.Y) > 0.8*h) {
		b.wander = me.Position.Scale(-1).Normalize()
	}
	return engine.Command{
		Move: b.wander,
		Aim:  me.Position.Add(b.wander.Scale(100)),
	}
}
