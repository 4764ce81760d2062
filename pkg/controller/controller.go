// pkg/controller/controller.go
// Package controller decides what tanks do. A controller sees only the
// read-only snapshot of the previous tick, never the live world.
package controller

import (
	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// Controller produces one tank's command for the next tick.
type Controller interface {
	Command(snap *engine.Snapshot, self entity.ID) engine.Command
}

// Func adapts a plain function to the Controller interface.
type Func func(snap *engine.Snapshot, self entity.ID) engine.Command

// Command calls f.
func (f Func) Command(snap *engine.Snapshot, self entity.ID) engine.Command {
	return f(snap, self)
}

// Idle brakes, holds fire and keeps facing the same way.
type Idle struct{}

// Command implements Controller.
func (Idle) Command(snap *engine.Snapshot, self entity.ID) engine.Command {
	me, ok := snap.Find(self)
	if !ok {
		return engine.Command{}
	}
	return engine.Command{Aim: aheadOf(me)}
}

func aheadOf(st engine.EntityState) physics.Vector2D {
	return st.Position.Add(physics.Heading(st.Rotation).Scale(100))
}

// Gather asks every controller for its tank's command. Tanks missing from
// the snapshot are skipped.
func Gather(snap *engine.Snapshot, controllers map[entity.ID]Controller) map[entity.ID]engine.Command {
	commands := make(map[entity.ID]engine.Command, len(controllers))
	for id, c := range controllers {
		if _, ok := snap.Find(id); !ok {
			continue
		}
		commands[id] = c.Command(snap, id)
	}
	return commands
}
