package controller

import (
	"testing"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/random"
)

var (
	selfID   = entity.ID{1}
	tankID   = entity.ID{2}
	shapeID  = entity.ID{3}
	growID   = entity.ID{4}
	bulletID = entity.ID{5}
)

func state(id entity.ID, kind entity.Kind, x, y float64) engine.EntityState {
	return engine.EntityState{ID: id, Kind: kind, Position: physics.Vector2D{X: x, Y: y}, Radius: 10, HPRatio: 1}
}

func snapshot(tick uint64, states ...engine.EntityState) *engine.Snapshot {
	return &engine.Snapshot{Tick: tick, HalfExtent: 2000, Entities: states}
}

func TestBot_TargetSelection(t *testing.T) {
	me := state(selfID, entity.KindTank, 0, 0)
	growing := state(growID, entity.KindShape, 10, 0)
	growing.Growing = true
	own := state(bulletID, entity.KindProjectile, 5, 0)
	own.Owner = entity.Some(selfID)

	tests := []struct {
		name     string
		behavior Behavior
		states   []engine.EntityState
		want     entity.OptionalID
	}{
		{
			name:     "nearest shape",
			behavior: BehaviorFarmer,
			states:   []engine.EntityState{me, state(shapeID, entity.KindShape, 300, 0), state(tankID, entity.KindTank, 100, 0)},
			want:     entity.Some(shapeID),
		},
		{
			name:     "aggressor prefers a tank",
			behavior: BehaviorAggressor,
			states:   []engine.EntityState{me, state(shapeID, entity.KindShape, 300, 0), state(tankID, entity.KindTank, 500, 0)},
			want:     entity.Some(tankID),
		},
		{
			name:     "growing shapes and own projectiles ignored",
			behavior: BehaviorAggressor,
			states:   []engine.EntityState{me, growing, own},
			want:     entity.None(),
		},
		{
			name:     "alone",
			behavior: BehaviorAggressor,
			states:   []engine.EntityState{me},
			want:     entity.None(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := NewBot(tt.behavior, random.New(1))
			bot.Command(snapshot(0, tt.states...), selfID)
			if got := bot.Target(); got != tt.want {
				t.Errorf("Target() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBot_ChasesAndFires(t *testing.T) {
	bot := NewBot(BehaviorFarmer, random.New(1))

	far := bot.Command(snapshot(0, state(selfID, entity.KindTank, 0, 0), state(shapeID, entity.KindShape, 0, -2000)), selfID)
	if far.Fire {
		t.Error("fired at a target out of range")
	}
	if far.Move != (physics.Vector2D{Y: -1}) || far.Aim != (physics.Vector2D{Y: -2000}) {
		t.Errorf("far command = %+v", far)
	}

	near := bot.Command(snapshot(1, state(selfID, entity.KindTank, 0, 0), state(shapeID, entity.KindShape, 100, 0)), selfID)
	if !near.Fire {
		t.Error("held fire at a target in range")
	}
	if near.Move.X >= 0 {
		t.Errorf("bot should back away from a close target, move = %v", near.Move)
	}
}

func TestBot_StaleTargetReplaced(t *testing.T) {
	bot := NewBot(BehaviorAggressor, random.New(1))
	me := state(selfID, entity.KindTank, 0, 0)
	other := entity.ID{9}

	bot.Command(snapshot(0, me, state(tankID, entity.KindTank, 100, 0), state(other, entity.KindTank, 400, 0)), selfID)
	if bot.Target() != entity.Some(tankID) {
		t.Fatalf("Target() = %v, want %v", bot.Target(), tankID)
	}

	// the target died between ticks
	cmd := bot.Command(snapshot(1, me, state(other, entity.KindTank, 400, 0)), selfID)
	if bot.Target() != entity.Some(other) {
		t.Errorf("Target() = %v, want %v", bot.Target(), other)
	}
	if cmd.Aim != (physics.Vector2D{X: 400}) {
		t.Errorf("Aim = %v, want the new target", cmd.Aim)
	}
}

func TestBot_MissingSelf(t *testing.T) {
	bot := NewBot(BehaviorAggressor, random.New(1))
	cmd := bot.Command(snapshot(0, state(tankID, entity.KindTank, 0, 0)), selfID)
	if cmd != (engine.Command{}) || bot.Target().IsSome() {
		t.Errorf("dead bot produced %+v, target %v", cmd, bot.Target())
	}
}

func TestBot_RoamsHomeFromEdge(t *testing.T) {
	bot := NewBot(BehaviorFarmer, random.New(1))
	cmd := bot.Command(snapshot(0, state(selfID, entity.KindTank, 1900, 0)), selfID)
	if cmd.Move.X >= 0 || cmd.Fire {
		t.Errorf("roaming command at the edge = %+v", cmd)
	}
}

func TestIdle(t *testing.T) {
	me := state(selfID, entity.KindTank, 10, 10)
	me.Rotation = 90
	cmd := Idle{}.Command(snapshot(0, me), selfID)
	if cmd.Fire || cmd.Move != (physics.Vector2D{}) {
		t.Errorf("Idle command = %+v", cmd)
	}
	if cmd.Aim.X <= me.Position.X {
		t.Errorf("Idle should aim along its facing, got %v", cmd.Aim)
	}
}

func TestGather(t *testing.T) {
	snap := snapshot(0, state(selfID, entity.KindTank, 0, 0))
	calls := 0
	fire := Func(func(*engine.Snapshot, entity.ID) engine.Command {
		calls++
		return engine.Command{Fire: true}
	})

	cmds := Gather(snap, map[entity.ID]Controller{selfID: fire, tankID: fire})
	if len(cmds) != 1 || !cmds[selfID].Fire || calls != 1 {
		t.Errorf("Gather() = %v after %d calls", cmds, calls)
	}
}
