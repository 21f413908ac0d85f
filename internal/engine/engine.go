package engine

import (
	"log/slog"

	"github.com/asynkron/protoactor-go/actor"

	"kaul/internal/engine/actors"
	"kaul/internal/store"
	"kaul/internal/utils"
)

// Engine coordinates communication between actors. Each persisted document
// is owned by exactly one actor, so the actor mailboxes serialize all
// read-modify-write cycles against the store.
type Engine struct {
	voteActor    *actor.PID
	counterActor *actor.PID
}

// NewEngine spawns the vote and counter actors on the given system.
func NewEngine(system *actor.ActorSystem, st store.Store, metrics *utils.MetricsCollector, logger *slog.Logger) *Engine {
	context := system.Root

	voteProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewVoteActor(st, metrics, logger)
	})
	votePID := context.Spawn(voteProps)

	counterProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCounterActor(st, metrics, logger)
	})
	counterPID := context.Spawn(counterProps)

	return &Engine{
		voteActor:    votePID,
		counterActor: counterPID,
	}
}

// GetVoteActor returns the PID of the vote actor
func (e *Engine) GetVoteActor() *actor.PID {
	return e.voteActor
}

// GetCounterActor returns the PID of the counter actor
func (e *Engine) GetCounterActor() *actor.PID {
	return e.counterActor
}
