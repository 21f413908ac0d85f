package actors

import (
	"log/slog"
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"

	"kaul/internal/models"
	"kaul/internal/store"
	"kaul/internal/utils"
)

// IncrementCounterMsg bumps a named counter by one.
type IncrementCounterMsg struct {
	CounterID string
}

// CounterResult is the successful response to an IncrementCounterMsg.
type CounterResult struct {
	CounterID string
	Count     int
}

// CounterActor owns the legacy counter document.
type CounterActor struct {
	store   store.Store
	state   *models.CounterState
	metrics *utils.MetricsCollector
	logger  *slog.Logger
}

// NewCounterActor creates a CounterActor backed by the given store.
func NewCounterActor(st store.Store, metrics *utils.MetricsCollector, logger *slog.Logger) actor.Actor {
	return &CounterActor{
		store:   st,
		metrics: metrics,
		logger:  logger,
	}
}

func (a *CounterActor) ensureLoaded() *utils.AppError {
	if a.state != nil {
		return nil
	}
	state, err := a.store.ReadCounters(stdctx.Background())
	if err != nil {
		a.logger.Error("failed to load counter document", "error", err)
		return utils.NewStoreError("Failed to load counter data", err)
	}
	a.state = state
	return nil
}

func (a *CounterActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		if err := a.ensureLoaded(); err == nil {
			a.logger.Info("counter actor started", "counters", len(a.state.Counters))
		}

	case *IncrementCounterMsg:
		a.handleIncrement(context, msg)
	}
}

func (a *CounterActor) handleIncrement(context actor.Context, msg *IncrementCounterMsg) {
	startTime := time.Now()

	if appErr := a.ensureLoaded(); appErr != nil {
		context.Respond(appErr)
		return
	}

	counterID := msg.CounterID
	if counterID == "" {
		counterID = "default"
	}

	a.state.Counters[counterID]++
	if err := a.store.WriteCounters(stdctx.Background(), a.state); err != nil {
		// Roll the in-memory bump back so a later retry does not double count.
		a.state.Counters[counterID]--
		a.logger.Error("failed to persist counter", "counterId", counterID, "error", err)
		context.Respond(utils.NewStoreError("Failed to save counter", err))
		return
	}

	a.metrics.AddOperationLatency("increment_counter", time.Since(startTime))
	context.Respond(&CounterResult{
		CounterID: counterID,
		Count:     a.state.Counters[counterID],
	})
}
