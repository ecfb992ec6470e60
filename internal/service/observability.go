package service

import (
	"io"
	"log/slog"
)

// EngineEvent captures lightweight telemetry from the session engine:
// state transitions, award settlements and best-effort failures.
type EngineEvent struct {
	Name   string
	Fields map[string]any
	Err    error
}

// EngineObserver receives engine events.
type EngineObserver interface {
	ObserveEngine(event EngineEvent)
}

// NoopEngineObserver ignores all events.
type NoopEngineObserver struct{}

func (NoopEngineObserver) ObserveEngine(EngineEvent) {}

type logEngineObserver struct {
	logger *slog.Logger
}

// NewLogEngineObserver writes engine events to the provided writer.
func NewLogEngineObserver(w io.Writer) EngineObserver {
	if w == nil {
		return NoopEngineObserver{}
	}
	return &logEngineObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logEngineObserver) ObserveEngine(event EngineEvent) {
	attrs := make([]any, 0, 4+len(event.Fields)*2)
	attrs = append(attrs, "event", event.Name)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.Error("session_engine", attrs...)
		return
	}
	o.logger.Info("session_engine", attrs...)
}

func engineObserverOrNoop(observers []EngineObserver) EngineObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopEngineObserver{}
}
