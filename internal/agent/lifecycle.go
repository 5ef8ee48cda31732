package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State tracks where an agent generation is in its lifecycle.
type State int

const (
	StateInstalling State = iota
	StateActive
	StateControlling
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateActive:
		return "active"
	case StateControlling:
		return "controlling"
	default:
		return "unknown"
	}
}

// Claimer attaches every currently open tab to an agent generation.
// Satisfied by tabs.Hub.
type Claimer interface {
	ClaimAll(generation int64) int
}

// Lifecycle drives a new agent generation through install and activation.
// Install always skips the waiting stage so a new deployment takes over
// without requiring every tab to close; activation then claims tabs that
// attached before this generation existed.
type Lifecycle struct {
	claimer    Claimer
	logger     *slog.Logger
	generation int64

	mu    sync.Mutex
	state State
}

func NewLifecycle(claimer Claimer, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		claimer:    claimer,
		logger:     logger,
		generation: time.Now().UnixNano(),
		state:      StateInstalling,
	}
}

// Install moves the agent straight from installing to active. The waiting
// stage is intentionally skipped.
func (l *Lifecycle) Install(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateInstalling {
		return
	}
	l.state = StateActive
	l.logger.Info("agent installed, skipping waiting stage", slog.Int64("generation", l.generation))
}

// Activate claims all open tabs for this generation and moves to
// controlling.
func (l *Lifecycle) Activate(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateActive {
		return
	}
	claimed := l.claimer.ClaimAll(l.generation)
	l.state = StateControlling
	l.logger.Info("agent activated, claimed open tabs",
		slog.Int64("generation", l.generation),
		slog.Int("tabs", claimed),
	)
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Ready reports whether the agent controls its tabs.
func (l *Lifecycle) Ready() bool {
	return l.State() == StateControlling
}
