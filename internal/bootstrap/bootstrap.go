package bootstrap

import (
	"context"
	"log/slog"
	"time"
)

// Registrar drives the delivery agent through registration. Satisfied by
// agent.Lifecycle.
type Registrar interface {
	Install(ctx context.Context)
	Activate(ctx context.Context)
	Ready() bool
}

// SplashRemover tears down the startup splash overlay. Returns an error
// while the UI is not ready to drop it yet.
type SplashRemover func() error

// Bootstrap performs the one-time startup sequence: register the delivery
// agent at root scope, then retire the splash screen.
type Bootstrap struct {
	registrar      Registrar
	logger         *slog.Logger
	splashAttempts int
	splashDelay    time.Duration
}

func New(registrar Registrar, logger *slog.Logger, splashAttempts int, splashDelay time.Duration) *Bootstrap {
	if splashAttempts <= 0 {
		splashAttempts = 3
	}
	if splashDelay <= 0 {
		splashDelay = 500 * time.Millisecond
	}
	return &Bootstrap{
		registrar:      registrar,
		logger:         logger,
		splashAttempts: splashAttempts,
		splashDelay:    splashDelay,
	}
}

// Register installs and activates the agent and waits for it to control its
// tabs. A failed registration is logged and reported, never fatal: the app
// stays usable without push support.
func (b *Bootstrap) Register(ctx context.Context) bool {
	b.registrar.Install(ctx)
	b.logger.Info("delivery agent registered at root scope")

	b.registrar.Activate(ctx)
	if !b.registrar.Ready() {
		b.logger.Warn("delivery agent did not become ready, continuing without push")
		return false
	}
	b.logger.Info("delivery agent ready")
	return true
}

// RemoveSplash retires the startup splash on a short retry schedule. Render
// completion races with teardown, so a few attempts are made and every
// failure is swallowed.
func (b *Bootstrap) RemoveSplash(ctx context.Context, remove SplashRemover) {
	for attempt := 1; attempt <= b.splashAttempts; attempt++ {
		if err := remove(); err == nil {
			return
		}
		if attempt == b.splashAttempts {
			return
		}
		timer := time.NewTimer(b.splashDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
