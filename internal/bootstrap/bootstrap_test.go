package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRegistrar struct {
	installed bool
	activated bool
	ready     bool
}

func (r *fakeRegistrar) Install(ctx context.Context)  { r.installed = true }
func (r *fakeRegistrar) Activate(ctx context.Context) { r.activated = true }
func (r *fakeRegistrar) Ready() bool                  { return r.ready }

func TestRegisterSuccess(t *testing.T) {
	reg := &fakeRegistrar{ready: true}
	b := New(reg, slog.Default(), 3, time.Millisecond)

	assert.True(t, b.Register(context.Background()))
	assert.True(t, reg.installed)
	assert.True(t, reg.activated)
}

func TestRegisterFailureIsNotFatal(t *testing.T) {
	reg := &fakeRegistrar{ready: false}
	b := New(reg, slog.Default(), 3, time.Millisecond)

	assert.False(t, b.Register(context.Background()))
	assert.True(t, reg.installed)
}

func TestRemoveSplashRetriesUntilSuccess(t *testing.T) {
	b := New(&fakeRegistrar{}, slog.Default(), 5, time.Millisecond)

	calls := 0
	b.RemoveSplash(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not rendered yet")
		}
		return nil
	})
	assert.Equal(t, 3, calls)
}

func TestRemoveSplashGivesUpAfterAttempts(t *testing.T) {
	b := New(&fakeRegistrar{}, slog.Default(), 3, time.Millisecond)

	calls := 0
	b.RemoveSplash(context.Background(), func() error {
		calls++
		return errors.New("stuck")
	})
	assert.Equal(t, 3, calls)
}

func TestRemoveSplashStopsOnContextCancel(t *testing.T) {
	b := New(&fakeRegistrar{}, slog.Default(), 10, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	b.RemoveSplash(ctx, func() error {
		calls++
		return errors.New("stuck")
	})
	assert.Equal(t, 1, calls)
}
