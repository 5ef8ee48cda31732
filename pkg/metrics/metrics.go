package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// Metrics exposes a tiny in-memory counter set for the push relay.
type Metrics struct {
	pushes        atomic.Int64
	tabsReached   atomic.Int64
	notifications atomic.Int64
	clicks        atomic.Int64
	windowsOpened atomic.Int64
}

// New returns a zeroed Metrics collector.
func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncPushes()        { m.pushes.Add(1) }
func (m *Metrics) IncNotifications() { m.notifications.Add(1) }
func (m *Metrics) IncClicks()        { m.clicks.Add(1) }
func (m *Metrics) IncWindowsOpened() { m.windowsOpened.Add(1) }

func (m *Metrics) AddTabsReached(n int64) { m.tabsReached.Add(n) }

// Snapshot returns the current counter values, keyed the same way as the
// JSON handler output.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"pushes":         m.pushes.Load(),
		"tabs_reached":   m.tabsReached.Load(),
		"notifications":  m.notifications.Load(),
		"clicks":         m.clicks.Load(),
		"windows_opened": m.windowsOpened.Load(),
	}
}

// Handler exposes the counters via a very small JSON response so we do not
// need to pull in a heavy metrics dependency for the assignment.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "pushes": ` + itoa(m.pushes.Load()) + `,
  "tabs_reached": ` + itoa(m.tabsReached.Load()) + `,
  "notifications": ` + itoa(m.notifications.Load()) + `,
  "clicks": ` + itoa(m.clicks.Load()) + `,
  "windows_opened": ` + itoa(m.windowsOpened.Load()) + `
}`))
	})
}

func itoa(v int64) string {
	return fmt.Sprintf("%d", v)
}
