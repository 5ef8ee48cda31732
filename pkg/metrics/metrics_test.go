package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersAndSnapshot(t *testing.T) {
	m := New()
	m.IncPushes()
	m.IncPushes()
	m.AddTabsReached(3)
	m.IncNotifications()
	m.IncClicks()

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap["pushes"])
	assert.Equal(t, int64(3), snap["tabs_reached"])
	assert.Equal(t, int64(1), snap["notifications"])
	assert.Equal(t, int64(1), snap["clicks"])
	assert.Equal(t, int64(0), snap["windows_opened"])
}

func TestHandlerServesJSON(t *testing.T) {
	m := New()
	m.IncPushes()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"pushes": 1`)
}
