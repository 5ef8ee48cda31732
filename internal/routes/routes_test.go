package routes

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/agent"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/notify"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/tabs"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/metrics"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/retry"
)

type recordingTab struct {
	id     string
	posted []message.ClientMessage
}

func (t *recordingTab) ID() string { return t.id }

func (t *recordingTab) Post(ctx context.Context, msg message.ClientMessage) error {
	t.posted = append(t.posted, msg)
	return nil
}

func (t *recordingTab) Focus(ctx context.Context) error { return nil }

type recordingRegistry struct {
	tabs   []tabs.Tab
	opened []string
}

func (r *recordingRegistry) ListOpen(ctx context.Context) []tabs.Tab { return r.tabs }

func (r *recordingRegistry) OpenWindow(ctx context.Context, absoluteURL string) error {
	r.opened = append(r.opened, absoluteURL)
	return nil
}

type nopCenter struct{}

func (nopCenter) Show(ctx context.Context, n notify.Notification) error { return nil }
func (nopCenter) Close(ctx context.Context, id string) error            { return nil }

func newTestHandler(reg *recordingRegistry) http.Handler {
	deliveryAgent := agent.New(
		reg,
		nopCenter{},
		nil,
		nil,
		metrics.New(),
		slog.Default(),
		"https://gorilapadel.com",
		retry.Config{MaxAttempts: 1},
	)
	hub := tabs.NewHub(slog.Default(), nil)
	return NewRouter(deliveryAgent, hub, metrics.New(), time.Now())
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&recordingRegistry{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestSimulateEndpointBroadcastsTestPush(t *testing.T) {
	tab := &recordingTab{id: "t1"}
	reg := &recordingRegistry{tabs: []tabs.Tab{tab}}
	handler := newTestHandler(reg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/push/simulate", strings.NewReader(`{"type":"PUSH_RECEIVED"}`))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, tab.posted, 1)
	assert.Equal(t, message.TestTitle, tab.posted[0].Title)
	assert.Equal(t, message.TestBody, tab.posted[0].Body)
	assert.Equal(t, "/partidos", tab.posted[0].URL)
}

func TestSimulateEndpointRejectsBadJSON(t *testing.T) {
	handler := newTestHandler(&recordingRegistry{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/push/simulate", strings.NewReader(`{{`))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClickEndpointOpensWindowWhenNoTabs(t *testing.T) {
	reg := &recordingRegistry{}
	handler := newTestHandler(reg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/n1/click", nil)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"https://gorilapadel.com/partidos"}, reg.opened)
}

func TestClickEndpointRejectsMalformedPaths(t *testing.T) {
	handler := newTestHandler(&recordingRegistry{})
	for _, path := range []string{
		"/v1/notifications/n1",
		"/v1/notifications//click",
		"/v1/notifications/n1/other",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestClickTarget(t *testing.T) {
	tests := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{"/v1/notifications/abc/click", "abc", true},
		{"/v1/notifications/abc", "", false},
		{"/v1/notifications//click", "", false},
		{"/v1/notifications/abc/close", "", false},
	}
	for _, tt := range tests {
		id, ok := clickTarget(tt.path)
		assert.Equal(t, tt.wantOK, ok, tt.path)
		assert.Equal(t, tt.wantID, id, tt.path)
	}
}
