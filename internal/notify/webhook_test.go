package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookCenterShow(t *testing.T) {
	var gotPath, gotAuth string
	var gotNotification Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotNotification))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	center := NewWebhookCenter(srv.URL, "secret", time.Second, slog.Default())
	n := Notification{
		ID:    "n1",
		Title: "Nuevo mensaje",
		Body:  "Hola!",
		Icon:  IconPath,
		Badge: BadgePath,
		Data:  Data{URL: "/partidos?openChat=42", MatchID: "42"},
	}
	require.NoError(t, center.Show(context.Background(), n))

	assert.Equal(t, "POST /v1/notifications", gotPath)
	assert.Equal(t, "key=secret", gotAuth)
	assert.Equal(t, n, gotNotification)
}

func TestWebhookCenterShowDaemonError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	center := NewWebhookCenter(srv.URL, "", time.Second, slog.Default())
	assert.Error(t, center.Show(context.Background(), Notification{ID: "n1"}))
}

func TestWebhookCenterClose(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	center := NewWebhookCenter(srv.URL, "", time.Second, slog.Default())
	require.NoError(t, center.Close(context.Background(), "n1"))
	assert.Equal(t, "DELETE /v1/notifications/n1", gotPath)
}

func TestWebhookCenterCloseToleratesMissingNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	center := NewWebhookCenter(srv.URL, "", time.Second, slog.Default())
	assert.NoError(t, center.Close(context.Background(), "already-gone"))
}
