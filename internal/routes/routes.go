package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/agent"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/tabs"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/metrics"
)

// NewRouter wires the relay's HTTP surface: health/metrics monitoring, the
// websocket endpoint tabs attach to, the notification daemon's click
// callback and the push simulation endpoint.
func NewRouter(deliveryAgent *agent.Agent, hub *tabs.Hub, metricsCollector *metrics.Metrics, started time.Time) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "push relay healthy",
			"meta": map[string]interface{}{
				"uptime_seconds": int(time.Since(started).Seconds()),
				"timestamp":      time.Now().UTC(),
			},
		})
	})
	mux.Handle("/metrics", metricsCollector.Handler())

	mux.HandleFunc("/ws", hub.Attach)

	mux.HandleFunc("/v1/notifications/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := clickTarget(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := deliveryAgent.HandleNotificationClick(r.Context(), id); err != nil {
			http.Error(w, "click handling failed", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/v1/push/simulate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var msg message.ClientMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, "invalid message", http.StatusBadRequest)
			return
		}
		if msg.Type == "" {
			msg.Type = message.TypePushReceived
		}
		deliveryAgent.HandleControl(r.Context(), msg)
		w.WriteHeader(http.StatusAccepted)
	})

	return mux
}

// clickTarget extracts the notification ID from
// /v1/notifications/{id}/click.
func clickTarget(path string) (string, bool) {
	rest := strings.TrimPrefix(path, "/v1/notifications/")
	id, verb, found := strings.Cut(rest, "/")
	if !found || verb != "click" || id == "" {
		return "", false
	}
	return id, true
}
