// Command tab runs a simulated application tab against a push relay: it
// attaches to the hub, reacts to messages the way the real UI would and can
// inject a test push to verify the full delivery path.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/router"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/tabclient"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/logger"
)

type logNavigator struct{ logger *slog.Logger }

func (n *logNavigator) Navigate(path string) {
	n.logger.Info("navigating", slog.String("path", path))
}

type logAudio struct{ logger *slog.Logger }

func (a *logAudio) Unlock() error {
	a.logger.Info("audio unlocked")
	return nil
}

func (a *logAudio) Play() {
	a.logger.Info("playing notification sound")
}

type logToasts struct{ logger *slog.Logger }

func (t *logToasts) Dispatch(ev router.ToastEvent) {
	t.logger.Info("toast",
		slog.String("title", ev.Title),
		slog.String("body", ev.Body),
		slog.String("url", ev.URL),
	)
}

type logFocuser struct{ logger *slog.Logger }

func (f *logFocuser) Focus() {
	f.logger.Info("tab focused")
}

func main() {
	logr := logger.New(getEnv("LOG_LEVEL", "info"))
	wsURL := getEnv("RELAY_WS_URL", "ws://localhost:8082/ws")

	r := router.New(
		&logNavigator{logger: logr},
		&logAudio{logger: logr},
		&logToasts{logger: logr},
		logr,
	)
	// A terminal has no autoplay policy, so unlock right away as if the
	// user had already interacted with the page.
	r.HandleGesture()

	client := tabclient.New(r, &logFocuser{logger: logr}, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if getEnv("TAB_SIMULATE", "") == "1" {
		go func() {
			time.Sleep(time.Second)
			if err := client.Simulate(message.ClientMessage{Type: message.TypePushReceived}); err != nil {
				logr.Warn("simulation send failed", slog.Any("error", err))
			}
		}()
	}

	if err := client.Connect(ctx, wsURL); err != nil && ctx.Err() == nil {
		log.Fatalf("tab connection failed: %v", err)
	}
	logr.Info("tab closed")
}

func getEnv(key, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}
