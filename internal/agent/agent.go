package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/notify"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/repository"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/tabs"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/metrics"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/retry"
)

// NotificationStore persists shown notifications for click read-back.
// Satisfied by repository.NotificationStore; may be nil, in which case
// clicks fall back to the default navigation target.
type NotificationStore interface {
	Save(ctx context.Context, n notify.Notification) error
	Load(ctx context.Context, id string) (notify.Notification, bool, error)
	Delete(ctx context.Context, id string) error
}

// Agent is the background delivery agent: it turns inbound pushes into a
// tab broadcast plus a system notification, and resolves notification
// clicks back into focus/navigate instructions for one tab.
type Agent struct {
	registry tabs.Registry
	center   notify.Center
	store    NotificationStore
	log      *repository.DeliveryLog
	metrics  *metrics.Metrics
	logger   *slog.Logger
	origin   string
	retryCfg retry.Config
}

func New(
	registry tabs.Registry,
	center notify.Center,
	store NotificationStore,
	log *repository.DeliveryLog,
	metricsCollector *metrics.Metrics,
	logger *slog.Logger,
	origin string,
	retryCfg retry.Config,
) *Agent {
	return &Agent{
		registry: registry,
		center:   center,
		store:    store,
		log:      log,
		metrics:  metricsCollector,
		logger:   logger,
		origin:   strings.TrimRight(origin, "/"),
		retryCfg: retryCfg,
	}
}

// HandlePush processes one inbound push event. Malformed bodies never fail:
// the payload degrades to its defaults. The broadcast and the system
// notification are both completed before the handler returns, so the push
// source only acknowledges once both side effects happened. Only a
// hard-down notification center surfaces as an error.
func (a *Agent) HandlePush(ctx context.Context, requestID string, body []byte) error {
	a.metrics.IncPushes()
	payload := message.ParsePushPayload(body).ApplyDefaults()

	delivered := a.Broadcast(ctx, message.PushReceived(payload))

	n := notify.Notification{
		ID:    uuid.NewString(),
		Title: payload.Title,
		Body:  payload.Body,
		Icon:  notify.IconPath,
		Badge: notify.BadgePath,
		Data: notify.Data{
			URL:     payload.URL,
			Type:    payload.Type,
			MatchID: payload.MatchID,
		},
	}

	if a.store != nil {
		if err := a.store.Save(ctx, n); err != nil {
			a.logger.Error("failed to store notification data", slog.String("notification_id", n.ID), slog.Any("error", err))
		}
	}

	showErr := retry.Do(ctx, a.retryCfg, func() error {
		return a.center.Show(ctx, n)
	})
	if showErr != nil {
		a.logger.Error("failed to show notification", slog.String("request_id", requestID), slog.Any("error", showErr))
		a.recordDelivery(ctx, requestID, "failed", delivered, false, showErr.Error())
		return showErr
	}

	a.metrics.IncNotifications()
	a.recordDelivery(ctx, requestID, "delivered", delivered, true, "")
	return nil
}

// HandleControl processes a message a tab sent into the agent. Only the
// PUSH_RECEIVED simulation is recognized; it is rebroadcast to every open
// tab with the test defaults filled in. Anything else is ignored.
func (a *Agent) HandleControl(ctx context.Context, msg message.ClientMessage) {
	if msg.Type != message.TypePushReceived {
		return
	}
	a.Broadcast(ctx, msg.ApplyTestDefaults())
}

// HandleNotificationClick reacts to the user interacting with a shown
// notification. The notification is closed first so it never goes stale in
// the tray. The first tab that can be focused receives PUSH_CLICKED followed
// by NAVIGATE; when no tab is reachable a new window is opened at the
// absolute target URL instead.
func (a *Agent) HandleNotificationClick(ctx context.Context, notificationID string) error {
	a.metrics.IncClicks()

	if err := a.center.Close(ctx, notificationID); err != nil {
		a.logger.Warn("failed to close notification", slog.String("notification_id", notificationID), slog.Any("error", err))
	}

	title, body, url := message.DefaultTitle, message.DefaultBody, message.DefaultURL
	if a.store != nil {
		stored, ok, err := a.store.Load(ctx, notificationID)
		if err != nil {
			a.logger.Error("failed to load notification data", slog.String("notification_id", notificationID), slog.Any("error", err))
		}
		if ok {
			if stored.Title != "" {
				title = stored.Title
			}
			if stored.Body != "" {
				body = stored.Body
			}
			if stored.Data.URL != "" {
				url = stored.Data.URL
			}
			_ = a.store.Delete(ctx, notificationID)
		}
	}

	clicked := message.PushClicked(title, body, url)
	navigate := message.Navigate(url)

	for _, tab := range a.registry.ListOpen(ctx) {
		if err := tab.Focus(ctx); err != nil {
			a.logger.Debug("tab could not be focused, skipping", slog.String("tab_id", tab.ID()), slog.Any("error", err))
			continue
		}
		if err := tab.Post(ctx, clicked); err != nil {
			a.logger.Debug("tab could not be messaged, skipping", slog.String("tab_id", tab.ID()), slog.Any("error", err))
			continue
		}
		// Send order matters: the tab fires its arrival feedback for
		// PUSH_CLICKED before routing on NAVIGATE.
		_ = tab.Post(ctx, navigate)
		return nil
	}

	abs := a.AbsoluteURL(url)
	a.metrics.IncWindowsOpened()
	return a.registry.OpenWindow(ctx, abs)
}

// Broadcast delivers one message to every currently open tab, best effort.
// The tab list is read fresh on every call. One dead tab never blocks
// delivery to the rest. Returns the number of tabs reached.
func (a *Agent) Broadcast(ctx context.Context, msg message.ClientMessage) int {
	delivered := 0
	for _, tab := range a.registry.ListOpen(ctx) {
		if err := tab.Post(ctx, msg); err != nil {
			a.logger.Debug("broadcast skipped unreachable tab", slog.String("tab_id", tab.ID()), slog.Any("error", err))
			continue
		}
		delivered++
	}
	a.metrics.AddTabsReached(int64(delivered))
	return delivered
}

// AbsoluteURL resolves an in-app path against the configured origin.
func (a *Agent) AbsoluteURL(path string) string {
	if path == "" {
		path = message.DefaultURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return a.origin + path
}

func (a *Agent) recordDelivery(ctx context.Context, requestID, status string, tabsReached int, shown bool, detail string) {
	if a.log == nil || requestID == "" {
		return
	}
	rec := repository.PushDelivery{
		RequestID:         requestID,
		Status:            status,
		TabsReached:       tabsReached,
		NotificationShown: shown,
		Detail:            detail,
	}
	if err := a.log.Record(ctx, rec); err != nil {
		a.logger.Error("failed to record delivery", slog.String("request_id", requestID), slog.Any("error", err))
	}
}
