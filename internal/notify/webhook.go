package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// WebhookCenter shows notifications by posting them to a notification daemon
// over HTTP.
type WebhookCenter struct {
	endpoint string
	authKey  string
	client   *http.Client
	logger   *slog.Logger
}

func NewWebhookCenter(endpoint, authKey string, timeout time.Duration, logger *slog.Logger) *WebhookCenter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookCenter{
		endpoint: endpoint,
		authKey:  authKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *WebhookCenter) Show(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authKey != "" {
		req.Header.Set("Authorization", "key="+c.authKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: daemon returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *WebhookCenter) Close(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/v1/notifications/%s", c.endpoint, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if c.authKey != "" {
		req.Header.Set("Authorization", "key="+c.authKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("notify: daemon returned status %d", resp.StatusCode)
	}
	return nil
}
