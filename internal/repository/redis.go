package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/notify"
)

// NotificationStore keeps each shown notification so a later click can read
// its title, body and data blob back. Entries expire on their own; an
// expired entry simply degrades the click to the default navigation target.
type NotificationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNotificationStore(client *redis.Client, ttl time.Duration) *NotificationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &NotificationStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *NotificationStore) Close() error {
	return s.client.Close()
}

// Save stores the notification under its ID with a TTL.
func (s *NotificationStore) Save(ctx context.Context, n notify.Notification) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.SetEX(ctx, notificationKey(n.ID), raw, s.ttl).Err()
}

// Load retrieves a shown notification. The ok result is false when the entry
// is missing or expired.
func (s *NotificationStore) Load(ctx context.Context, id string) (notify.Notification, bool, error) {
	raw, err := s.client.Get(ctx, notificationKey(id)).Bytes()
	if err == redis.Nil {
		return notify.Notification{}, false, nil
	}
	if err != nil {
		return notify.Notification{}, false, err
	}
	var n notify.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return notify.Notification{}, false, err
	}
	return n, true, nil
}

// Delete removes the entry once the notification is closed.
func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, notificationKey(id)).Err()
}

func notificationKey(id string) string {
	return "push:notification:" + id
}
