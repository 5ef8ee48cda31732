package notify

import "context"

// Fixed static assets shown on every system notification.
const (
	IconPath  = "/icons/icon-192.png"
	BadgePath = "/icons/badge-72.png"
)

// Data is the blob attached to a notification, read back when the user
// interacts with it.
type Data struct {
	URL     string `json:"url"`
	Type    string `json:"type,omitempty"`
	MatchID string `json:"matchId,omitempty"`
}

// Notification is an OS-level notification shown when the app may be
// backgrounded.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
	Data  Data   `json:"data"`
}

// Center displays and dismisses system notifications. Implementations talk
// to whatever notification surface the deployment has (a desktop daemon, a
// web push bridge, an in-memory fake in tests).
type Center interface {
	Show(ctx context.Context, n Notification) error
	Close(ctx context.Context, id string) error
}
