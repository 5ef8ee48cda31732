package tabs

import (
	"context"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
)

// Tab is one open application window capable of receiving messages and being
// brought to the foreground.
type Tab interface {
	ID() string
	Post(ctx context.Context, msg message.ClientMessage) error
	Focus(ctx context.Context) error
}

// Registry exposes the set of currently open tabs. Implementations must
// return a fresh listing on every call since tabs open and close between
// events; callers never cache the result.
type Registry interface {
	ListOpen(ctx context.Context) []Tab
	// OpenWindow opens a brand new tab at an absolute URL. Used only when a
	// notification click finds no tab to focus.
	OpenWindow(ctx context.Context, absoluteURL string) error
}
