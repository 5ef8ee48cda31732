package tabs

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
)

const (
	writeTimeout = 5 * time.Second
	readLimit    = 32 * 1024
)

// ControlHandler receives messages a tab sends into the agent (the test
// simulation path).
type ControlHandler func(ctx context.Context, msg message.ClientMessage)

// WindowOpener opens a new tab at an absolute URL. The service deployment has
// no OS attached, so the default opener only records the request.
type WindowOpener func(ctx context.Context, absoluteURL string) error

// Hub is the websocket-backed tab registry. Every connected socket is one
// open tab of the application.
type Hub struct {
	logger  *slog.Logger
	opener  WindowOpener
	upgrade websocket.Upgrader

	mu      sync.RWMutex
	tabs    []*wsTab
	control ControlHandler
	claimed int64
}

func NewHub(logger *slog.Logger, opener WindowOpener) *Hub {
	h := &Hub{
		logger: logger,
		opener: opener,
		upgrade: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	if h.opener == nil {
		h.opener = func(ctx context.Context, absoluteURL string) error {
			logger.Info("open window requested", slog.String("url", absoluteURL))
			return nil
		}
	}
	return h
}

// SetControlHandler wires the agent in after construction; the hub and the
// agent reference each other so one side has to attach late.
func (h *Hub) SetControlHandler(fn ControlHandler) {
	h.mu.Lock()
	h.control = fn
	h.mu.Unlock()
}

// ListOpen snapshots the connected tabs in attach order. Never cached by
// callers; each broadcast or click reads the registry fresh.
func (h *Hub) ListOpen(ctx context.Context) []Tab {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Tab, len(h.tabs))
	for i, t := range h.tabs {
		out[i] = t
	}
	return out
}

func (h *Hub) OpenWindow(ctx context.Context, absoluteURL string) error {
	return h.opener(ctx, absoluteURL)
}

// ClaimAll marks every currently connected tab as controlled by the given
// agent generation, including tabs that attached before that generation
// activated.
func (h *Hub) ClaimAll(generation int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.claimed = generation
	for _, t := range h.tabs {
		t.setGeneration(generation)
	}
	return len(h.tabs)
}

// Attach upgrades an HTTP request into a tab connection and starts its read
// loop.
func (h *Hub) Attach(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrade.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("tab upgrade failed", slog.Any("error", err))
		return
	}

	t := &wsTab{
		id:   uuid.NewString(),
		conn: conn,
		hub:  h,
	}

	h.mu.Lock()
	t.generation = h.claimed
	h.tabs = append(h.tabs, t)
	h.mu.Unlock()

	h.logger.Info("tab attached", slog.String("tab_id", t.id))
	// The request context dies when the upgrade handler returns; the tab
	// outlives it.
	go t.readLoop(context.Background())
}

func (h *Hub) detach(t *wsTab) {
	h.mu.Lock()
	for i, cur := range h.tabs {
		if cur == t {
			h.tabs = append(h.tabs[:i], h.tabs[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
	_ = t.conn.Close()
	h.logger.Info("tab detached",
		slog.String("tab_id", t.id),
		slog.Int64("generation", t.currentGeneration()),
	)
}

func (h *Hub) controlHandler() ControlHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.control
}

// wsTab is one connected tab. Writes are serialized; a dead socket fails its
// own Post without affecting the rest of the hub.
type wsTab struct {
	id   string
	conn *websocket.Conn
	hub  *Hub

	writeMu    sync.Mutex
	generation int64
}

func (t *wsTab) ID() string { return t.id }

func (t *wsTab) Post(ctx context.Context, msg message.ClientMessage) error {
	raw, err := msg.Encode()
	if err != nil {
		return err
	}
	return t.write(raw)
}

// Focus asks the tab to bring itself to the foreground. Delivered as a
// control frame; a write failure means the tab is unreachable and the caller
// moves on to the next one.
func (t *wsTab) Focus(ctx context.Context) error {
	raw, err := message.ClientMessage{Type: message.TypeFocus}.Encode()
	if err != nil {
		return err
	}
	return t.write(raw)
}

func (t *wsTab) write(raw []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.conn.WriteMessage(websocket.TextMessage, raw)
}

func (t *wsTab) setGeneration(g int64) {
	t.writeMu.Lock()
	t.generation = g
	t.writeMu.Unlock()
}

func (t *wsTab) currentGeneration() int64 {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.generation
}

func (t *wsTab) readLoop(ctx context.Context) {
	defer t.hub.detach(t)
	t.conn.SetReadLimit(readLimit)

	for {
		_, raw, err := t.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := message.DecodeClientMessage(raw)
		if err != nil || msg.Type == "" {
			continue
		}
		if handler := t.hub.controlHandler(); handler != nil {
			handler(ctx, msg)
		}
	}
}
