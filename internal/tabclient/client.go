package tabclient

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/router"
)

const writeTimeout = 5 * time.Second

// Focuser brings the tab to the foreground when the agent asks for it.
type Focuser interface {
	Focus()
}

// Client connects one tab to the delivery agent's hub and feeds inbound
// messages to the tab's router.
type Client struct {
	router  *router.Router
	focuser Focuser
	logger  *slog.Logger

	writeMu sync.Mutex
	conn    *websocket.Conn
}

func New(r *router.Router, focuser Focuser, logger *slog.Logger) *Client {
	return &Client{
		router:  r,
		focuser: focuser,
		logger:  logger,
	}
}

// Connect dials the hub and starts processing messages until the context is
// cancelled or the connection drops.
func (c *Client) Connect(ctx context.Context, wsURL string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	c.logger.Info("tab connected", slog.String("url", wsURL))
	return c.readLoop(conn)
}

// Simulate sends a PUSH_RECEIVED control message into the agent so the full
// delivery path can be exercised without a real push.
func (c *Client) Simulate(msg message.ClientMessage) error {
	raw, err := msg.Encode()
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return errors.New("tab is not connected")
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := message.DecodeClientMessage(raw)
		if err != nil || msg.Type == "" {
			continue
		}
		if msg.Type == message.TypeFocus {
			if c.focuser != nil {
				c.focuser.Focus()
			}
			continue
		}
		c.router.Handle(msg)
	}
}
