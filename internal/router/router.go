package router

import (
	"log/slog"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/message"
)

// Navigator performs an in-app route change without a full reload. The new
// location is pushed onto history so back-navigation keeps working.
type Navigator interface {
	Navigate(path string)
}

// AudioPlayer plays the notification cue. Play on a locked player is
// expected to fail quietly until Unlock succeeds after a user gesture.
type AudioPlayer interface {
	Unlock() error
	Play()
}

// ToastEvent is the in-app notification event republished for UI components,
// decoupled from the transport that delivered it.
type ToastEvent struct {
	Title string
	Body  string
	URL   string
}

// ToastSink receives toast events inside the tab.
type ToastSink interface {
	Dispatch(ev ToastEvent)
}

// Router translates messages from the delivery agent into UI effects inside
// one tab. Message handling is stateless and idempotent: the same message
// twice produces the same effect twice.
type Router struct {
	nav    Navigator
	audio  AudioPlayer
	toasts ToastSink
	logger *slog.Logger
	gate   *audioGate
}

func New(nav Navigator, audio AudioPlayer, toasts ToastSink, logger *slog.Logger) *Router {
	return &Router{
		nav:    nav,
		audio:  audio,
		toasts: toasts,
		logger: logger,
		gate:   newAudioGate(audio),
	}
}

// Handle dispatches one inbound message. It never panics and never returns
// an error: malformed messages degrade to defaults, unknown types are
// ignored so future message kinds do not break older tabs.
func (r *Router) Handle(msg message.ClientMessage) {
	switch msg.Type {
	case message.TypeNavigate:
		if msg.URL == "" {
			return
		}
		r.nav.Navigate(msg.URL)
	case message.TypePushReceived, message.TypePushClicked:
		r.audio.Play()
		p := message.PushPayload{Title: msg.Title, Body: msg.Body, URL: msg.URL}.ApplyDefaults()
		r.toasts.Dispatch(ToastEvent{
			Title: p.Title,
			Body:  p.Body,
			URL:   p.URL,
		})
	default:
		r.logger.Debug("ignoring unknown message type", slog.String("type", msg.Type))
	}
}

// HandleGesture reports the first user gesture in the tab so the audio
// subsystem can be unlocked. One-shot: after the first successful unlock
// further gestures are no-ops.
func (r *Router) HandleGesture() {
	r.gate.unlock()
}

// Unlocked reports whether the audio gate is open.
func (r *Router) Unlocked() bool {
	return r.gate.unlocked()
}
