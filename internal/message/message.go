package message

import "encoding/json"

// Message type tags exchanged between the delivery agent and open tabs.
const (
	TypePushReceived = "PUSH_RECEIVED"
	TypePushClicked  = "PUSH_CLICKED"
	TypeNavigate     = "NAVIGATE"

	// TypeFocus is a transport-level control frame asking a tab to bring
	// itself to the foreground. Not part of the router vocabulary.
	TypeFocus = "FOCUS"
)

// Defaults applied whenever a push payload or client message arrives with
// fields missing.
const (
	DefaultTitle = "Gorila Pádel"
	DefaultBody  = "Tienes una notificación"
	DefaultURL   = "/partidos"
)

// Defaults for the tab-originated simulation path, so a test push is
// recognizable inside the app.
const (
	TestTitle = "TEST 🦍"
	TestBody  = "Si ves esto dentro de la app, ya está."
)

// PushPayload is the JSON body attached to an inbound push event.
// All fields are optional on the wire.
type PushPayload struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	URL     string `json:"url"`
	Type    string `json:"type,omitempty"`
	MatchID string `json:"matchId,omitempty"`
}

// ParsePushPayload decodes a raw push body. Push delivery must never fail on
// malformed input, so any decode error yields the zero payload instead.
func ParsePushPayload(raw []byte) PushPayload {
	var p PushPayload
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return PushPayload{}
	}
	return p
}

// ApplyDefaults fills missing fields with the product defaults and returns
// the payload. The URL default guarantees there is never a dangling
// navigation target.
func (p PushPayload) ApplyDefaults() PushPayload {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Body == "" {
		p.Body = DefaultBody
	}
	if p.URL == "" {
		p.URL = DefaultURL
	}
	return p
}

// ClientMessage is the envelope exchanged between the delivery agent and
// tabs. Type is the discriminator; consumers ignore tags they do not know.
type ClientMessage struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	URL   string `json:"url,omitempty"`
}

// PushReceived builds the broadcast message announcing an arrived push.
func PushReceived(p PushPayload) ClientMessage {
	return ClientMessage{
		Type:  TypePushReceived,
		Title: p.Title,
		Body:  p.Body,
		URL:   p.URL,
	}
}

// PushClicked builds the message telling a tab the user interacted with a
// system notification.
func PushClicked(title, body, url string) ClientMessage {
	return ClientMessage{
		Type:  TypePushClicked,
		Title: title,
		Body:  body,
		URL:   url,
	}
}

// Navigate builds the routing-only instruction for a single tab.
func Navigate(url string) ClientMessage {
	return ClientMessage{
		Type: TypeNavigate,
		URL:  url,
	}
}

// ApplyTestDefaults fills missing fields with the simulation defaults used
// when a tab injects a PUSH_RECEIVED through the agent.
func (m ClientMessage) ApplyTestDefaults() ClientMessage {
	if m.Title == "" {
		m.Title = TestTitle
	}
	if m.Body == "" {
		m.Body = TestBody
	}
	if m.URL == "" {
		m.URL = DefaultURL
	}
	return m
}

// Encode serializes the message for the tab transport.
func (m ClientMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeClientMessage parses an inbound frame from a tab. Frames without a
// type tag are rejected; callers treat the error as "ignore this frame".
func DecodeClientMessage(raw []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return ClientMessage{}, err
	}
	return m, nil
}
