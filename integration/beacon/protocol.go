package beacon

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/moi-restaurants/tracker/core/analytics"
)

// Inbound message types.
const (
	MsgHello    = "hello"
	MsgNavigate = "navigate"
	MsgPopState = "popstate"
	MsgClick    = "click"
	MsgScroll   = "scroll"
	MsgEvent    = "event"
	MsgStop     = "stop"
)

// Outbound message types.
const (
	MsgWelcome = "welcome"
	MsgStopped = "stopped"
	MsgError   = "error"
)

// maxElementDepth bounds the ancestor chain accepted for a click target.
const maxElementDepth = 32

type helloMessage struct {
	ClientID  string `json:"clientId"`
	UserAgent string `json:"userAgent"`
	Screen    struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"screen"`
	Language string `json:"language"`
	Referrer string `json:"referrer"`
	Origin   string `json:"origin"`
	Path     string `json:"path"`
}

type elementMessage struct {
	Tag    string          `json:"tag"`
	ID     string          `json:"id"`
	Class  string          `json:"class"`
	Text   string          `json:"text"`
	Href   string          `json:"href"`
	Parent *elementMessage `json:"parent"`
}

func (e *elementMessage) element(depth int) *analytics.Element {
	if e == nil || depth >= maxElementDepth {
		return nil
	}
	return &analytics.Element{
		Tag:    e.Tag,
		ID:     e.ID,
		Class:  e.Class,
		Text:   e.Text,
		Href:   e.Href,
		Parent: e.Parent.element(depth + 1),
	}
}

type welcomeMessage struct {
	Type      string `json:"type"`
	ClientID  string `json:"clientId"`
	SessionID string `json:"sessionId"`
	Returning bool   `json:"returning"`
}

type replyMessage struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// messageType validates data as JSON and returns its "type" field.
func messageType(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", ErrMalformedMessage
	}
	t := gjson.GetBytes(data, "type")
	if t.Type != gjson.String || t.Str == "" {
		return "", fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	return t.Str, nil
}

func decodeHello(data []byte) (helloMessage, error) {
	var m helloMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return m, nil
}

func decodeClick(data []byte) (analytics.ClickEvent, error) {
	raw := gjson.GetBytes(data, "target")
	if !raw.IsObject() {
		return analytics.ClickEvent{}, fmt.Errorf("%w: click without target", ErrMalformedMessage)
	}
	var target elementMessage
	if err := json.Unmarshal([]byte(raw.Raw), &target); err != nil {
		return analytics.ClickEvent{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return analytics.ClickEvent{Target: target.element(0)}, nil
}

func decodeScroll(data []byte) analytics.ScrollPosition {
	v := gjson.GetManyBytes(data, "top", "documentHeight", "viewportHeight")
	return analytics.ScrollPosition{
		Top:            v[0].Float(),
		DocumentHeight: v[1].Float(),
		ViewportHeight: v[2].Float(),
	}
}

func decodeEvent(data []byte) (eventType, eventName string, metadata map[string]any, err error) {
	v := gjson.GetManyBytes(data, "eventType", "eventName", "metadata")
	eventType, eventName = v[0].String(), v[1].String()
	if eventType == "" || eventName == "" {
		return "", "", nil, ErrInvalidEvent
	}
	if v[2].IsObject() {
		metadata, _ = v[2].Value().(map[string]any)
	}
	return eventType, eventName, metadata, nil
}

func decodePath(data []byte) string {
	return gjson.GetBytes(data, "path").String()
}
