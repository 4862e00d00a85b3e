package live

import (
	"encoding/json"

	"github.com/inamate/rig/internal/engine"
)

type Message struct {
	Type       string          `json:"type"`
	SkeletonID string          `json:"skeletonId,omitempty"`
	ClientID   string          `json:"clientId,omitempty"`
	Seq        int64           `json:"seq,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Posing
	TypePoseUpdate = "pose.update"
	TypePoseFrame  = "pose.frame"

	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

// WelcomePayload is sent to a client once it has joined a room. Seq is the
// room's sequence number at the time Frame was taken.
type WelcomePayload struct {
	ClientID  string                      `json:"clientId"`
	Seq       int64                       `json:"seq"`
	Info      engine.SkeletonInfo         `json:"info"`
	Frame     engine.Frame                `json:"frame"`
	Presences map[string]*PresencePayload `json:"presences"`
}

// FramePayload carries the room's pose after a pose.update from ClientID.
type FramePayload struct {
	ClientID string       `json:"clientId"`
	Frame    engine.Frame `json:"frame"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}

func newMessage(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorMessage(err.Error())
	}
	return &Message{Type: typ, Payload: data}
}

func errorMessage(text string) *Message {
	data, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: data}
}
