package ws

import (
	"encoding/json"

	"github.com/inkroom/inkroom-backend/internal/models"
)

// Event names form a closed protocol; the session handler switches over them
// exhaustively and drops anything outside the set.
const (
	// Inbound (client -> server)
	EventPresenceJoin = "presence:join"
	EventCursorUpdate = "cursor:update"
	EventStrokeStart  = "stroke:start"
	EventStrokePoint  = "stroke:point"
	EventStrokeEnd    = "stroke:end"
	EventOpUndo       = "op:undo"
	EventOpRedo       = "op:redo"
	EventCanvasClear  = "canvas:clear"

	// Outbound (server -> client)
	EventPresenceState     = "presence:state"
	EventStateReplace      = "state:replace"
	EventOpCommit          = "op:commit"
	EventStrokeRemoteStart = "stroke:remoteStart"
	EventStrokeRemotePoint = "stroke:remotePoint"
	EventStrokeRemoteEnd   = "stroke:remoteEnd"
	EventCursorState       = "cursor:state"
)

// Envelope is the wire framing for every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads.

type JoinPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type CursorPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type StrokeStartPayload struct {
	TempID string          `json:"tempId"`
	Color  string          `json:"color"`
	Width  float64         `json:"width"`
	Mode   models.DrawMode `json:"mode"`
}

type StrokePointPayload struct {
	TempID string  `json:"tempId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type StrokeEndPayload struct {
	TempID string `json:"tempId"`
}

// Outbound payloads.

// PresenceState carries the full membership of a room. SelfID is set only on
// the copy sent to a freshly joined connection so it can identify itself.
type PresenceState struct {
	Users  []models.User `json:"users"`
	SelfID string        `json:"selfId,omitempty"`
}

// StateReplace is the full authoritative log, pushed on resync and after
// undo/redo/clear so every client's local buffer converges exactly.
type StateReplace struct {
	Ops []models.Op `json:"ops"`
}

type OpCommit struct {
	Op models.Op `json:"op"`
}

type RemoteStart struct {
	UserID string          `json:"userId"`
	TempID string          `json:"tempId"`
	Color  string          `json:"color"`
	Width  float64         `json:"width"`
	Mode   models.DrawMode `json:"mode"`
}

type RemotePoint struct {
	TempID string  `json:"tempId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type RemoteEnd struct {
	TempID string `json:"tempId"`
}

// CursorState is a full-state push of every cursor plus the member list, so
// clients that missed intermediate updates are never left inconsistent.
type CursorState struct {
	Cursors map[string]models.Point `json:"cursors"`
	Users   []models.User           `json:"users"`
}

// Encode frames an outbound event. Payloads are plain structs, so a marshal
// failure indicates a programming error; callers treat nil as "drop frame".
func Encode(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return frame
}
