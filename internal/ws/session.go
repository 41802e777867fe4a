package ws

import (
	"encoding/json"
	"log"

	"github.com/inkroom/inkroom-backend/internal/models"
	"github.com/inkroom/inkroom-backend/internal/storage/memory"
)

// Session is the per-connection protocol state machine:
//
//	Unjoined --presence:join--> Joined --disconnect--> Disconnected
//
// Every room-scoped event arriving while unjoined is dropped; malformed or
// out-of-sequence input is a silent no-op rather than an error back to the
// client, since delivery is assumed at-least-once and unordered across
// senders.
type Session struct {
	hub   *Hub
	rooms *memory.RoomStore

	client *Client
	roomID string // empty until join
	user   *models.User
	room   *memory.Room
}

// NewSession binds a connection to the shared hub and room registry.
func NewSession(hub *Hub, rooms *memory.RoomStore, client *Client) *Session {
	return &Session{hub: hub, rooms: rooms, client: client}
}

// Handle dispatches one inbound event. Each handler runs under the room's
// event lock (Room.Serialize), so its state mutation and the frames it
// enqueues form one atomic step relative to every other event for that
// room: peers can never observe a snapshot queued behind a newer commit.
func (s *Session) Handle(env Envelope) {
	switch env.Event {
	case EventPresenceJoin:
		var p JoinPayload
		if !decode(env.Data, &p) {
			return
		}
		s.handleJoin(p)
	case EventCursorUpdate:
		var p CursorPayload
		if !decode(env.Data, &p) {
			return
		}
		s.handleCursor(p)
	case EventStrokeStart:
		var p StrokeStartPayload
		if !decode(env.Data, &p) {
			return
		}
		s.handleStrokeStart(p)
	case EventStrokePoint:
		var p StrokePointPayload
		if !decode(env.Data, &p) {
			return
		}
		s.handleStrokePoint(p)
	case EventStrokeEnd:
		var p StrokeEndPayload
		if !decode(env.Data, &p) {
			return
		}
		s.handleStrokeEnd(p)
	case EventOpUndo:
		s.handleUndo()
	case EventOpRedo:
		s.handleRedo()
	case EventCanvasClear:
		s.handleClear()
	default:
		log.Printf("[ws] ignoring unknown event %q from %s", env.Event, s.client.ConnID)
	}
}

func decode(raw json.RawMessage, v any) bool {
	if raw == nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// handleJoin binds the connection to a room, resyncs the joiner with the
// full log, and pushes updated presence to everyone else. A second join on
// an already-bound session is ignored.
func (s *Session) handleJoin(p JoinPayload) {
	if s.roomID != "" {
		return
	}
	roomID := p.RoomID
	if roomID == "" {
		roomID = "lobby"
	}
	name := p.Name
	if name == "" {
		name = "Anonymous"
	}

	s.roomID = roomID
	s.room = s.rooms.Ensure(roomID)
	s.user = &models.User{ID: s.client.ConnID, Name: name, Color: models.RandomColor()}

	s.room.Serialize(func() {
		s.room.AddUser(s.user)
		s.hub.Join(roomID, s.client)

		users := s.room.Users()
		s.hub.Send(s.client, Encode(EventPresenceState, PresenceState{Users: users, SelfID: s.client.ConnID}))
		s.hub.Send(s.client, Encode(EventStateReplace, StateReplace{Ops: s.room.Snapshot()}))
		s.hub.Broadcast(roomID, Encode(EventPresenceState, PresenceState{Users: users}), s.client)
	})

	log.Printf("[ws] %s (%q) joined room %q", s.client.ConnID, name, roomID)
}

func (s *Session) handleCursor(p CursorPayload) {
	if s.roomID == "" {
		return
	}
	s.room.Serialize(func() {
		s.room.SetCursor(s.client.ConnID, models.Point{X: p.X, Y: p.Y})
		cursors, users := s.room.CursorState()
		s.hub.Broadcast(s.roomID, Encode(EventCursorState, CursorState{Cursors: cursors, Users: users}), nil)
	})
}

// Stroke relay frames go to everyone except the sender, who already has the
// stroke through local prediction. The relay is unconditional; only the log
// side is owner-checked.
func (s *Session) handleStrokeStart(p StrokeStartPayload) {
	if s.roomID == "" {
		return
	}
	s.room.Serialize(func() {
		s.hub.Broadcast(s.roomID, Encode(EventStrokeRemoteStart, RemoteStart{
			UserID: s.client.ConnID,
			TempID: p.TempID,
			Color:  p.Color,
			Width:  p.Width,
			Mode:   p.Mode,
		}), s.client)
		s.room.BeginStroke(s.client.ConnID, p.TempID, p.Color, p.Width, p.Mode)
	})
}

func (s *Session) handleStrokePoint(p StrokePointPayload) {
	if s.roomID == "" {
		return
	}
	s.room.Serialize(func() {
		s.hub.Broadcast(s.roomID, Encode(EventStrokeRemotePoint, RemotePoint{TempID: p.TempID, X: p.X, Y: p.Y}), s.client)
		s.room.ExtendStroke(s.client.ConnID, p.TempID, models.Point{X: p.X, Y: p.Y})
	})
}

// handleStrokeEnd commits the live stroke and pushes the authoritative Op to
// the whole room, sender included, so the author replaces its local
// prediction with the server's record.
func (s *Session) handleStrokeEnd(p StrokeEndPayload) {
	if s.roomID == "" {
		return
	}
	s.room.Serialize(func() {
		s.hub.Broadcast(s.roomID, Encode(EventStrokeRemoteEnd, RemoteEnd{TempID: p.TempID}), s.client)
		if op := s.room.EndStroke(s.client.ConnID, p.TempID); op != nil {
			s.hub.Broadcast(s.roomID, Encode(EventOpCommit, OpCommit{Op: *op}), nil)
		}
	})
}

// Undo/redo/clear push the entire new log to the whole room rather than a
// delta, so every client's buffer converges on the authoritative state.
func (s *Session) handleUndo() {
	if s.roomID == "" {
		return
	}
	s.room.Serialize(func() {
		if s.room.Undo() {
			s.replaceState()
		}
	})
}

func (s *Session) handleRedo() {
	if s.roomID == "" {
		return
	}
	s.room.Serialize(func() {
		if s.room.Redo() {
			s.replaceState()
		}
	})
}

func (s *Session) handleClear() {
	if s.roomID == "" {
		return
	}
	s.room.Serialize(func() {
		s.room.Clear()
		s.replaceState()
	})
}

// replaceState must run inside the caller's Serialize block so the snapshot
// it queues can never trail a newer commit.
func (s *Session) replaceState() {
	s.hub.Broadcast(s.roomID, Encode(EventStateReplace, StateReplace{Ops: s.room.Snapshot()}), nil)
}

// Disconnect is the terminal transition: remove the user, discard any stroke
// they had in flight, and tell the remaining members. Never called twice
// with effect because roomID is cleared.
func (s *Session) Disconnect() {
	if s.roomID == "" {
		return
	}
	roomID := s.roomID
	s.roomID = ""

	s.room.Serialize(func() {
		s.hub.Leave(roomID, s.client)
		s.room.AbandonStrokes(s.client.ConnID)
		s.room.RemoveUser(s.client.ConnID)
		s.hub.Broadcast(roomID, Encode(EventPresenceState, PresenceState{Users: s.room.Users()}), nil)
	})

	log.Printf("[ws] %s left room %q", s.client.ConnID, roomID)
}
