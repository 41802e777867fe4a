package memory

import (
	"sync"
	"time"

	"github.com/inkroom/inkroom-backend/internal/models"
)

// Room is one isolated unit of collaboration state: the operation log, the
// in-progress live strokes, and the presence/cursor maps. All of it is
// guarded by a single mutex so that events for the same room never interleave
// their read-modify-write, while different rooms stay fully independent.
type Room struct {
	ID string

	// eventMu serializes whole handler invocations (see Serialize); mu
	// guards the state below and is never held while eventMu is taken.
	eventMu sync.Mutex

	mu           sync.Mutex
	log          OpLog
	liveStrokes  map[string]*models.LiveStroke // tempId -> stroke
	users        map[string]*models.User
	order        []string // user ids in join order
	cursors      map[string]models.Point
	lastActivity time.Time
}

// NewRoom creates an empty room.
func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		liveStrokes:  make(map[string]*models.LiveStroke),
		users:        make(map[string]*models.User),
		cursors:      make(map[string]models.Point),
		lastActivity: time.Now(),
	}
}

func (r *Room) touch() { r.lastActivity = time.Now() }

// Serialize runs fn as the room's sole event handler: no other serialized
// event for this room can interleave between fn's state mutations and its
// outbound fan-out. Handlers enqueue frames without blocking, so fn never
// stalls the room on a slow client.
func (r *Room) Serialize(fn func()) {
	r.eventMu.Lock()
	defer r.eventMu.Unlock()
	fn()
}

// AddUser registers a user in the room. Re-adding an existing id overwrites
// it in place without changing join order.
func (r *Room) AddUser(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.users[u.ID] = u
	r.touch()
}

// RemoveUser drops a user and their cursor. Unknown ids are a no-op.
func (r *Room) RemoveUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return
	}
	delete(r.users, userID)
	delete(r.cursors, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.touch()
}

// Users returns the current members in join order.
func (r *Room) Users() []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usersLocked()
}

func (r *Room) usersLocked() []models.User {
	out := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out
}

// SetCursor overwrites a user's last-known pointer position. No history is
// kept and no rate limit is applied; cursor pushes are full-state.
func (r *Room) SetCursor(userID string, pt models.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursors[userID] = pt
	r.touch()
}

// CursorState returns a copy of every cursor position plus the member list,
// so a client that missed updates is never left inconsistent.
func (r *Room) CursorState() (map[string]models.Point, []models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cursors := make(map[string]models.Point, len(r.cursors))
	for id, pt := range r.cursors {
		cursors[id] = pt
	}
	return cursors, r.usersLocked()
}

// BeginStroke registers a live stroke owned by ownerID. A tempId already in
// flight is overwritten; only the owner may later extend or end it.
func (r *Room) BeginStroke(ownerID, tempID, color string, width float64, mode models.DrawMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.liveStrokes[tempID] = &models.LiveStroke{
		TempID:  tempID,
		OwnerID: ownerID,
		Color:   color,
		Width:   width,
		Mode:    mode,
		Points:  []models.Point{},
	}
	r.touch()
}

// ExtendStroke appends a point to a live stroke. Unknown tempIds and strokes
// owned by another connection are silently ignored, which covers duplicate
// and out-of-order delivery as well as hijack attempts.
func (r *Room) ExtendStroke(ownerID, tempID string, pt models.Point) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.liveStrokes[tempID]
	if !ok || ls.OwnerID != ownerID {
		return false
	}
	ls.Points = append(ls.Points, pt)
	r.touch()
	return true
}

// EndStroke removes a live stroke and commits it to the log, returning the
// resulting Op. Returns nil when no matching stroke exists for this owner —
// a duplicate end, never an error.
func (r *Room) EndStroke(ownerID, tempID string) *models.Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.liveStrokes[tempID]
	if !ok || ls.OwnerID != ownerID {
		return nil
	}
	delete(r.liveStrokes, tempID)
	op := r.log.Commit(models.OpDraft{
		Points: ls.Points,
		Color:  ls.Color,
		Width:  ls.Width,
		Mode:   ls.Mode,
		UserID: ownerID,
	})
	r.touch()
	return &op
}

// AbandonStrokes discards every live stroke owned by a connection without
// committing it. Called on disconnect; peers simply stop receiving points.
func (r *Room) AbandonStrokes(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tempID, ls := range r.liveStrokes {
		if ls.OwnerID == ownerID {
			delete(r.liveStrokes, tempID)
		}
	}
	r.touch()
}

// LiveStrokeCount reports the number of strokes currently in flight.
func (r *Room) LiveStrokeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.liveStrokes)
}

// Undo pops the most recent committed op into the redo buffer.
func (r *Room) Undo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return r.log.Undo()
}

// Redo pushes the most recently undone op back onto the log.
func (r *Room) Redo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return r.log.Redo()
}

// Clear atomically empties the log and the redo buffer.
func (r *Room) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Clear()
	r.touch()
}

// Snapshot returns a copy of the committed log for resync and replace pushes.
func (r *Room) Snapshot() []models.Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Snapshot()
}

// OpCount reports the committed log length.
func (r *Room) OpCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Len()
}

// UserCount reports the number of connected members.
func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// Empty reports whether the room has no members.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users) == 0
}

// LastActivity reports when the room state last changed.
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}
