package memory

import (
	"log"
	"sync"
	"time"
)

// RoomStore manages the set of active rooms. Rooms are created lazily on
// first reference and live for the process lifetime unless the idle sweep
// reaps them after everyone has left.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomStore creates an empty registry.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// Ensure returns the room with the given id, creating it if unseen. Creation
// happens under the write lock, so concurrent Ensure calls for the same id
// always resolve to a single room.
func (s *RoomStore) Ensure(roomID string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		return r
	}
	r := NewRoom(roomID)
	s.rooms[roomID] = r
	log.Printf("[room] created room %q", roomID)
	return r
}

// Get returns the room if it exists, without creating it.
func (s *RoomStore) Get(roomID string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	return r, ok
}

// Count reports the number of active rooms.
func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// RoomInfo is a point-in-time summary of one room for the HTTP surface.
type RoomInfo struct {
	ID    string `json:"id"`
	Users int    `json:"users"`
	Ops   int    `json:"ops"`
}

// Infos summarizes every active room.
func (s *RoomStore) Infos() []RoomInfo {
	s.mu.RLock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, RoomInfo{ID: r.ID, Users: r.UserCount(), Ops: r.OpCount()})
	}
	return infos
}

// StartSweeper reaps idle rooms on a fixed cadence until the returned stop
// function is called.
func (s *RoomStore) StartSweeper(interval, idleFor time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(idleFor)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// Sweep removes rooms that are empty and have been idle for at least idleFor,
// returning how many were reaped. Rooms with members are never touched, no
// matter how old their last activity is.
func (s *RoomStore) Sweep(idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)

	s.mu.Lock()
	defer s.mu.Unlock()
	reaped := 0
	for id, r := range s.rooms {
		if r.Empty() && r.LastActivity().Before(cutoff) {
			delete(s.rooms, id)
			reaped++
			log.Printf("[room] reaped idle room %q", id)
		}
	}
	return reaped
}
