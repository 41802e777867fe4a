package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkroom/inkroom-backend/internal/models"
)

func TestRoomStore_EnsureIsIdempotent(t *testing.T) {
	s := NewRoomStore()
	a := s.Ensure("lobby")
	b := s.Ensure("lobby")
	assert.Same(t, a, b)
	assert.Equal(t, 1, s.Count())

	_, ok := s.Get("lobby")
	assert.True(t, ok)
	_, ok = s.Get("unseen")
	assert.False(t, ok, "Get never creates")
}

func TestRoomStore_ConcurrentEnsureCreatesOneRoom(t *testing.T) {
	s := NewRoomStore()

	const n = 32
	rooms := make([]*Room, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rooms[i] = s.Ensure("lobby")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Same(t, rooms[0], rooms[i])
	}
	assert.Equal(t, 1, s.Count())
}

func TestRoomStore_RoomsAreIsolated(t *testing.T) {
	s := NewRoomStore()
	a := s.Ensure("a")
	b := s.Ensure("b")

	a.BeginStroke("c1", "t1", "", 0, "")
	require.NotNil(t, a.EndStroke("c1", "t1"))

	assert.Equal(t, 1, a.OpCount())
	assert.Equal(t, 0, b.OpCount())
}

func TestRoomStore_SweepReapsOnlyEmptyIdleRooms(t *testing.T) {
	s := NewRoomStore()

	idle := s.Ensure("idle")
	occupied := s.Ensure("occupied")
	occupied.AddUser(&models.User{ID: "c1", Name: "Ada"})

	// Backdate both rooms past the cutoff.
	idle.mu.Lock()
	idle.lastActivity = time.Now().Add(-time.Hour)
	idle.mu.Unlock()
	occupied.mu.Lock()
	occupied.lastActivity = time.Now().Add(-time.Hour)
	occupied.mu.Unlock()

	fresh := s.Ensure("fresh")
	_ = fresh

	reaped := s.Sweep(10 * time.Minute)
	assert.Equal(t, 1, reaped)

	_, ok := s.Get("idle")
	assert.False(t, ok)
	_, ok = s.Get("occupied")
	assert.True(t, ok, "rooms with members are never reaped")
	_, ok = s.Get("fresh")
	assert.True(t, ok, "recently active rooms survive")
}

func TestRoomStore_SweeperReapsInBackground(t *testing.T) {
	s := NewRoomStore()
	idle := s.Ensure("idle")
	idle.mu.Lock()
	idle.lastActivity = time.Now().Add(-time.Hour)
	idle.mu.Unlock()

	stop := s.StartSweeper(5*time.Millisecond, 10*time.Minute)
	defer stop()

	require.Eventually(t, func() bool {
		_, ok := s.Get("idle")
		return !ok
	}, time.Second, 5*time.Millisecond, "sweeper should reap the idle room")
}

func TestRoomStore_Infos(t *testing.T) {
	s := NewRoomStore()
	r := s.Ensure("lobby")
	r.AddUser(&models.User{ID: "c1", Name: "Ada"})
	r.BeginStroke("c1", "t1", "", 0, "")
	require.NotNil(t, r.EndStroke("c1", "t1"))

	infos := s.Infos()
	require.Len(t, infos, 1)
	assert.Equal(t, RoomInfo{ID: "lobby", Users: 1, Ops: 1}, infos[0])
}
