package rooms

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/inkroom/inkroom-backend/internal/storage/memory"
	"github.com/inkroom/inkroom-backend/internal/ws"
)

// RoomHandler exposes the collaboration engine over HTTP: the WebSocket
// upgrade that carries the live protocol, plus read-only JSON views of the
// registry for dashboards and debugging.
type RoomHandler struct {
	Store *memory.RoomStore
	Hub   *ws.Hub
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and runs the session pumps. The client is
// not bound to any room until it sends presence:join.
func (h *RoomHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := ws.NewClient(conn)
	session := ws.NewSession(h.Hub, h.Store, client)

	go client.WritePump()
	go client.ReadPump(session)
}

// ListRooms returns a summary of every active room.
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Store.Infos())
}

// GetSnapshot returns the authoritative operation log of one room. Unknown
// rooms are 404 rather than lazily created; only the live protocol creates
// rooms.
func (h *RoomHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")
	room, ok := h.Store.Get(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ops": room.Snapshot()})
}
