package rooms

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoomRoutes registers the room HTTP and WebSocket routes.
func RegisterRoomRoutes(r *mux.Router, handler *RoomHandler) {
	r.HandleFunc("/api/v1/rooms/list", func(w http.ResponseWriter, req *http.Request) {
		log.Printf("[room] %s %s", req.Method, req.URL.Path)
		handler.ListRooms(w, req)
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/rooms/snapshot", func(w http.ResponseWriter, req *http.Request) {
		log.Printf("[room] %s %s", req.Method, req.URL.Path)
		handler.GetSnapshot(w, req)
	}).Methods(http.MethodGet)

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		log.Printf("[room] WebSocket %s", req.URL.String())
		handler.ServeWS(w, req)
	})
}
