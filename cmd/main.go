package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/inkroom/inkroom-backend/internal/api/rooms"
	"github.com/inkroom/inkroom-backend/internal/middleware"
	"github.com/inkroom/inkroom-backend/internal/storage/memory"
	"github.com/inkroom/inkroom-backend/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	origin := os.Getenv("ALLOWED_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	store := memory.NewRoomStore()
	hub := ws.NewHub()
	handler := &rooms.RoomHandler{Store: store, Hub: hub}

	// Idle-room reaping is opt-in; an unset or zero TTL disables it.
	if ttl := envDuration("ROOM_IDLE_TTL"); ttl > 0 {
		interval := envDuration("ROOM_SWEEP_INTERVAL")
		if interval <= 0 {
			interval = time.Minute
		}
		store.StartSweeper(interval, ttl)
		log.Printf("Sweeping idle rooms every %s (TTL %s)", interval, ttl)
	}

	r := mux.NewRouter()
	rooms.RegisterRoomRoutes(r, handler)

	log.Printf("Server started at :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, middleware.CORS(origin)(r)))
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s %q, ignoring: %v", key, v, err)
		return 0
	}
	return d
}
