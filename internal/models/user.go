package models

import "math/rand"

// User is a connected participant in a room. ID is derived from the
// connection, so a reconnect produces a new User.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // Assigned at join from the fixed palette
}

// Palette of presence colors handed out at join time.
var Palette = []string{
	"#ef4444", "#f59e0b", "#10b981", "#3b82f6",
	"#a855f7", "#ec4899", "#22c55e", "#eab308", "#06b6d4",
}

// RandomColor picks a presence color for a joining user.
func RandomColor() string {
	return Palette[rand.Intn(len(Palette))]
}
