package models

// Point is a single canvas-local coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawMode selects how a stroke composites onto the canvas.
type DrawMode string

const (
	ModeBrush  DrawMode = "brush"
	ModeEraser DrawMode = "eraser"
)

// Op is a committed stroke in a room's operation log. It is immutable once
// created; the server assigns ID and Timestamp at commit time.
type Op struct {
	ID        string   `json:"id"`     // Server-assigned UUID, replaces the client's tempId
	Points    []Point  `json:"points"` // Draw order, preserved on replay
	Color     string   `json:"color"`
	Width     float64  `json:"width"`
	Mode      DrawMode `json:"mode"`
	UserID    string   `json:"userId"` // Connection id of the author
	Timestamp int64    `json:"ts"`     // Unix milliseconds at commit
}

// OpDraft is the commit input for a finished stroke. Missing style fields
// are defaulted by the log (DefaultColor, DefaultWidth, ModeBrush).
type OpDraft struct {
	Points []Point
	Color  string
	Width  float64
	Mode   DrawMode
	UserID string
}

// LiveStroke is an in-progress, uncommitted stroke. It exists only between
// stroke:start and stroke:end; on end it is converted into an Op, on
// disconnect it is discarded. OwnerID is the connection that started it and
// the only one allowed to extend or end it.
type LiveStroke struct {
	TempID  string   `json:"tempId"` // Client-generated, scoped to the owning connection
	OwnerID string   `json:"-"`
	Color   string   `json:"color"`
	Width   float64  `json:"width"`
	Mode    DrawMode `json:"mode"`
	Points  []Point  `json:"points"`
}

// Commit defaults, matching what clients get when they omit style fields.
const (
	DefaultColor = "#000"
	DefaultWidth = 4
)
