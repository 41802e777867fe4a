package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/inkroom/inkroom-backend/internal/models"
)

// OpLog is the append-only sequence of committed strokes for one room, plus
// the redo buffer that undo feeds. Every method is a total function over the
// log's current size; there are no error conditions.
//
// OpLog does not lock itself: all access is serialized by the owning Room.
type OpLog struct {
	ops  []models.Op
	redo []models.Op
}

// Commit finalizes a draft into an Op with a fresh id and server timestamp,
// appends it to the log, and invalidates the redo buffer. Missing style
// fields are defaulted rather than rejected.
func (l *OpLog) Commit(draft models.OpDraft) models.Op {
	if draft.Color == "" {
		draft.Color = models.DefaultColor
	}
	if draft.Width <= 0 {
		draft.Width = models.DefaultWidth
	}
	if draft.Mode == "" {
		draft.Mode = models.ModeBrush
	}
	if draft.Points == nil {
		draft.Points = []models.Point{}
	}

	op := models.Op{
		ID:        uuid.NewString(),
		Points:    draft.Points,
		Color:     draft.Color,
		Width:     draft.Width,
		Mode:      draft.Mode,
		UserID:    draft.UserID,
		Timestamp: time.Now().UnixMilli(),
	}
	l.ops = append(l.ops, op)
	l.redo = nil // new forward work invalidates redo history
	return op
}

// Undo moves the most recent Op onto the redo buffer. Returns false when the
// log is empty.
func (l *OpLog) Undo() bool {
	if len(l.ops) == 0 {
		return false
	}
	last := l.ops[len(l.ops)-1]
	l.ops = l.ops[:len(l.ops)-1]
	l.redo = append(l.redo, last)
	return true
}

// Redo moves the most recently undone Op back onto the log. Returns false
// when the redo buffer is empty.
func (l *OpLog) Redo() bool {
	if len(l.redo) == 0 {
		return false
	}
	op := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.ops = append(l.ops, op)
	return true
}

// Clear empties both the log and the redo buffer.
func (l *OpLog) Clear() {
	l.ops = nil
	l.redo = nil
}

// Snapshot returns a copy of the committed ops in commit order, for resync
// and replace pushes. The copy does not track later mutations.
func (l *OpLog) Snapshot() []models.Op {
	out := make([]models.Op, len(l.ops))
	copy(out, l.ops)
	return out
}

// Len reports the number of committed ops.
func (l *OpLog) Len() int { return len(l.ops) }

// RedoLen reports the number of ops available to redo.
func (l *OpLog) RedoLen() int { return len(l.redo) }
