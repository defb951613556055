package store

import "time"

// Activation records one change of the system cursor.
type Activation struct {
	ID         int64
	RunID      string // identifies the cursorswap process that made the change
	Action     string // "activate", "restore" or "shutdown"
	Cursor     string // cursor name; empty when restoring
	ExePath    string // executable under the pointer, if any
	OccurredAt time.Time
}

// CursorUsage summarises how often a cursor was activated.
type CursorUsage struct {
	Cursor      string
	Activations int
	LastUsed    time.Time
}
