// Package platform defines the operating-system collaborators the cursor
// changer depends on and provides the native implementation for Windows.
//
// The rest of cursorswap only sees the small interfaces declared here, so
// the registry, state machine and poll loop run unchanged against the fakes
// in platformtest.
package platform

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrResolution marks a failure to determine the process under the
	// pointer. The poll loop treats it as "no process" for that tick.
	ErrResolution = errors.New("platform resolution failed")

	// ErrUnsupported is returned by every operation on platforms without a
	// native implementation.
	ErrUnsupported = errors.New("cursor switching is not supported on this platform")
)

// Point is a screen position in physical pixels.
type Point struct {
	X, Y int32
}

// ProcessID identifies an operating-system process.
type ProcessID uint32

// CursorHandle is an opaque handle to a loaded cursor image.
type CursorHandle uintptr

// Probe answers "which executable is under the pointer right now".
type Probe interface {
	// CursorPosition returns the pointer position, or false when it cannot
	// be read (locked workstation, secure desktop).
	CursorPosition() (Point, bool)

	// ProcessAt returns the process owning the window at p, or false when
	// there is no window there.
	ProcessAt(p Point) (ProcessID, bool)

	// ExecutablePath returns the full path of the process image. Errors
	// wrap ErrResolution.
	ExecutablePath(pid ProcessID) (string, error)
}

// StartTimeProbe is implemented by probes that can tell apart two processes
// which held the same id at different times.
type StartTimeProbe interface {
	// ProcessStartTime returns when pid was created. Errors wrap
	// ErrResolution.
	ProcessStartTime(pid ProcessID) (time.Time, error)
}

// CursorLoader loads cursor images from disk and releases them.
type CursorLoader interface {
	LoadCursor(path string) (CursorHandle, error)
	ReleaseCursor(h CursorHandle) error
}

// CursorApplier swaps the system cursor set.
type CursorApplier interface {
	// ApplyCursor sets every system cursor role to a copy of h. The caller
	// keeps ownership of h.
	ApplyCursor(h CursorHandle) error

	// RestoreDefaultCursors reloads the user's configured cursor scheme.
	RestoreDefaultCursors() error
}

// UI is the blocking host window loop owned by the foreground goroutine.
type UI interface {
	// Run blocks until the window is closed or ctx is cancelled.
	Run(ctx context.Context) error
}

// Platform bundles every collaborator.
type Platform interface {
	Probe
	CursorLoader
	CursorApplier
	UI

	// Available reports whether the platform can switch cursors, with a
	// reason when it cannot.
	Available() (bool, string)
}
