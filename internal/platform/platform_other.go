//go:build !windows

package platform

import (
	"context"
	"runtime"
)

// unsupported satisfies Platform on systems without a native backend. Every
// cursor operation fails with ErrUnsupported; Run blocks until ctx ends so
// the lifecycle can still be exercised.
type unsupported struct{}

// Native returns the platform implementation for the running OS.
func Native() Platform {
	return unsupported{}
}

func (unsupported) CursorPosition() (Point, bool)     { return Point{}, false }
func (unsupported) ProcessAt(Point) (ProcessID, bool) { return 0, false }
func (unsupported) ExecutablePath(ProcessID) (string, error) {
	return "", ErrUnsupported
}
func (unsupported) LoadCursor(string) (CursorHandle, error) { return 0, ErrUnsupported }
func (unsupported) ReleaseCursor(CursorHandle) error        { return ErrUnsupported }
func (unsupported) ApplyCursor(CursorHandle) error          { return ErrUnsupported }
func (unsupported) RestoreDefaultCursors() error            { return ErrUnsupported }

func (unsupported) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (unsupported) Available() (bool, string) {
	return false, "cursor switching not available on " + runtime.GOOS
}

// RequestClose asks a running host window to close.
func RequestClose() error {
	return ErrUnsupported
}

var _ Platform = unsupported{}
