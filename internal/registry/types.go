package registry

import "github.com/blackwell-systems/cursorswap/internal/platform"

// Cursor is a named cursor image loaded into a platform handle. The handle
// belongs to the Registry and is released by Registry.Close.
type Cursor struct {
	ID     int
	Name   string
	Path   string
	Handle platform.CursorHandle
}

// Application maps an executable-path suffix to a cursor.
type Application struct {
	CursorID int
	Path     string
}
