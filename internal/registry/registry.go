// Package registry builds the validated, immutable set of cursors and
// monitored applications the cursor changer works from.
//
// Build is fail-fast: the first duplicate name, missing file, failed image
// load or dangling cursor reference aborts the build, every handle loaded so
// far is released, and no Registry is returned.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/blackwell-systems/cursorswap/internal/config"
	"github.com/blackwell-systems/cursorswap/internal/log"
	"github.com/blackwell-systems/cursorswap/internal/platform"
)

// Registry indexes cursors by id and name and keeps applications in
// configuration order. It is never mutated after Build returns.
type Registry struct {
	cursors      map[int]*Cursor
	nameIndex    map[string]int
	applications []Application

	loader    platform.CursorLoader
	closeOnce sync.Once
	closeErr  error
}

// Build validates the cursor and application records and loads every
// cursor image through loader.
func Build(cursors []config.CursorSpec, applications []config.ApplicationSpec, loader platform.CursorLoader) (*Registry, error) {
	r := &Registry{
		cursors:   make(map[int]*Cursor, len(cursors)),
		nameIndex: make(map[string]int, len(cursors)),
		loader:    loader,
	}

	if err := r.buildCursors(cursors); err != nil {
		r.release()
		return nil, err
	}
	if err := r.buildApplications(applications); err != nil {
		r.release()
		return nil, err
	}

	log.Info(log.CatRegistry, "Registry built",
		"cursors", len(r.cursors), "applications", len(r.applications))
	return r, nil
}

func (r *Registry) buildCursors(specs []config.CursorSpec) error {
	for _, spec := range specs {
		if _, exists := r.nameIndex[spec.Name]; exists {
			return fmt.Errorf("%w: there is already a cursor named %q", ErrDuplicateCursorName, spec.Name)
		}

		info, err := os.Stat(spec.Path)
		if err != nil || info.IsDir() {
			return fmt.Errorf("%w: %s (cursor %q)", ErrMissingCursorFile, spec.Path, spec.Name)
		}

		handle, err := r.loader.LoadCursor(spec.Path)
		if err != nil {
			return fmt.Errorf("%w: %s (cursor %q): %v", ErrCursorLoad, spec.Path, spec.Name, err)
		}

		id := len(r.cursors) + 1
		r.cursors[id] = &Cursor{ID: id, Name: spec.Name, Path: spec.Path, Handle: handle}
		r.nameIndex[spec.Name] = id
		log.Debug(log.CatRegistry, "Loaded cursor", "id", id, "name", spec.Name, "path", spec.Path)
	}
	return nil
}

func (r *Registry) buildApplications(specs []config.ApplicationSpec) error {
	r.applications = make([]Application, 0, len(specs))
	for _, spec := range specs {
		id, ok := r.nameIndex[spec.Cursor]
		if !ok {
			return fmt.Errorf("%w: application %q references cursor %q, which is not declared in any [[cursor]] table",
				ErrMissingCursorName, spec.Path, spec.Cursor)
		}
		r.applications = append(r.applications, Application{CursorID: id, Path: spec.Path})
	}
	return nil
}

// Cursor returns the cursor with the given id.
func (r *Registry) Cursor(id int) (*Cursor, bool) {
	c, ok := r.cursors[id]
	return c, ok
}

// CursorByName returns the cursor declared under name.
func (r *Registry) CursorByName(name string) (*Cursor, bool) {
	id, ok := r.nameIndex[name]
	if !ok {
		return nil, false
	}
	return r.cursors[id], true
}

// Cursors returns every cursor ordered by id.
func (r *Registry) Cursors() []*Cursor {
	out := make([]*Cursor, 0, len(r.cursors))
	for _, c := range r.cursors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Applications returns the monitored applications in configuration order.
// The slice is shared; callers must not modify it.
func (r *Registry) Applications() []Application {
	return r.applications
}

// Close releases every cursor handle. It is safe to call more than once.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.release()
	})
	return r.closeErr
}

func (r *Registry) release() error {
	var errs []error
	for _, c := range r.Cursors() {
		if err := r.loader.ReleaseCursor(c.Handle); err != nil {
			log.ErrorErr(log.CatRegistry, "Failed to release cursor", err, "name", c.Name)
			errs = append(errs, fmt.Errorf("release cursor %q: %w", c.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateOnly is a CursorLoader that checks nothing beyond what Build
// already does and hands out zero handles. It lets configuration be
// validated without touching the system.
var ValidateOnly platform.CursorLoader = validateLoader{}

type validateLoader struct{}

func (validateLoader) LoadCursor(string) (platform.CursorHandle, error) { return 0, nil }
func (validateLoader) ReleaseCursor(platform.CursorHandle) error        { return nil }
