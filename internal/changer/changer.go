// Package changer decides, once per poll tick, which cursor should be shown
// and performs the swap exactly once per change.
//
// The state machine has two states, Default (the user's cursor scheme) and
// Active(id). A tick without a process under the pointer leaves the state
// alone; a tick whose process matches no application restores the default;
// a match activates the application's cursor unless it is already active.
package changer

import (
	"github.com/blackwell-systems/cursorswap/internal/log"
	"github.com/blackwell-systems/cursorswap/internal/platform"
	"github.com/blackwell-systems/cursorswap/internal/registry"
)

// Observation is what one tick saw under the pointer.
type Observation struct {
	// Found is false when no process could be resolved.
	Found   bool
	ExePath string
}

// Action is the transition a tick performed.
type Action int

const (
	ActionNone Action = iota
	ActionActivate
	ActionRestore
)

func (a Action) String() string {
	switch a {
	case ActionActivate:
		return "activate"
	case ActionRestore:
		return "restore"
	}
	return "none"
}

// Transition describes a tick that changed the system cursor.
type Transition struct {
	Action   Action
	CursorID int    // zero for ActionRestore and ActionNone
	ExePath  string // process that caused the change, if any
}

// State is the cursor changer state: an immutable registry plus the id of
// the cursor currently applied system-wide (zero while the default scheme is
// in effect). It is owned by a single goroutine.
type State struct {
	reg     *registry.Registry
	applier platform.CursorApplier
	active  int
}

// New returns a State in the Default state.
func New(reg *registry.Registry, applier platform.CursorApplier) *State {
	return &State{reg: reg, applier: applier}
}

// Active returns the id of the applied cursor, or false when the default
// scheme is in effect.
func (s *State) Active() (int, bool) {
	return s.active, s.active != 0
}

// Registry returns the registry the state was built from.
func (s *State) Registry() *registry.Registry {
	return s.reg
}

// Tick feeds one observation through the matcher and applies the resulting
// transition.
func (s *State) Tick(obs Observation) Transition {
	if !obs.Found {
		return Transition{Action: ActionNone}
	}

	apps := s.reg.Applications()
	idx, ok := Match(obs.ExePath, apps)
	if !ok {
		if s.active == 0 {
			return Transition{Action: ActionNone}
		}
		s.restore()
		return Transition{Action: ActionRestore, ExePath: obs.ExePath}
	}

	want := apps[idx].CursorID
	if want == s.active {
		return Transition{Action: ActionNone}
	}
	s.activate(want)
	return Transition{Action: ActionActivate, CursorID: want, ExePath: obs.ExePath}
}

// Reset restores the default scheme regardless of the current state. It is
// called when the poll loop shuts down.
func (s *State) Reset() {
	s.restore()
}

func (s *State) activate(id int) {
	c, ok := s.reg.Cursor(id)
	if !ok {
		// Registry invariants make this unreachable.
		log.Warn(log.CatChanger, "Matched application references unknown cursor", "cursor_id", id)
		return
	}
	if err := s.applier.ApplyCursor(c.Handle); err != nil {
		log.ErrorErr(log.CatChanger, "Failed to apply cursor", err, "cursor", c.Name)
	}
	log.Debug(log.CatChanger, "Cursor activated", "cursor", c.Name, "id", id)
	s.active = id
}

func (s *State) restore() {
	if err := s.applier.RestoreDefaultCursors(); err != nil {
		log.ErrorErr(log.CatChanger, "Failed to restore default cursors", err)
	}
	log.Debug(log.CatChanger, "Default cursors restored")
	s.active = 0
}
