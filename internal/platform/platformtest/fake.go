// Package platformtest provides an in-memory platform.Platform for tests.
package platformtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/cursorswap/internal/platform"
)

// Sample is one scripted answer of the probe: the executable under the
// pointer, or nothing when Found is false. Err, when set, is returned from
// ExecutablePath. PID pins the process id; a pinned id that comes back with
// another path is a new process with a later start time.
type Sample struct {
	Path  string
	Found bool
	Err   error
	PID   platform.ProcessID
}

// Under returns a sample with exe under the pointer.
func Under(exe string) Sample {
	return Sample{Path: exe, Found: true}
}

// Nothing returns a sample with no window under the pointer.
func Nothing() Sample {
	return Sample{}
}

// Fake records every cursor operation and replays scripted samples.
// Once the script is exhausted the last sample repeats.
type Fake struct {
	mu sync.Mutex

	script []Sample
	pos    int
	served int
	pids   map[platform.ProcessID]Sample
	starts map[platform.ProcessID]int64
	nextID platform.ProcessID

	// LoadErr, when set, makes LoadCursor fail for that path.
	LoadErr map[string]error

	loaded   map[platform.CursorHandle]string
	released []platform.CursorHandle
	applied  []platform.CursorHandle
	restores int
	pathHits map[platform.ProcessID]int

	ApplyErr   error
	RestoreErr error

	uiStop chan struct{}
	uiOnce sync.Once
}

// New returns a fake that will replay script.
func New(script ...Sample) *Fake {
	return &Fake{
		script:   script,
		pids:     make(map[platform.ProcessID]Sample),
		starts:   make(map[platform.ProcessID]int64),
		loaded:   make(map[platform.CursorHandle]string),
		LoadErr:  make(map[string]error),
		pathHits: make(map[platform.ProcessID]int),
		uiStop:   make(chan struct{}),
	}
}

func (f *Fake) next() Sample {
	if len(f.script) == 0 {
		return Nothing()
	}
	s := f.script[f.pos]
	f.served++
	if f.pos < len(f.script)-1 {
		f.pos++
	}
	return s
}

// CursorPosition always succeeds; the scripted sample is consumed by
// ProcessAt.
func (f *Fake) CursorPosition() (platform.Point, bool) {
	return platform.Point{X: 1, Y: 1}, true
}

func (f *Fake) ProcessAt(platform.Point) (platform.ProcessID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.next()
	if !s.Found {
		return 0, false
	}
	if s.PID != 0 {
		if known, ok := f.pids[s.PID]; !ok || known.Path != s.Path || known.Err != s.Err {
			f.pids[s.PID] = s
			f.starts[s.PID]++
		}
		return s.PID, true
	}
	for pid, known := range f.pids {
		if known.Path == s.Path && known.Err == s.Err {
			return pid, true
		}
	}
	f.nextID++
	f.pids[f.nextID] = s
	f.starts[f.nextID] = 1
	return f.nextID, true
}

// ProcessStartTime reports a start time that changes whenever a pinned pid
// is reused by another executable.
func (f *Fake) ProcessStartTime(pid platform.ProcessID) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gen, ok := f.starts[pid]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown pid %d", platform.ErrResolution, pid)
	}
	return time.Unix(gen, 0), nil
}

func (f *Fake) ExecutablePath(pid platform.ProcessID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pathHits[pid]++
	s, ok := f.pids[pid]
	if !ok {
		return "", fmt.Errorf("%w: unknown pid %d", platform.ErrResolution, pid)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Path, nil
}

func (f *Fake) LoadCursor(path string) (platform.CursorHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.LoadErr[path]; err != nil {
		return 0, err
	}
	h := platform.CursorHandle(len(f.loaded) + len(f.released) + 100)
	f.loaded[h] = path
	return h, nil
}

func (f *Fake) ReleaseCursor(h platform.CursorHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.loaded[h]; !ok {
		return fmt.Errorf("release of unknown handle %d", h)
	}
	delete(f.loaded, h)
	f.released = append(f.released, h)
	return nil
}

func (f *Fake) ApplyCursor(h platform.CursorHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applied = append(f.applied, h)
	return f.ApplyErr
}

func (f *Fake) RestoreDefaultCursors() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.restores++
	return f.RestoreErr
}

// Run blocks until ctx is cancelled or Close is called.
func (f *Fake) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-f.uiStop:
	}
	return nil
}

// Close simulates the user closing the host window.
func (f *Fake) Close() {
	f.uiOnce.Do(func() { close(f.uiStop) })
}

func (f *Fake) Available() (bool, string) { return true, "" }

// Applied returns the handles passed to ApplyCursor, in order.
func (f *Fake) Applied() []platform.CursorHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.CursorHandle(nil), f.applied...)
}

// Restores returns how many times RestoreDefaultCursors was called.
func (f *Fake) Restores() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.restores
}

// Loaded returns the handles currently loaded and not yet released.
func (f *Fake) Loaded() map[platform.CursorHandle]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[platform.CursorHandle]string, len(f.loaded))
	for h, p := range f.loaded {
		out[h] = p
	}
	return out
}

// Released returns the handles passed to ReleaseCursor, in order.
func (f *Fake) Released() []platform.CursorHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.CursorHandle(nil), f.released...)
}

// PathLookups returns how many times ExecutablePath was asked about pid.
func (f *Fake) PathLookups(pid platform.ProcessID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pathHits[pid]
}

// Exhausted reports whether every scripted sample has been consumed at
// least once.
func (f *Fake) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.served >= len(f.script)
}

var (
	_ platform.Platform       = (*Fake)(nil)
	_ platform.StartTimeProbe = (*Fake)(nil)
)
