package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/cursorswap/internal/changer"
	"github.com/blackwell-systems/cursorswap/internal/log"
	"github.com/blackwell-systems/cursorswap/internal/platform"
	"github.com/blackwell-systems/cursorswap/internal/store"
)

// DefaultInterval is the pause between two ticks.
const DefaultInterval = time.Millisecond

// Recorder receives every tick that changed the system cursor.
type Recorder interface {
	RecordActivation(a *store.Activation) error
}

// Watcher polls the process under the pointer and drives the cursor state
// machine from a single background goroutine. The state is owned by that
// goroutine between Start and Stop.
type Watcher struct {
	state    *changer.State
	resolver *Resolver
	interval time.Duration

	recorder Recorder
	runID    string

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	ticker   *time.Ticker

	mu      sync.Mutex
	started bool
	ticks   uint64
	changes uint64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the pause between ticks.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// WithRecorder records every cursor change under runID.
func WithRecorder(r Recorder, runID string) Option {
	return func(w *Watcher) {
		w.recorder = r
		w.runID = runID
	}
}

// New creates a new Watcher instance.
func New(state *changer.State, resolver *Resolver, opts ...Option) (*Watcher, error) {
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	w := &Watcher{
		state:    state,
		resolver: resolver,
		interval: DefaultInterval,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", w.interval)
	}
	return w, nil
}

// Start launches the poll loop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errors.New("watcher already started")
	}
	w.started = true

	w.ticker = time.NewTicker(w.interval)

	w.wg.Add(1)
	log.SafeGo("watcher.poll", w.runPollLoop)

	log.Info(log.CatWatch, "Watcher started", "interval", w.interval, "run_id", w.runID)
	return nil
}

// runPollLoop ticks until the stop signal arrives, then restores the default
// cursors before signalling completion.
func (w *Watcher) runPollLoop() {
	defer w.wg.Done()
	defer w.shutdown()

	var lastErr string
	for {
		lastErr = w.tick(lastErr)

		select {
		case <-w.stopCh:
			return
		case <-w.ticker.C:
		}
	}
}

// tick runs one resolve, match and transition step. It returns the text of
// the resolution error seen, so a persistent failure is logged once rather
// than on every tick.
func (w *Watcher) tick(lastErr string) string {
	obs, err := w.resolver.Resolve()
	errText := ""
	if err != nil {
		errText = err.Error()
		if errText != lastErr {
			log.Debug(log.CatWatch, "Cannot resolve process under pointer", "err", err)
		}
		obs = changer.Observation{}
	}

	tr := w.state.Tick(obs)

	w.mu.Lock()
	w.ticks++
	if tr.Action != changer.ActionNone {
		w.changes++
	}
	w.mu.Unlock()

	if tr.Action != changer.ActionNone {
		w.record(tr)
	}
	return errText
}

func (w *Watcher) shutdown() {
	w.state.Reset()
	w.save(&store.Activation{RunID: w.runID, Action: "shutdown"})
	log.Info(log.CatWatch, "Default cursors restored")
}

func (w *Watcher) record(tr changer.Transition) {
	if w.recorder == nil {
		return
	}

	a := &store.Activation{
		RunID:   w.runID,
		Action:  tr.Action.String(),
		ExePath: tr.ExePath,
	}
	if tr.Action == changer.ActionActivate {
		if c, ok := w.state.Registry().Cursor(tr.CursorID); ok {
			a.Cursor = c.Name
		}
	}
	w.save(a)
}

func (w *Watcher) save(a *store.Activation) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.RecordActivation(a); err != nil {
		log.ErrorErr(log.CatWatch, "Failed to record activation", err, "action", a.Action)
	}
}

// Stop signals the poll loop and waits for it to finish. When Stop returns
// the default cursors have been restored. Stop is safe to call more than
// once and before Start.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })

	w.wg.Wait()

	w.mu.Lock()
	if w.ticker != nil {
		w.ticker.Stop()
	}
	w.mu.Unlock()
	return nil
}

// Run is the lifecycle coordinator: it starts the poll loop, blocks in the
// host window loop, and once that returns stops the poll loop and waits for
// the cursors to be restored.
func (w *Watcher) Run(ctx context.Context, ui platform.UI) error {
	if err := w.Start(); err != nil {
		return err
	}

	uiErr := ui.Run(ctx)
	if uiErr != nil {
		log.ErrorErr(log.CatWatch, "Host window loop failed", uiErr)
	}

	if err := w.Stop(); err != nil {
		return errors.Join(uiErr, fmt.Errorf("failed to stop watcher: %w", err))
	}
	return uiErr
}

// Stats reports how many ticks ran and how many of them changed the cursor.
func (w *Watcher) Stats() (ticks, changes uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticks, w.changes
}
