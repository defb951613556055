// Package watcher runs the cursor changer: a background goroutine that
// samples the process under the pointer on a short fixed interval and feeds
// it through the activation state machine, coordinated with the foreground
// goroutine that owns the host window loop.
//
// Key features:
//   - Polling at a configurable interval (1ms by default)
//   - Executable-path cache keyed by process id
//   - Cooperative shutdown: Stop signals the loop, waits for it, and the
//     loop restores the default cursors before it exits
//   - Optional activation history in the store
//   - Daemon mode support with PID file management
//
// Example usage:
//
//	reg, err := registry.Build(cfg.Cursors, cfg.Applications, plat)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer reg.Close()
//
//	w, err := watcher.New(changer.New(reg, plat), watcher.NewResolver(plat, 2*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Blocks until the host window is closed; cursors are restored on return.
//	if err := w.Run(ctx, plat); err != nil {
//		log.Fatal(err)
//	}
package watcher
