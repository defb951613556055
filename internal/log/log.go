// Package log provides categorised structured logging for cursorswap.
//
// Every call names a Category so that output from the poll loop, the
// registry builder and the CLI can be told apart in a single log file:
//
//	log.Info(log.CatRegistry, "Registry built", "cursors", 3, "applications", 5)
//	log.ErrorErr(log.CatPlatform, "Failed to apply cursor", err, "cursor", name)
//
// The package-level logger writes to stderr at info level until Init is
// called.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

// Category groups log lines by subsystem.
type Category string

const (
	CatApp      Category = "app"
	CatConfig   Category = "config"
	CatRegistry Category = "registry"
	CatChanger  Category = "changer"
	CatWatch    Category = "watch"
	CatPlatform Category = "platform"
	CatDB       Category = "db"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, slog.LevelInfo)
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts "debug", "info", "warn" or "error" into a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Init replaces the package logger.
func Init(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, level)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Enabled reports whether lines at the given level would be written.
func Enabled(level slog.Level) bool {
	return current().Handler().Enabled(context.Background(), level)
}

func Debug(cat Category, msg string, kv ...any) {
	current().Debug(msg, append([]any{"cat", string(cat)}, kv...)...)
}

func Info(cat Category, msg string, kv ...any) {
	current().Info(msg, append([]any{"cat", string(cat)}, kv...)...)
}

func Warn(cat Category, msg string, kv ...any) {
	current().Warn(msg, append([]any{"cat", string(cat)}, kv...)...)
}

// ErrorErr logs msg at error level with err attached.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	current().Error(msg, append([]any{"cat", string(cat), "err", err}, kv...)...)
}

// SafeGo runs fn on a new goroutine and logs, rather than propagates, a panic.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				current().Error("goroutine panicked",
					"cat", string(CatApp), "goroutine", name, "panic", r, "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
