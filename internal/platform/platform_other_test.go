//go:build !windows

package platform

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNative_Unsupported(t *testing.T) {
	p := Native()

	ok, reason := p.Available()
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	_, err := p.LoadCursor("busy.ani")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, p.ApplyCursor(1), ErrUnsupported)
	assert.ErrorIs(t, p.RestoreDefaultCursors(), ErrUnsupported)
	assert.ErrorIs(t, RequestClose(), ErrUnsupported)

	_, found := p.CursorPosition()
	assert.False(t, found)
}

func TestNative_RunReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, Native().Run(ctx))
}
