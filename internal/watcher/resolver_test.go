package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/cursorswap/internal/changer"
	"github.com/blackwell-systems/cursorswap/internal/platform"
	"github.com/blackwell-systems/cursorswap/internal/platform/platformtest"
)

func TestResolve_NothingUnderPointer(t *testing.T) {
	fake := platformtest.New(platformtest.Nothing())
	r := NewResolver(fake, time.Minute)

	obs, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, changer.Observation{}, obs)
}

func TestResolve_CachesPathPerProcess(t *testing.T) {
	fake := platformtest.New(platformtest.Under(notepad))
	r := NewResolver(fake, time.Minute)

	for i := 0; i < 5; i++ {
		obs, err := r.Resolve()
		require.NoError(t, err)
		assert.Equal(t, changer.Observation{Found: true, ExePath: notepad}, obs)
	}
	assert.Equal(t, 1, fake.PathLookups(platform.ProcessID(1)))
}

func TestResolve_ZeroTTLDisablesCache(t *testing.T) {
	fake := platformtest.New(platformtest.Under(notepad))
	r := NewResolver(fake, 0)

	for i := 0; i < 5; i++ {
		_, err := r.Resolve()
		require.NoError(t, err)
	}
	assert.Equal(t, 5, fake.PathLookups(platform.ProcessID(1)))
}

func TestResolve_PathError(t *testing.T) {
	fake := platformtest.New(platformtest.Sample{Path: notepad, Found: true, Err: platform.ErrResolution})
	r := NewResolver(fake, time.Minute)

	obs, err := r.Resolve()
	assert.ErrorIs(t, err, platform.ErrResolution)
	assert.False(t, obs.Found)

	// Failures are not cached.
	_, err = r.Resolve()
	assert.Error(t, err)
	assert.Equal(t, 2, fake.PathLookups(platform.ProcessID(1)))
}

func TestResolve_ReusedPIDIsNotServedFromCache(t *testing.T) {
	const pid = platform.ProcessID(7)
	fake := platformtest.New(
		platformtest.Sample{PID: pid, Path: notepad, Found: true},
		platformtest.Sample{PID: pid, Path: calc, Found: true},
	)
	r := NewResolver(fake, time.Minute)

	obs, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, notepad, obs.ExePath)

	obs, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, calc, obs.ExePath, "a new process on the same id must be looked up again")
	assert.Equal(t, 2, fake.PathLookups(pid))

	// Same process again: cached.
	_, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, fake.PathLookups(pid))
}
