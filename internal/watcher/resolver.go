package watcher

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/blackwell-systems/cursorswap/internal/changer"
	"github.com/blackwell-systems/cursorswap/internal/platform"
)

// Resolver finds the executable under the pointer. Executable paths are
// cached per process for ttl so that a tick does not have to query the image
// name every millisecond; a zero ttl disables the cache. When the probe
// reports process start times the cache key includes it, so a reused id
// never answers with the previous owner's path.
type Resolver struct {
	probe platform.Probe
	paths *cache.Cache
}

// NewResolver creates a Resolver over probe.
func NewResolver(probe platform.Probe, ttl time.Duration) *Resolver {
	r := &Resolver{probe: probe}
	if ttl > 0 {
		r.paths = cache.New(ttl, 2*ttl)
	}
	return r
}

// Resolve returns what is under the pointer. A missing pointer or window is
// not an error: the observation simply has Found unset. Errors come only
// from querying the process and wrap platform.ErrResolution.
func (r *Resolver) Resolve() (changer.Observation, error) {
	pos, ok := r.probe.CursorPosition()
	if !ok {
		return changer.Observation{}, nil
	}

	pid, ok := r.probe.ProcessAt(pos)
	if !ok {
		return changer.Observation{}, nil
	}

	var key string
	if r.paths != nil {
		k, err := r.cacheKey(pid)
		if err != nil {
			return changer.Observation{}, err
		}
		key = k
		if path, found := r.paths.Get(key); found {
			return changer.Observation{Found: true, ExePath: path.(string)}, nil
		}
	}

	path, err := r.probe.ExecutablePath(pid)
	if err != nil {
		return changer.Observation{}, err
	}
	if r.paths != nil {
		r.paths.SetDefault(key, path)
	}
	return changer.Observation{Found: true, ExePath: path}, nil
}

func (r *Resolver) cacheKey(pid platform.ProcessID) (string, error) {
	key := strconv.FormatUint(uint64(pid), 10)
	st, ok := r.probe.(platform.StartTimeProbe)
	if !ok {
		return key, nil
	}
	started, err := st.ProcessStartTime(pid)
	if err != nil {
		return "", err
	}
	return key + "@" + strconv.FormatInt(started.UnixNano(), 10), nil
}
