package changer

import (
	"strings"

	"github.com/blackwell-systems/cursorswap/internal/registry"
)

// Match returns the index of the first application whose path is a suffix
// of exePath. Applications are scanned in configuration order, so an earlier
// bare file name beats a later, more specific full path. The comparison is
// case-sensitive and does not normalise path separators.
func Match(exePath string, apps []registry.Application) (int, bool) {
	for i, app := range apps {
		if strings.HasSuffix(exePath, app.Path) {
			return i, true
		}
	}
	return -1, false
}
