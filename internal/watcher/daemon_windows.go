//go:build windows

package watcher

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/blackwell-systems/cursorswap/internal/platform"
)

const stillActive = 259

func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}

func processAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}

// requestStop closes the daemon's host window. Windows has no SIGTERM, and
// killing the process would leave the custom cursor applied.
func requestStop(*os.Process) error {
	return platform.RequestClose()
}
