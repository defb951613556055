//go:build windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// WindowClass is the class name of the host window. RequestClose finds the
// window of a running instance by it.
const WindowClass = "cursorswap_host"

const (
	imageCursor    = 2
	lrLoadFromFile = 0x0010
	lrDefaultColor = 0x0000
	spiSetCursors  = 0x0057

	wmDestroy = 0x0002
	wmClose   = 0x0010

	csHRedraw          = 0x0002
	csVRedraw          = 0x0001
	csOwnDC            = 0x0020
	wsOverlappedWindow = 0x00CF0000
	wsVisible          = 0x10000000
	cwUseDefault       = ^uintptr(0x7FFFFFFF) // (int)0x80000000
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetCursorPos          = user32.NewProc("GetCursorPos")
	procWindowFromPoint       = user32.NewProc("WindowFromPoint")
	procLoadImageW            = user32.NewProc("LoadImageW")
	procCopyIcon              = user32.NewProc("CopyIcon")
	procDestroyCursor         = user32.NewProc("DestroyCursor")
	procSetSystemCursor       = user32.NewProc("SetSystemCursor")
	procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")
	procRegisterClassExW      = user32.NewProc("RegisterClassExW")
	procCreateWindowExW       = user32.NewProc("CreateWindowExW")
	procDefWindowProcW        = user32.NewProc("DefWindowProcW")
	procGetMessageW           = user32.NewProc("GetMessageW")
	procTranslateMessage      = user32.NewProc("TranslateMessage")
	procDispatchMessageW      = user32.NewProc("DispatchMessageW")
	procPostQuitMessage       = user32.NewProc("PostQuitMessage")
	procPostMessageW          = user32.NewProc("PostMessageW")
	procFindWindowW           = user32.NewProc("FindWindowW")
)

type point struct {
	X, Y int32
}

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type msg struct {
	Hwnd    windows.HWND
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
	Private uint32
}

// win32 is the Windows implementation of Platform.
type win32 struct{}

// Native returns the platform implementation for the running OS.
func Native() Platform {
	return win32{}
}

func (win32) Available() (bool, string) {
	if err := user32.Load(); err != nil {
		return false, fmt.Sprintf("user32.dll unavailable: %v", err)
	}
	return true, ""
}

func (win32) CursorPosition() (Point, bool) {
	var p point
	r, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if r == 0 {
		return Point{}, false
	}
	return Point{X: p.X, Y: p.Y}, true
}

func (win32) ProcessAt(p Point) (ProcessID, bool) {
	// POINT is passed by value; on 64-bit targets it travels packed in a
	// single register.
	var hwnd uintptr
	if unsafe.Sizeof(uintptr(0)) == 8 {
		packed := uint64(uint32(p.X)) | uint64(uint32(p.Y))<<32
		hwnd, _, _ = procWindowFromPoint.Call(uintptr(packed))
	} else {
		hwnd, _, _ = procWindowFromPoint.Call(uintptr(uint32(p.X)), uintptr(uint32(p.Y)))
	}
	if hwnd == 0 {
		return 0, false
	}

	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(windows.HWND(hwnd), &pid); err != nil || pid == 0 {
		return 0, false
	}
	return ProcessID(pid), true
}

func (win32) ExecutablePath(pid ProcessID) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return "", fmt.Errorf("%w: open process %d: %v", ErrResolution, pid, err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("%w: query image name of process %d: %v", ErrResolution, pid, err)
	}
	return windows.UTF16ToString(buf[:size]), nil
}

func (win32) ProcessStartTime(pid ProcessID) (time.Time, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: open process %d: %v", ErrResolution, pid, err)
	}
	defer windows.CloseHandle(h)

	var created, exited, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(h, &created, &exited, &kernel, &user); err != nil {
		return time.Time{}, fmt.Errorf("%w: process times of %d: %v", ErrResolution, pid, err)
	}
	return time.Unix(0, created.Nanoseconds()), nil
}

func (win32) LoadCursor(path string) (CursorHandle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor path %q: %w", path, err)
	}
	h, _, callErr := procLoadImageW.Call(0, uintptr(unsafe.Pointer(p)), imageCursor, 0, 0, lrLoadFromFile|lrDefaultColor)
	if h == 0 {
		return 0, fmt.Errorf("LoadImageW %s: %w", path, callErr)
	}
	return CursorHandle(h), nil
}

func (win32) ReleaseCursor(h CursorHandle) error {
	if r, _, err := procDestroyCursor.Call(uintptr(h)); r == 0 {
		return fmt.Errorf("DestroyCursor: %w", err)
	}
	return nil
}

// ApplyCursor hands the system a fresh copy of h for every role because
// SetSystemCursor takes ownership of (and later destroys) what it is given.
func (win32) ApplyCursor(h CursorHandle) error {
	var errs []error
	for _, role := range Roles {
		copied, _, err := procCopyIcon.Call(uintptr(h))
		if copied == 0 {
			errs = append(errs, fmt.Errorf("CopyIcon for %s: %w", role, err))
			continue
		}
		if r, _, err := procSetSystemCursor.Call(copied, uintptr(role)); r == 0 {
			procDestroyCursor.Call(copied)
			errs = append(errs, fmt.Errorf("SetSystemCursor %s: %w", role, err))
		}
	}
	return errors.Join(errs...)
}

func (win32) RestoreDefaultCursors() error {
	if r, _, err := procSystemParametersInfoW.Call(spiSetCursors, 0, 0, 0); r == 0 {
		return fmt.Errorf("SystemParametersInfoW(SPI_SETCURSORS): %w", err)
	}
	return nil
}

func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	if message == wmDestroy {
		procPostQuitMessage.Call(0)
		return 0
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return r
}

// Run creates the host window and pumps its messages on the calling OS
// thread until the window is destroyed. Cancelling ctx closes the window.
func (win32) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		return fmt.Errorf("GetModuleHandleEx: %w", err)
	}

	className, err := windows.UTF16PtrFromString(WindowClass)
	if err != nil {
		return err
	}
	title, err := windows.UTF16PtrFromString("cursorswap")
	if err != nil {
		return err
	}

	wc := wndClassEx{
		Style:     csOwnDC | csHRedraw | csVRedraw,
		WndProc:   windows.NewCallback(wndProc),
		Instance:  instance,
		ClassName: className,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))
	if r, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
		return fmt.Errorf("RegisterClassExW: %w", err)
	}

	hwnd, _, err := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		wsOverlappedWindow|wsVisible,
		cwUseDefault, cwUseDefault, cwUseDefault, cwUseDefault,
		0, 0, uintptr(instance), 0,
	)
	if hwnd == 0 {
		return fmt.Errorf("CreateWindowExW: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			procPostMessageW.Call(hwnd, wmClose, 0, 0)
		case <-done:
		}
	}()

	var m msg
	for {
		r, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("GetMessageW: %w", err)
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// RequestClose posts WM_CLOSE to the host window of a running instance.
func RequestClose() error {
	className, err := windows.UTF16PtrFromString(WindowClass)
	if err != nil {
		return err
	}
	hwnd, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(className)), 0)
	if hwnd == 0 {
		return fmt.Errorf("no %s window found", WindowClass)
	}
	if r, _, err := procPostMessageW.Call(hwnd, wmClose, 0, 0); r == 0 {
		return fmt.Errorf("PostMessageW: %w", err)
	}
	return nil
}

var (
	_ Platform       = win32{}
	_ StartTimeProbe = win32{}
)
