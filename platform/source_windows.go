//go:build windows

package platform

import (
	"context"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	peekMessage         = user32.NewProc("PeekMessageW")
)

const (
	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	pmRemove     = 0x0001
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// hookSource delivers the global key-event stream through a low-level
// keyboard hook. Decoding happens here; combo matching stays out of the
// hook callback so it can be tested without the OS.
type hookSource struct {
	events chan KeyEvent
	hook   uintptr
	done   chan struct{}
}

// NewSource creates the Windows key-event source.
func NewSource() Source {
	return &hookSource{}
}

// Events installs the keyboard hook and returns the decoded stream.
func (s *hookSource) Events(ctx context.Context) (<-chan KeyEvent, error) {
	s.events = make(chan KeyEvent, 64)
	s.done = make(chan struct{})

	errCh := make(chan error, 1)
	go s.runHook(errCh)

	select {
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	go func() {
		<-ctx.Done()
		close(s.done)
		if s.hook != 0 {
			unhookWindowsHookEx.Call(s.hook)
		}
	}()

	return s.events, nil
}

func (s *hookSource) runHook(errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hookProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			kbInfo := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			down := wParam == wmKeydown || wParam == wmSyskeydown
			up := wParam == wmKeyup || wParam == wmSyskeyup
			if down || up {
				// Drop events rather than stall the hook; a full
				// buffer means the consumer is wedged anyway.
				select {
				case s.events <- decodeVK(kbInfo.vkCode, down):
				default:
				}
			}
		}
		r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}

	hook, _, err := setWindowsHookEx.Call(
		whKeyboardLL,
		windows.NewCallback(hookProc),
		0,
		0,
	)
	if hook == 0 {
		errCh <- fmt.Errorf("SetWindowsHookEx failed: %w", err)
		return
	}
	s.hook = hook
	errCh <- nil

	// Message loop keeps the hook serviced on this thread.
	var m msg
	for {
		select {
		case <-s.done:
			close(s.events)
			return
		default:
			r, _, _ := peekMessage.Call(
				uintptr(unsafe.Pointer(&m)),
				0,
				0,
				0,
				pmRemove,
			)
			if r != 0 {
				continue
			}
			runtime.Gosched()
		}
	}
}
