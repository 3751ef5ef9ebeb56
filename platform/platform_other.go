//go:build !windows

package platform

import (
	"context"
	"errors"
	"runtime"
	"time"
)

// Global hooks, SendInput and the Win32 clipboard only exist on Windows.
// Other platforms get stubs so the module builds everywhere; the agent
// reports the error at startup.
var errUnsupported = errors.New("keystroke emulation is not supported on " + runtime.GOOS)

type stubSource struct{}

func NewSource() Source { return stubSource{} }

func (stubSource) Events(ctx context.Context) (<-chan KeyEvent, error) {
	return nil, errUnsupported
}

type stubClipboard struct{}

func NewClipboard() Clipboard { return stubClipboard{} }

func (stubClipboard) Get() (string, error) { return "", errUnsupported }
func (stubClipboard) Set(string) error     { return errUnsupported }

type stubSynthesizer struct{}

func NewSynthesizer() Synthesizer { return stubSynthesizer{} }

func (stubSynthesizer) PressAndRelease(string) error          { return errUnsupported }
func (stubSynthesizer) Hold(string) error                     { return errUnsupported }
func (stubSynthesizer) Release(string) error                  { return errUnsupported }
func (stubSynthesizer) Combo(...string) error                 { return errUnsupported }
func (stubSynthesizer) WriteText(string, time.Duration) error { return errUnsupported }
