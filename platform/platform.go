// Package platform hides the OS-specific pieces of keystroke emulation:
// the global key-event stream, the clipboard, and key synthesis.
package platform

import (
	"context"
	"errors"
	"time"
)

// ErrClipboardUnavailable is returned when the clipboard cannot be read.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// KeyEvent is one key transition observed on the system. Char carries a
// printable character, Name a named logical key ("ctrl", "esc", ...).
// Err is set when the event could not be decoded; such events still flow
// downstream so the session-ending key check can be attempted.
type KeyEvent struct {
	Down bool
	Char rune
	Name string
	Err  error
}

// Source delivers the ordered global key-event stream. The channel is
// closed when the context is cancelled or the hook is torn down.
type Source interface {
	Events(ctx context.Context) (<-chan KeyEvent, error)
}

// Clipboard provides clipboard access.
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// Synthesizer generates key events the focused application receives as
// regular input. Keys are named the same way KeyEvent names them: single
// characters for printable keys, lowercase names for special keys.
type Synthesizer interface {
	// PressAndRelease taps a single key.
	PressAndRelease(key string) error
	// Hold presses a key without releasing it.
	Hold(key string) error
	// Release releases a previously held key.
	Release(key string) error
	// Combo presses the keys in order and releases them in reverse,
	// as a hotkey chord.
	Combo(keys ...string) error
	// WriteText injects text directly, bypassing the key table, with
	// the given pause between characters.
	WriteText(text string, interval time.Duration) error
}
