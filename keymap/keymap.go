// Package keymap resolves printable characters to the physical key and
// modifier set that produce them on the reference US keyboard layout.
package keymap

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned for characters outside the key table.
// Newline and tab are intentionally not in the table; the typing engine
// handles them structurally.
var ErrUnsupported = errors.New("character not in key table")

// Modifier is a key held together with a base key to alter its output.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether m contains all modifiers in want.
func (m Modifier) Has(want Modifier) bool {
	return m&want == want
}

func (m Modifier) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModSuper) {
		parts = append(parts, "super")
	}
	return strings.Join(parts, "+")
}

// Stroke is the physical key press that produces a character.
type Stroke struct {
	Base rune
	Mods Modifier
}

// Characters typed on their own key with no modifier.
const plainChars = "0123456789abcdefghijklmnopqrstuvwxyz -=[]\\;',./`"

// Shifted symbol -> the unshifted key on the same physical position.
var shiftedBase = map[rune]rune{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', '|': '\\',
	':': ';', '"': '\'', '<': ',', '>': '.', '?': '/',
	'~': '`',
}

var table map[rune]Stroke

func init() {
	table = make(map[rune]Stroke, len(plainChars)+len(shiftedBase)+26)
	for _, ch := range plainChars {
		table[ch] = Stroke{Base: ch}
	}
	for ch := 'a'; ch <= 'z'; ch++ {
		upper := ch - 'a' + 'A'
		table[upper] = Stroke{Base: ch, Mods: ModShift}
	}
	for sym, base := range shiftedBase {
		table[sym] = Stroke{Base: base, Mods: ModShift}
	}
}

// Lookup resolves a character to its key stroke. The lookup is total or
// fails: a character is either fully resolved or ErrUnsupported is
// returned, never a partial match.
func Lookup(ch rune) (Stroke, error) {
	s, ok := table[ch]
	if !ok {
		return Stroke{}, ErrUnsupported
	}
	return s, nil
}

// Supported reports whether Lookup can resolve ch.
func Supported(ch rune) bool {
	_, ok := table[ch]
	return ok
}

// Size returns the number of characters in the table.
func Size() int {
	return len(table)
}
