//go:build windows

package platform

import "fmt"

// Windows virtual-key codes for the keys the synthesizer and the hook
// care about. Printable keys are named by their unshifted character.
const (
	vkBackspace = 0x08
	vkTab       = 0x09
	vkEnter     = 0x0D
	vkShift     = 0x10
	vkCtrl      = 0x11
	vkAlt       = 0x12
	vkEsc       = 0x1B
	vkSpace     = 0x20
	vkEnd       = 0x23
	vkHome      = 0x24
	vkLShift    = 0xA0
	vkRShift    = 0xA1
	vkLCtrl     = 0xA2
	vkRCtrl     = 0xA3
	vkLAlt      = 0xA4
	vkRAlt      = 0xA5
	vkLWin      = 0x5B
	vkRWin      = 0x5C
)

var namedVKCodes = map[string]uint16{
	"backspace": vkBackspace,
	"tab":       vkTab,
	"enter":     vkEnter,
	"shift":     vkShift,
	"ctrl":      vkCtrl,
	"alt":       vkAlt,
	"esc":       vkEsc,
	"space":     vkSpace,
	"end":       vkEnd,
	"home":      vkHome,
	"super":     vkLWin,
}

// OEM punctuation keys on the US layout.
var oemVKCodes = map[rune]uint16{
	';':  0xBA,
	'=':  0xBB,
	',':  0xBC,
	'-':  0xBD,
	'.':  0xBE,
	'/':  0xBF,
	'`':  0xC0,
	'[':  0xDB,
	'\\': 0xDC,
	']':  0xDD,
	'\'': 0xDE,
}

// vkCode resolves a key name to a virtual-key code.
func vkCode(key string) (uint16, error) {
	if code, ok := namedVKCodes[key]; ok {
		return code, nil
	}
	runes := []rune(key)
	if len(runes) == 1 {
		ch := runes[0]
		switch {
		case ch >= 'a' && ch <= 'z':
			return uint16(ch - 'a' + 'A'), nil
		case ch >= '0' && ch <= '9':
			return uint16(ch), nil
		case ch == ' ':
			return vkSpace, nil
		}
		if code, ok := oemVKCodes[ch]; ok {
			return code, nil
		}
	}
	return 0, fmt.Errorf("no virtual-key code for key %q", key)
}

var vkToChar = func() map[uint16]rune {
	m := make(map[uint16]rune, len(oemVKCodes))
	for ch, code := range oemVKCodes {
		m[code] = ch
	}
	return m
}()

// decodeVK converts a raw virtual-key code from the hook into a KeyEvent.
func decodeVK(vk uint32, down bool) KeyEvent {
	ev := KeyEvent{Down: down}
	switch {
	case vk >= 'A' && vk <= 'Z':
		ev.Char = rune(vk - 'A' + 'a')
	case vk >= '0' && vk <= '9':
		ev.Char = rune(vk)
	default:
		switch vk {
		case vkShift, vkLShift, vkRShift:
			ev.Name = "shift"
		case vkCtrl, vkLCtrl, vkRCtrl:
			ev.Name = "ctrl"
		case vkAlt, vkLAlt, vkRAlt:
			ev.Name = "alt"
		case vkLWin, vkRWin:
			ev.Name = "super"
		case vkEsc:
			ev.Name = "esc"
		case vkSpace:
			ev.Name = "space"
		case vkEnter:
			ev.Name = "enter"
		case vkTab:
			ev.Name = "tab"
		default:
			if ch, ok := vkToChar[uint16(vk)]; ok {
				ev.Char = ch
			} else {
				ev.Err = fmt.Errorf("undecodable virtual key 0x%02X", vk)
			}
		}
	}
	return ev
}
