// Package trigger recognizes a configured key combination in a live
// key-event stream.
package trigger

import (
	"fmt"
	"sort"
	"strings"
)

// Key is a normalized logical key identifier: a named modifier, a named
// special key, or a single lower-cased character.
type Key string

const (
	KeyCtrl  Key = "ctrl"
	KeyShift Key = "shift"
	KeyAlt   Key = "alt"
	KeySuper Key = "super"
	KeyEsc   Key = "esc"
	KeySpace Key = "space"
	KeyEnter Key = "enter"
	KeyTab   Key = "tab"
)

// Combo is the set of logical keys that must be simultaneously held.
// Order-independent; duplicates collapse.
type Combo map[Key]struct{}

var modifierAliases = map[string]Key{
	"ctrl":    KeyCtrl,
	"control": KeyCtrl,
	"shift":   KeyShift,
	"alt":     KeyAlt,
	"super":   KeySuper,
	"cmd":     KeySuper,
	"win":     KeySuper,
	"windows": KeySuper,
}

var namedKeys = map[string]Key{
	"esc":    KeyEsc,
	"escape": KeyEsc,
	"space":  KeySpace,
	"enter":  KeyEnter,
	"return": KeyEnter,
	"tab":    KeyTab,
}

// ParseCombo parses a human-readable combination like "ctrl+shift+v".
func ParseCombo(s string) (Combo, error) {
	combo := make(Combo)
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case modifierAliases[part] != "":
			combo[modifierAliases[part]] = struct{}{}
		case namedKeys[part] != "":
			combo[namedKeys[part]] = struct{}{}
		case len([]rune(part)) == 1:
			combo[Key(part)] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown key %q in combination %q", part, s)
		}
	}
	if len(combo) == 0 {
		return nil, fmt.Errorf("empty key combination %q", s)
	}
	return combo, nil
}

func (c Combo) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return strings.Join(keys, "+")
}
