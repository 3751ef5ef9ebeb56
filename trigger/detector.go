package trigger

import (
	"sync"
	"unicode"
)

// RearmPolicy controls when the detector may fire again after a trigger.
type RearmPolicy int

const (
	// RearmImmediate re-arms as soon as the pressed set is cleared.
	RearmImmediate RearmPolicy = iota
	// RearmOnRelease requires every combo key to be released first.
	RearmOnRelease
)

// Event is one key transition from the event source. Char carries a
// printable character, Name a named logical key; Err marks an event the
// platform could not decode cleanly.
type Event struct {
	Down bool
	Char rune
	Name Key
	Err  error
}

// logical returns the normalized key for the event, or "" when the event
// carries neither a character nor a named key.
func (ev Event) logical() Key {
	if ev.Name != "" {
		return ev.Name
	}
	if ev.Char != 0 {
		return Key(string(unicode.ToLower(ev.Char)))
	}
	return ""
}

// Terminal reports whether the event is the dedicated session-ending key.
// It works even on events with a decode error, so the escape hatch stays
// reachable when decoding misbehaves.
func Terminal(ev Event) bool {
	return ev.Name == KeyEsc
}

// Detector tracks the process-wide set of currently-held keys and fires
// when the configured combination is fully depressed. It is safe for
// concurrent use: the event loop mutates the pressed set while the
// dispatched typing task clears it.
type Detector struct {
	mu      sync.Mutex
	combo   Combo
	pressed map[Key]struct{}
	policy  RearmPolicy
	armed   bool
}

// NewDetector creates a detector for the given combination.
func NewDetector(combo Combo, policy RearmPolicy) *Detector {
	return &Detector{
		combo:   combo,
		pressed: make(map[Key]struct{}),
		policy:  policy,
		armed:   true,
	}
}

// HandleEvent feeds one key transition through the state machine and
// reports whether the trigger fired. Events with decode errors are
// swallowed as no-ops. The caller must Clear the pressed set as part of
// handling a fire, or the combo re-fires on every later key-down while
// it remains held.
func (d *Detector) HandleEvent(ev Event) bool {
	if ev.Err != nil {
		return false
	}
	key := ev.logical()
	if key == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if ev.Down {
		d.pressed[key] = struct{}{}
		if d.armed && d.holdsCombo() {
			if d.policy == RearmOnRelease {
				d.armed = false
			}
			return true
		}
		return false
	}

	delete(d.pressed, key)
	if d.policy == RearmOnRelease && !d.armed && !d.holdsAnyComboKey() {
		d.armed = true
	}
	return false
}

// Clear empties the pressed set. Called by the trigger handler so
// key-up noise from the combo itself cannot re-fire it.
func (d *Detector) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pressed = make(map[Key]struct{})
}

// Pressed returns a snapshot of the currently-held keys.
func (d *Detector) Pressed() []Key {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]Key, 0, len(d.pressed))
	for k := range d.pressed {
		keys = append(keys, k)
	}
	return keys
}

func (d *Detector) holdsCombo() bool {
	for k := range d.combo {
		if _, ok := d.pressed[k]; !ok {
			return false
		}
	}
	return true
}

func (d *Detector) holdsAnyComboKey() bool {
	for k := range d.combo {
		if _, ok := d.pressed[k]; ok {
			return true
		}
	}
	return false
}
