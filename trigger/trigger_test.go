package trigger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCombo(t *testing.T) {
	combo, err := ParseCombo("ctrl+shift+v")
	require.NoError(t, err)
	assert.Equal(t, "ctrl+shift+v", combo.String())

	// Order-independent, duplicates collapse, aliases normalize.
	same, err := ParseCombo("SHIFT + v + Control + shift")
	require.NoError(t, err)
	assert.Equal(t, combo.String(), same.String())

	cmd, err := ParseCombo("cmd+shift+v")
	require.NoError(t, err)
	assert.Contains(t, cmd, KeySuper)

	named, err := ParseCombo("alt+space")
	require.NoError(t, err)
	assert.Contains(t, named, KeySpace)

	_, err = ParseCombo("ctrl+bogus")
	assert.Error(t, err)

	_, err = ParseCombo("")
	assert.Error(t, err)
}

func down(k Key) Event    { return Event{Down: true, Name: k} }
func up(k Key) Event      { return Event{Down: false, Name: k} }
func downCh(c rune) Event { return Event{Down: true, Char: c} }
func upCh(c rune) Event   { return Event{Down: false, Char: c} }

func mustCombo(t *testing.T, s string) Combo {
	t.Helper()
	c, err := ParseCombo(s)
	require.NoError(t, err)
	return c
}

func TestDetectorFiresOnFullComboOnly(t *testing.T) {
	d := NewDetector(mustCombo(t, "ctrl+shift+v"), RearmImmediate)

	assert.False(t, d.HandleEvent(down(KeyCtrl)))
	assert.False(t, d.HandleEvent(down(KeyShift)))
	assert.False(t, d.HandleEvent(downCh('x'))) // unrelated key, still a subset
	assert.True(t, d.HandleEvent(downCh('V')))  // letters normalize to lowercase
}

func TestDetectorClearPreventsRefire(t *testing.T) {
	d := NewDetector(mustCombo(t, "ctrl+shift+v"), RearmImmediate)

	d.HandleEvent(down(KeyCtrl))
	d.HandleEvent(down(KeyShift))
	require.True(t, d.HandleEvent(downCh('v')))

	// The trigger handler clears the set; v alone must not re-fire.
	d.Clear()
	assert.Empty(t, d.Pressed())
	assert.False(t, d.HandleEvent(upCh('v')))
	assert.False(t, d.HandleEvent(downCh('v')))
}

func TestDetectorRearmImmediate(t *testing.T) {
	d := NewDetector(mustCombo(t, "ctrl+v"), RearmImmediate)

	d.HandleEvent(down(KeyCtrl))
	require.True(t, d.HandleEvent(downCh('v')))
	d.Clear()

	// Holding the combo again fires again right away.
	d.HandleEvent(down(KeyCtrl))
	assert.True(t, d.HandleEvent(downCh('v')))
}

func TestDetectorRearmOnRelease(t *testing.T) {
	d := NewDetector(mustCombo(t, "ctrl+v"), RearmOnRelease)

	d.HandleEvent(down(KeyCtrl))
	require.True(t, d.HandleEvent(downCh('v')))
	d.Clear()

	// Without a full release of the combo keys, no re-fire.
	d.HandleEvent(down(KeyCtrl))
	assert.False(t, d.HandleEvent(downCh('v')))

	// Release everything, then the combo arms again.
	d.HandleEvent(up(KeyCtrl))
	d.HandleEvent(upCh('v'))
	d.HandleEvent(down(KeyCtrl))
	assert.True(t, d.HandleEvent(downCh('v')))
}

func TestDetectorSwallowsDecodeErrors(t *testing.T) {
	d := NewDetector(mustCombo(t, "ctrl+v"), RearmImmediate)

	d.HandleEvent(down(KeyCtrl))
	assert.False(t, d.HandleEvent(Event{Down: true, Err: errors.New("undecodable")}))

	// The session-ending key is still recognized on a broken event.
	assert.True(t, Terminal(Event{Name: KeyEsc, Err: errors.New("undecodable")}))
	assert.False(t, Terminal(down(KeyCtrl)))

	// The stream keeps working after the bad event.
	assert.True(t, d.HandleEvent(downCh('v')))
}
