package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSamples(t *testing.T) {
	tests := []struct {
		ch   rune
		base rune
		mods Modifier
	}{
		{'a', 'a', 0},
		{'A', 'a', ModShift},
		{'z', 'z', 0},
		{'Z', 'z', ModShift},
		{'1', '1', 0},
		{'!', '1', ModShift},
		{'_', '-', ModShift},
		{'+', '=', ModShift},
		{'{', '[', ModShift},
		{'|', '\\', ModShift},
		{':', ';', ModShift},
		{'"', '\'', ModShift},
		{'?', '/', ModShift},
		{'~', '`', ModShift},
		{' ', ' ', 0},
		{'.', '.', 0},
	}

	for _, tt := range tests {
		s, err := Lookup(tt.ch)
		require.NoError(t, err, "Lookup(%q)", tt.ch)
		assert.Equal(t, tt.base, s.Base, "Lookup(%q) base", tt.ch)
		assert.Equal(t, tt.mods, s.Mods, "Lookup(%q) mods", tt.ch)
	}
}

func TestLookupUnsupported(t *testing.T) {
	for _, ch := range []rune{'é', '\n', '\t', '\x00', '€', '→'} {
		_, err := Lookup(ch)
		assert.ErrorIs(t, err, ErrUnsupported, "Lookup(%q)", ch)
		assert.False(t, Supported(ch), "Supported(%q)", ch)
	}
}

// Every uppercase letter must resolve to shift plus the same physical key
// as its lowercase form, and every shifted symbol to shift plus a key that
// itself resolves with no modifier.
func TestTableInvariants(t *testing.T) {
	for ch := 'a'; ch <= 'z'; ch++ {
		lower, err := Lookup(ch)
		require.NoError(t, err)
		assert.Equal(t, Stroke{Base: ch}, lower)

		upper, err := Lookup(ch - 'a' + 'A')
		require.NoError(t, err)
		assert.Equal(t, Stroke{Base: ch, Mods: ModShift}, upper)
	}

	for sym, base := range shiftedBase {
		s, err := Lookup(sym)
		require.NoError(t, err, "Lookup(%q)", sym)
		assert.Equal(t, Stroke{Base: base, Mods: ModShift}, s, "Lookup(%q)", sym)

		unshifted, err := Lookup(base)
		require.NoError(t, err, "Lookup(%q)", base)
		assert.Equal(t, Modifier(0), unshifted.Mods, "base key %q must be unmodified", base)
	}

	for ch := '0'; ch <= '9'; ch++ {
		s, err := Lookup(ch)
		require.NoError(t, err)
		assert.Equal(t, Stroke{Base: ch}, s)
	}
}

func TestModifierString(t *testing.T) {
	assert.Equal(t, "none", Modifier(0).String())
	assert.Equal(t, "shift", ModShift.String())
	assert.Equal(t, "shift+ctrl", (ModShift | ModCtrl).String())
	assert.True(t, (ModShift | ModCtrl).Has(ModShift))
	assert.False(t, ModShift.Has(ModCtrl))
}
