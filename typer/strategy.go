package typer

// Strategy is one synthesis technique in the fallback chain.
type Strategy int

const (
	// StrategyPlatformNative types line by line through the key table,
	// reconstructing indentation after each newline.
	StrategyPlatformNative Strategy = iota
	// StrategyClipboardPaste writes the payload to the clipboard and
	// synthesizes the paste chord. Most reliable across virtualization
	// and remote-desktop boundaries.
	StrategyClipboardPaste
	// StrategyUnicodeFallback bulk-writes the raw text, bypassing the
	// key table entirely.
	StrategyUnicodeFallback
	// StrategyCharacterSafe re-types character by character with
	// explicit modifier hold/release pairs, avoiding host-level hotkey
	// interception, and skips what it cannot synthesize.
	StrategyCharacterSafe
)

func (s Strategy) String() string {
	switch s {
	case StrategyPlatformNative:
		return "platform-native"
	case StrategyClipboardPaste:
		return "clipboard-paste"
	case StrategyUnicodeFallback:
		return "unicode-fallback"
	case StrategyCharacterSafe:
		return "character-safe"
	default:
		return "unknown"
	}
}

// Attempt records one strategy's outcome in the fallback audit trail.
type Attempt struct {
	Strategy Strategy
	Err      error
}
