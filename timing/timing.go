// Package timing converts between a typing speed in words per minute and
// the delay to insert between synthesized keystrokes. One "word" is five
// characters, the standard typing-speed convention.
package timing

import (
	"fmt"
	"time"
)

// Accepted WPM range. Values outside it are rejected, never clamped.
const (
	MinWPM = 99
	MaxWPM = 5000
)

// Synthesized keystrokes need proportionally more settling time as the
// nominal rate increases, so the base delay is scaled by a per-tier
// overhead multiplier.
func overhead(wpm int) float64 {
	switch {
	case wpm < 60:
		return 1.2
	case wpm < 120:
		return 1.3
	case wpm < 200:
		return 1.4
	default:
		return 1.5
	}
}

// DelayForWPM returns the inter-keystroke delay for a typing speed.
func DelayForWPM(wpm int) time.Duration {
	base := 60.0 / (float64(wpm) * 5)
	return time.Duration(base * overhead(wpm) * float64(time.Second))
}

// WPMForDelay is the approximate inverse of DelayForWPM. The inverse tier
// is selected by delay thresholds, so round-trips land in the same speed
// tier but not necessarily on the same value. Display convenience only.
func WPMForDelay(d time.Duration) int {
	if d <= 0 {
		return 9999
	}
	sec := d.Seconds()
	base := 60.0 / (sec * 5)
	switch {
	case sec > 0.3:
		return int(base / 1.2)
	case sec > 0.15:
		return int(base / 1.3)
	case sec > 0.08:
		return int(base / 1.4)
	default:
		return int(base / 1.5)
	}
}

// ValidateWPM rejects speeds outside [MinWPM, MaxWPM].
func ValidateWPM(wpm int) error {
	if wpm < MinWPM || wpm > MaxWPM {
		return fmt.Errorf("typing speed must be between %d and %d WPM, got %d", MinWPM, MaxWPM, wpm)
	}
	return nil
}

// SpeedCategory returns a human-readable label for a typing speed.
func SpeedCategory(wpm int) string {
	switch {
	case wpm < 30:
		return "Very Slow"
	case wpm < 60:
		return "Slow"
	case wpm < 120:
		return "Moderate"
	case wpm < 200:
		return "Fast"
	case wpm < 400:
		return "Very Fast"
	default:
		return "Lightning"
	}
}
