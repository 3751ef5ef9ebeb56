// Package indent rewrites multi-line text so that an auto-indenting
// editor ends up with the original indentation. Many editors indent the
// line following one that ends in a block-opening marker; replaying the
// original leading whitespace on top of that would double-indent.
package indent

import (
	"strings"
	"unicode"
)

// Compensator subtracts the indentation an editor is expected to insert
// on its own. The defaults model a 4-space auto-indent after a line
// ending in ":". Both are editor-specific heuristics, exposed as
// configuration rather than inferred.
type Compensator struct {
	// Unit is the number of spaces the editor auto-inserts.
	Unit int
	// TriggerSuffix is the trailing marker that provokes auto-indent.
	TriggerSuffix string
}

// New returns a compensator with the default 4-space unit and ":" trigger.
func New() *Compensator {
	return &Compensator{Unit: 4, TriggerSuffix: ":"}
}

// Apply rewrites text line by line. Each line's decision depends only on
// its own leading whitespace and the previous line's trailing character;
// content outside leading whitespace is never modified.
func (c *Compensator) Apply(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		if i == 0 {
			out[i] = line
			continue
		}
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			out[i] = ""
			continue
		}
		lead := len(line) - len(trimmed)
		prev := strings.TrimSpace(lines[i-1])
		if strings.HasSuffix(prev, c.TriggerSuffix) && lead >= c.Unit {
			out[i] = strings.Repeat(" ", lead-c.Unit) + trimmed
		} else {
			out[i] = line
		}
	}

	return strings.Join(out, "\n")
}
