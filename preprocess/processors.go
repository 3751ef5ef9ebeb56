package preprocess

import (
	"context"
	"strings"
)

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
// Clipboard text on Windows carries CRLF; the key mapping has no
// carriage return, so this always runs first.
func NormalizeNewlines(ctx context.Context, text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}

// TrimTrailingWhitespace strips spaces and tabs from the end of each
// line.
func TrimTrailingWhitespace(ctx context.Context, text string) (string, error) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n"), nil
}

// ExpandTabs returns a processor that replaces leading tabs with the
// given number of spaces. Tabs after the first non-whitespace
// character are left alone.
func ExpandTabs(width int) Processor {
	if width <= 0 {
		width = 4
	}
	indent := strings.Repeat(" ", width)
	return func(ctx context.Context, text string) (string, error) {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			j := 0
			for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
				j++
			}
			if strings.ContainsRune(line[:j], '\t') {
				lines[i] = strings.NewReplacer("\t", indent).Replace(line[:j]) + line[j:]
			}
		}
		return strings.Join(lines, "\n"), nil
	}
}
