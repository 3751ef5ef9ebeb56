package preprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\r\nc", "a\nb\nc"},
		{"lone cr", "a\rb", "a\nb"},
		{"mixed", "a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"already lf", "a\nb", "a\nb"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeNewlines(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrimTrailingWhitespace(t *testing.T) {
	got, err := TrimTrailingWhitespace(context.Background(), "a  \nb\t\n  c")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n  c", got)
}

func TestExpandTabs(t *testing.T) {
	proc := ExpandTabs(4)

	got, err := proc(context.Background(), "\tx = 1\n\t\ty = 2\na\tb")
	require.NoError(t, err)
	assert.Equal(t, "    x = 1\n        y = 2\na\tb", got)
}

func TestPipelineRunsInOrder(t *testing.T) {
	p := NewPipeline(NormalizeNewlines, TrimTrailingWhitespace)

	got, err := p.Process(context.Background(), "a \r\nb\t\r\nc")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", got)
}

func TestPipelineStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var ran bool

	p := NewPipeline(
		func(ctx context.Context, text string) (string, error) {
			return text + "!", boom
		},
		func(ctx context.Context, text string) (string, error) {
			ran = true
			return text, nil
		},
	)

	got, err := p.Process(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "x!", got)
	assert.False(t, ran)
}

func TestAddProcessor(t *testing.T) {
	p := NewPipeline(NormalizeNewlines)
	p.AddProcessor(TrimTrailingWhitespace)

	got, err := p.Process(context.Background(), "a \r\n")
	require.NoError(t, err)
	assert.Equal(t, "a\n", got)
}
