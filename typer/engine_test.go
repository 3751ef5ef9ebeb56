package typer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/prokeys/indent"
)

// fakeSynth records every synthesis call and fails the methods listed in
// failing.
type fakeSynth struct {
	calls   []string
	failing map[string]bool
}

func newFakeSynth(failing ...string) *fakeSynth {
	f := &fakeSynth{failing: make(map[string]bool)}
	for _, m := range failing {
		f.failing[m] = true
	}
	return f
}

func (f *fakeSynth) record(method, detail string) error {
	f.calls = append(f.calls, method+":"+detail)
	if f.failing[method] {
		return fmt.Errorf("%s refused", method)
	}
	return nil
}

func (f *fakeSynth) PressAndRelease(key string) error { return f.record("press", key) }
func (f *fakeSynth) Hold(key string) error            { return f.record("hold", key) }
func (f *fakeSynth) Release(key string) error         { return f.record("release", key) }
func (f *fakeSynth) Combo(keys ...string) error {
	detail := ""
	for i, k := range keys {
		if i > 0 {
			detail += "+"
		}
		detail += k
	}
	return f.record("combo", detail)
}
func (f *fakeSynth) WriteText(text string, _ time.Duration) error {
	return f.record("write", text)
}

type fakeClipboard struct {
	content string
	history []string
	getErr  error
	setErr  error
}

func (f *fakeClipboard) Get() (string, error) {
	return f.content, f.getErr
}

func (f *fakeClipboard) Set(text string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.content = text
	f.history = append(f.history, text)
	return nil
}

func newEngine(synth *fakeSynth, clip *fakeClipboard, opts Options) *Engine {
	// Instant pacing keeps the tests fast.
	if opts.StabilizePause == 0 {
		opts.StabilizePause = time.Nanosecond
	}
	return New(synth, clip, opts)
}

func TestTypeEmptyContent(t *testing.T) {
	synth := newFakeSynth()
	res, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Empty(t, synth.calls, "empty payload must perform zero synthesis calls")
}

func TestTypePlatformNative(t *testing.T) {
	synth := newFakeSynth()
	res, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(context.Background(), "Hi!")
	require.NoError(t, err)
	assert.Equal(t, StrategyPlatformNative, res.Strategy)
	assert.Empty(t, res.Attempts)
	assert.Equal(t, []string{
		"combo:shift+h", // H
		"press:i",
		"combo:shift+1", // !
	}, synth.calls)
}

func TestTypePlatformNativeIndentedLines(t *testing.T) {
	synth := newFakeSynth()
	res, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(context.Background(), "if x:\n\ty = 1")
	require.NoError(t, err)
	assert.Equal(t, StrategyPlatformNative, res.Strategy)
	assert.Equal(t, 2, res.Lines)
	assert.Equal(t, []string{
		"press:i", "press:f", "press:space", "press:x", "combo:shift+;",
		"press:enter",
		"press:home", // undo any auto-indent before replaying whitespace
		"press:tab",
		"press:y", "press:space", "press:=", "press:space", "press:1",
	}, synth.calls)
}

func TestTypeWindowsModeUsesClipboardPaste(t *testing.T) {
	synth := newFakeSynth()
	clip := &fakeClipboard{content: "previous"}
	res, err := newEngine(synth, clip, Options{WindowsMode: true}).Type(context.Background(), "payload")
	require.NoError(t, err)
	assert.Equal(t, StrategyClipboardPaste, res.Strategy)
	assert.Equal(t, []string{"combo:ctrl+v"}, synth.calls)
	assert.Equal(t, []string{"payload", "previous"}, clip.history, "clipboard must be staged then restored")
	assert.Equal(t, "previous", clip.content)
}

func TestTypeClipboardReadFailureIsNotFatal(t *testing.T) {
	synth := newFakeSynth()
	clip := &fakeClipboard{getErr: errors.New("clipboard locked")}
	res, err := newEngine(synth, clip, Options{WindowsMode: true}).Type(context.Background(), "payload")
	require.NoError(t, err)
	assert.Equal(t, StrategyClipboardPaste, res.Strategy)
	// Nothing to restore when the pre-read failed.
	assert.Equal(t, []string{"payload"}, clip.history)
}

func TestTypeEscalatesToUnicodeFallback(t *testing.T) {
	// Per-key synthesis fails, bulk write works.
	synth := newFakeSynth("press", "combo")
	res, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, StrategyUnicodeFallback, res.Strategy)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, StrategyPlatformNative, res.Attempts[0].Strategy)
	assert.Contains(t, synth.calls, "write:abc")
}

func TestTypeExhaustsAllStrategies(t *testing.T) {
	synth := newFakeSynth("press", "combo", "hold", "release", "write")
	_, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(context.Background(), "abc")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Attempts, 3)
	assert.Equal(t, StrategyPlatformNative, exhausted.Attempts[0].Strategy)
	assert.Equal(t, StrategyUnicodeFallback, exhausted.Attempts[1].Strategy)
	assert.Equal(t, StrategyCharacterSafe, exhausted.Attempts[2].Strategy)
}

func TestTypeCharacterSafeHoldsModifiersExplicitly(t *testing.T) {
	// Chorded synthesis fails; the safe fallback must use hold/release
	// pairs instead and still deliver the shifted characters.
	synth := newFakeSynth("combo", "write")
	res, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(context.Background(), "A!")
	require.NoError(t, err)
	assert.Equal(t, StrategyCharacterSafe, res.Strategy)
	assert.Contains(t, synth.calls, "hold:shift")
	assert.Contains(t, synth.calls, "press:a")
	assert.Contains(t, synth.calls, "press:1")
	assert.Contains(t, synth.calls, "release:shift")
}

func TestTypeCharacterSafeSkipsUnsupported(t *testing.T) {
	synth := newFakeSynth("combo", "write")
	res, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(context.Background(), "A\u00e9b")
	require.NoError(t, err)
	assert.Equal(t, StrategyCharacterSafe, res.Strategy)
	// The unsupported character is attempted as a bulk write and then
	// skipped without aborting the rest of the payload.
	assert.Contains(t, synth.calls, "write:\u00e9")
	assert.Contains(t, synth.calls, "press:a")
	assert.Contains(t, synth.calls, "press:b")
}

func TestTypeUnicodeFallbackCompensatesIndent(t *testing.T) {
	synth := newFakeSynth("press", "combo")
	opts := Options{Compensator: indent.New()}
	res, err := newEngine(synth, &fakeClipboard{}, opts).Type(context.Background(), "if x:\n    y = 1")
	require.NoError(t, err)
	assert.Equal(t, StrategyUnicodeFallback, res.Strategy)
	assert.Contains(t, synth.calls, "write:if x:\ny = 1")
}

func TestTypeInterruption(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	synth := newFakeSynth()
	res, err := newEngine(synth, &fakeClipboard{}, Options{}).Type(ctx, "abc")
	require.NoError(t, err, "interruption is a benign termination, not an error")
	assert.True(t, res.Interrupted)
}

func TestTypeRejectsConcurrentOperations(t *testing.T) {
	synth := newFakeSynth()
	e := newEngine(synth, &fakeClipboard{}, Options{StabilizePause: 50 * time.Millisecond})

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		_, _ = e.Type(context.Background(), "slow payload")
		close(done)
	}()

	<-started
	for !e.Busy() {
		time.Sleep(time.Millisecond)
	}
	_, err := e.Type(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	<-done
}
