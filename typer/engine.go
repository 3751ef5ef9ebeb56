// Package typer converts a text payload into synthesized keystrokes,
// escalating across a chain of synthesis strategies when one fails.
package typer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"markestedt/prokeys/indent"
	"markestedt/prokeys/keymap"
	"markestedt/prokeys/platform"
)

// Options configures a typing engine.
type Options struct {
	// Delay is the pause between synthesized keystrokes.
	Delay time.Duration
	// WindowsMode prefers the clipboard-paste strategy, which avoids
	// per-character synthesis across virtualization boundaries.
	WindowsMode bool
	// Compensator, when set, preprocesses the payload for strategies
	// that cannot navigate around editor auto-indentation.
	Compensator *indent.Compensator
	// ProgressEvery is the character interval for progress reports.
	// Zero means every 100 characters.
	ProgressEvery int
	// StabilizePause precedes the first emitted event so window focus
	// can settle after the trigger. Zero means 500ms.
	StabilizePause time.Duration
}

// Result is the audit trail of one typing operation.
type Result struct {
	Strategy    Strategy
	Attempts    []Attempt
	Chars       int
	Lines       int
	Duration    time.Duration
	Interrupted bool
	Empty       bool
}

// Engine orchestrates key lookup, pacing and the strategy chain. Only
// one typing operation may be in flight at a time.
type Engine struct {
	synth platform.Synthesizer
	clip  platform.Clipboard
	opts  Options
	busy  atomic.Bool
}

// New creates a typing engine.
func New(synth platform.Synthesizer, clip platform.Clipboard, opts Options) *Engine {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 100
	}
	if opts.StabilizePause <= 0 {
		opts.StabilizePause = 500 * time.Millisecond
	}
	return &Engine{synth: synth, clip: clip, opts: opts}
}

// Busy reports whether a typing operation is in flight.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

// chain returns the ordered strategy list for this configuration.
func (e *Engine) chain() []Strategy {
	if e.opts.WindowsMode {
		return []Strategy{StrategyClipboardPaste, StrategyUnicodeFallback, StrategyCharacterSafe}
	}
	return []Strategy{StrategyPlatformNative, StrategyUnicodeFallback, StrategyCharacterSafe}
}

// Type emulates manual keyboard input of content into the focused
// application. An empty payload is reported and is a no-op. Each
// strategy failure escalates to the next strategy; cancellation aborts
// the active strategy and is reported as a benign termination. Only
// exhaustion of the final fallback is returned as an error.
func (e *Engine) Type(ctx context.Context, content string) (*Result, error) {
	if content == "" {
		slog.Info("Nothing to type, payload is empty")
		return &Result{Empty: true}, nil
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	chars := utf8.RuneCountInString(content)
	lines := strings.Count(content, "\n") + 1
	slog.Info("Starting to type", "chars", chars, "lines", lines, "delay", e.opts.Delay)

	start := time.Now()
	result := &Result{Chars: chars, Lines: lines}

	// Let window focus settle before the first event.
	if err := sleepCtx(ctx, e.opts.StabilizePause); err != nil {
		result.Interrupted = true
		result.Duration = time.Since(start)
		return result, nil
	}

	for _, strategy := range e.chain() {
		err := e.run(ctx, strategy, content)
		if err == nil {
			result.Strategy = strategy
			result.Duration = time.Since(start)
			slog.Info("Typing finished", "strategy", strategy.String(), "chars", chars, "duration", result.Duration)
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.Interrupted = true
			result.Duration = time.Since(start)
			slog.Info("Typing interrupted", "strategy", strategy.String())
			return result, nil
		}
		result.Attempts = append(result.Attempts, Attempt{Strategy: strategy, Err: err})
		slog.Warn("Typing strategy failed, escalating", "strategy", strategy.String(), "error", err)
	}

	result.Duration = time.Since(start)
	return result, &ExhaustedError{Attempts: result.Attempts}
}

func (e *Engine) run(ctx context.Context, s Strategy, content string) error {
	switch s {
	case StrategyClipboardPaste:
		return e.pasteViaClipboard(ctx, content)
	case StrategyPlatformNative:
		return e.typeLines(ctx, content)
	case StrategyUnicodeFallback:
		text := content
		if e.opts.Compensator != nil {
			text = e.opts.Compensator.Apply(text)
		}
		return e.synth.WriteText(text, e.opts.Delay)
	case StrategyCharacterSafe:
		return e.typeSafe(ctx, content)
	default:
		return fmt.Errorf("unknown strategy %d", s)
	}
}

// pasteViaClipboard stages the payload on the clipboard, synthesizes the
// paste chord and restores whatever was on the clipboard before. The
// restore is best effort and also runs when the operation is cut short.
func (e *Engine) pasteViaClipboard(ctx context.Context, content string) error {
	original, err := e.clip.Get()
	if err != nil {
		slog.Warn("Could not read clipboard before paste, skipping restore", "error", err)
		original = ""
	}

	if err := e.clip.Set(content); err != nil {
		return fmt.Errorf("failed to stage clipboard: %w", err)
	}
	defer func() {
		if original == "" {
			return
		}
		if err := e.clip.Set(original); err != nil {
			slog.Warn("Failed to restore clipboard", "error", err)
		}
	}()

	// Give the clipboard a moment to settle before pasting.
	if err := sleepCtx(ctx, 100*time.Millisecond); err != nil {
		return err
	}
	if err := e.synth.Combo("ctrl", "v"); err != nil {
		return fmt.Errorf("paste chord failed: %w", err)
	}
	return sleepCtx(ctx, 200*time.Millisecond)
}

// typeLines replays the payload line by line. After each newline the
// cursor is moved to line start and the exact leading whitespace is
// reconstructed, undoing whatever the editor auto-indented.
func (e *Engine) typeLines(ctx context.Context, content string) error {
	total := utf8.RuneCountInString(content)
	typed := 0

	for i, line := range strings.Split(content, "\n") {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			if err := e.synth.PressAndRelease("enter"); err != nil {
				return err
			}
			typed++
			// Longer pause so target-side auto-indent settles.
			if err := sleepCtx(ctx, e.opts.Delay*3); err != nil {
				return err
			}
		}

		body := strings.TrimLeft(line, " \t")
		lead := line[:len(line)-len(body)]

		if i > 0 && lead != "" {
			if err := e.synth.PressAndRelease("home"); err != nil {
				return err
			}
			if err := sleepCtx(ctx, e.opts.Delay*2); err != nil {
				return err
			}
			for _, ws := range lead {
				key := "space"
				if ws == '\t' {
					key = "tab"
				}
				if err := e.synth.PressAndRelease(key); err != nil {
					return err
				}
				typed++
				e.reportProgress(typed, total)
				if err := sleepCtx(ctx, e.opts.Delay); err != nil {
					return err
				}
			}
		} else {
			body = line
		}

		for _, ch := range body {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.typeMapped(ch); err != nil {
				return err
			}
			typed++
			e.reportProgress(typed, total)
			if err := sleepCtx(ctx, e.opts.Delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// typeMapped emits one character through the key table. Characters the
// table cannot resolve are bulk-written as a single character; if even
// that fails they are skipped, so progress accounting never desyncs.
func (e *Engine) typeMapped(ch rune) error {
	stroke, err := keymap.Lookup(ch)
	if err != nil {
		if werr := e.synth.WriteText(string(ch), 0); werr != nil {
			slog.Debug("Skipping unsupported character", "char", string(ch), "error", werr)
		}
		return nil
	}
	if stroke.Mods.Has(keymap.ModShift) {
		return e.synth.Combo("shift", string(stroke.Base))
	}
	return e.synth.PressAndRelease(baseKeyName(stroke.Base))
}

func baseKeyName(base rune) string {
	if base == ' ' {
		return "space"
	}
	return string(base)
}

// typeSafe re-types character by character with explicit modifier
// hold/release pairs instead of combined chords, so host-level hotkey
// interception cannot swallow the shift combinations. Characters that
// cannot be synthesized are skipped rather than aborting the payload.
func (e *Engine) typeSafe(ctx context.Context, content string) error {
	total := utf8.RuneCountInString(content)
	typed := 0
	skipped := 0

	for _, ch := range content {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch ch {
		case '\n':
			err = e.synth.PressAndRelease("enter")
		case '\t':
			err = e.synth.PressAndRelease("tab")
		default:
			stroke, lerr := keymap.Lookup(ch)
			switch {
			case lerr != nil:
				err = e.synth.WriteText(string(ch), 0)
			case stroke.Mods.Has(keymap.ModShift):
				err = e.holdShifted(stroke.Base)
			default:
				err = e.synth.PressAndRelease(baseKeyName(stroke.Base))
			}
		}
		if err != nil {
			skipped++
			slog.Debug("Skipping character in safe fallback", "char", string(ch), "error", err)
			continue
		}

		typed++
		e.reportProgress(typed, total)
		if err := sleepCtx(ctx, e.opts.Delay); err != nil {
			return err
		}
	}

	if typed == 0 && total > 0 {
		return fmt.Errorf("could not synthesize any of %d characters", total)
	}
	if skipped > 0 {
		slog.Warn("Safe fallback skipped characters", "skipped", skipped, "typed", typed)
	}
	return nil
}

// holdShifted presses shift, taps the base key and releases shift, with
// short settling gaps between the events.
func (e *Engine) holdShifted(base rune) error {
	if err := e.synth.Hold("shift"); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	pressErr := e.synth.PressAndRelease(string(base))
	time.Sleep(10 * time.Millisecond)
	releaseErr := e.synth.Release("shift")
	if pressErr != nil {
		return pressErr
	}
	return releaseErr
}

func (e *Engine) reportProgress(typed, total int) {
	if typed%e.opts.ProgressEvery == 0 {
		slog.Info("Typing progress", "typed", typed, "total", total)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
