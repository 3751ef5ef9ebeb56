package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"markestedt/prokeys/config"
	"markestedt/prokeys/indent"
	"markestedt/prokeys/platform"
	"markestedt/prokeys/preprocess"
	"markestedt/prokeys/storage"
	"markestedt/prokeys/trigger"
	"markestedt/prokeys/typer"
	"markestedt/prokeys/web"
)

// Agent coordinates trigger detection, clipboard capture, and typing
type Agent struct {
	cfg       *config.Config
	source    platform.Source
	clipboard platform.Clipboard
	engine    *typer.Engine
	pipeline  *preprocess.Pipeline
	db        *storage.DB
	web       *web.Server
	paused    atomic.Bool
}

// NewAgent creates a new agent instance. The db and web server are
// optional.
func NewAgent(cfg *config.Config, db *storage.DB, srv *web.Server) *Agent {
	var comp *indent.Compensator
	if cfg.Indent.Compensate {
		comp = indent.New()
		if cfg.Indent.Unit > 0 {
			comp.Unit = cfg.Indent.Unit
		}
		if cfg.Indent.TriggerSuffix != "" {
			comp.TriggerSuffix = cfg.Indent.TriggerSuffix
		}
	}

	clipboard := platform.NewClipboard()
	engine := typer.New(platform.NewSynthesizer(), clipboard, typer.Options{
		Delay:       cfg.KeystrokeDelay(),
		WindowsMode: cfg.Typing.WindowsMode,
		Compensator: comp,
	})

	return &Agent{
		cfg:       cfg,
		source:    platform.NewSource(),
		clipboard: clipboard,
		engine:    engine,
		pipeline:  preprocess.NewPipeline(preprocess.NormalizeNewlines),
		db:        db,
		web:       srv,
	}
}

// SetPaused toggles whether trigger presses are acted on
func (a *Agent) SetPaused(paused bool) {
	a.paused.Store(paused)
	if paused {
		slog.Info("Listening paused")
	} else {
		slog.Info("Listening resumed")
	}
}

// Run starts the agent's main event loop
func (a *Agent) Run(ctx context.Context) error {
	combo, err := trigger.ParseCombo(a.cfg.Trigger.Combo)
	if err != nil {
		return fmt.Errorf("failed to parse trigger key: %w", err)
	}

	policy, err := a.cfg.RearmPolicy()
	if err != nil {
		return err
	}

	detector := trigger.NewDetector(combo, policy)

	events, err := a.source.Events(ctx)
	if err != nil {
		return fmt.Errorf("failed to start key listener: %w", err)
	}

	slog.Info("ProKeys started",
		"trigger", combo.String(),
		"delay", a.cfg.KeystrokeDelay(),
		"windows_mode", a.cfg.Typing.WindowsMode)
	a.setStatus("listening")

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-events:
			if !ok {
				return nil
			}

			tev := trigger.Event{Down: evt.Down, Char: evt.Char, Name: trigger.Key(evt.Name), Err: evt.Err}

			if trigger.Terminal(tev) {
				slog.Info("Escape pressed, exiting")
				return nil
			}

			if a.paused.Load() {
				continue
			}

			if detector.HandleEvent(tev) {
				// Pressed keys are forgotten so releasing the combo
				// mid-typing cannot re-fire it.
				detector.Clear()
				go a.handleTrigger(ctx)
			}
		}
	}
}

// TypeClipboard types the current clipboard content once. Used by the
// --once flag.
func (a *Agent) TypeClipboard(ctx context.Context) error {
	_, err := a.typeClipboard(ctx)
	return err
}

// handleTrigger runs one typing session in response to the trigger key
func (a *Agent) handleTrigger(ctx context.Context) {
	res, err := a.typeClipboard(ctx)
	if errors.Is(err, typer.ErrBusy) {
		slog.Warn("Trigger ignored, typing already in progress")
		return
	}
	a.record(res, err)
}

func (a *Agent) typeClipboard(ctx context.Context) (*typer.Result, error) {
	content, err := a.clipboard.Get()
	if err != nil {
		slog.Warn("Failed to read clipboard", "error", err)
		content = ""
	}

	if content, err = a.pipeline.Process(ctx, content); err != nil {
		return nil, err
	}

	a.setStatus("typing")
	defer a.setStatus("listening")

	res, err := a.engine.Type(ctx, content)
	if err != nil && !errors.Is(err, typer.ErrBusy) {
		slog.Error("Typing failed", "error", err)
	}
	return res, err
}

// record persists the session and pushes it to the dashboard
func (a *Agent) record(res *typer.Result, typeErr error) {
	if res == nil || res.Empty {
		return
	}

	sess := &storage.Session{
		CharacterCount: res.Chars,
		LineCount:      res.Lines,
		Strategy:       res.Strategy.String(),
		FallbackCount:  len(res.Attempts),
		DurationMs:     res.Duration.Milliseconds(),
		SpeedWPM:       a.cfg.Typing.SpeedWPM,
		Interrupted:    res.Interrupted,
		Success:        typeErr == nil && !res.Interrupted,
	}
	if typeErr != nil {
		sess.ErrorMessage = typeErr.Error()
	}
	sess.Timestamp = time.Now()

	if a.db != nil {
		if err := a.db.SaveSession(sess); err != nil {
			slog.Error("Failed to save session", "error", err)
		}
	}
	if a.web != nil {
		a.web.BroadcastSession(sess)
	}
}

func (a *Agent) setStatus(status string) {
	if a.web != nil {
		a.web.SetStatus(status)
	}
}
