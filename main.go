package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"markestedt/prokeys/config"
	"markestedt/prokeys/storage"
	"markestedt/prokeys/systray"
	"markestedt/prokeys/timing"
	"markestedt/prokeys/web"
)

func main() {
	delay := pflag.Float64("delay", 0, "seconds between keystrokes (overrides configured speed)")
	triggerKey := pflag.String("trigger-key", "", "trigger key combo, e.g. ctrl+shift+v")
	windowsMode := pflag.Bool("windows-mode", false, "paste via clipboard first, fall back to typing")
	once := pflag.Bool("once", false, "type the clipboard once and exit")
	showConfig := pflag.Bool("show-config", false, "print the effective configuration and exit")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Command line overrides
	if pflag.CommandLine.Changed("delay") {
		if *delay < 0 {
			slog.Error("Delay must not be negative", "delay", *delay)
			os.Exit(1)
		}
		cfg.Typing.Delay = *delay
		cfg.Typing.SpeedWPM = timing.WPMForDelay(cfg.KeystrokeDelay())
	}
	if *triggerKey != "" {
		cfg.Trigger.Combo = *triggerKey
	}
	if pflag.CommandLine.Changed("windows-mode") {
		cfg.Typing.WindowsMode = *windowsMode
	}

	// Setup logging
	level := slog.LevelInfo
	if cfg.DeveloperMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if *showConfig {
		printConfig(cfg)
		return
	}

	configPath, _ := config.ConfigPath()
	slog.Info("Configuration loaded", "path", configPath)

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *once {
		agent := NewAgent(cfg, nil, nil)
		if err := agent.TypeClipboard(ctx); err != nil {
			slog.Error("Typing failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Open session history storage
	var db *storage.DB
	if dir, err := config.ConfigDir(); err != nil {
		slog.Warn("Config directory unavailable, history disabled", "error", err)
	} else if db, err = storage.Open(dir); err != nil {
		slog.Warn("Failed to open history database, history disabled", "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	// Start web dashboard
	var srv *web.Server
	if cfg.Web.Enabled && db != nil {
		srv = web.NewServer(db, cfg, cfg.Web.Port)
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("Web server stopped", "error", err)
			}
		}()
	}

	agent := NewAgent(cfg, db, srv)

	// System tray runs on the main thread; the agent moves to a
	// goroutine.
	tray := systray.NewManager(cfg.Web.Port, cfg.Web.Enabled, nil)

	agentDone := make(chan error, 1)
	go func() {
		agentDone <- agent.Run(ctx)
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				tray.Stop()
				return
			case <-tray.WaitForQuit():
				cancel()
				return
			case paused := <-tray.PauseEvents():
				agent.SetPaused(paused)
			case err := <-agentDone:
				if err != nil {
					slog.Error("Agent error", "error", err)
				}
				cancel()
				tray.Stop()
				return
			}
		}
	}()

	tray.Run()

	slog.Info("ProKeys stopped")
}

// printConfig reports the effective settings for --show-config
func printConfig(cfg *config.Config) {
	fmt.Printf("typing speed:    %d WPM (%s)\n", cfg.Typing.SpeedWPM, timing.SpeedCategory(cfg.Typing.SpeedWPM))
	fmt.Printf("keystroke delay: %s\n", cfg.KeystrokeDelay())
	fmt.Printf("trigger key:     %s\n", cfg.Trigger.Combo)
	fmt.Printf("rearm:           %s\n", cfg.Trigger.Rearm)
	fmt.Printf("windows mode:    %t\n", cfg.Typing.WindowsMode)
	fmt.Printf("indent compensation: %t (unit %d, suffix %q)\n", cfg.Indent.Compensate, cfg.Indent.Unit, cfg.Indent.TriggerSuffix)
	fmt.Printf("web dashboard:   enabled=%t port=%d\n", cfg.Web.Enabled, cfg.Web.Port)
}
