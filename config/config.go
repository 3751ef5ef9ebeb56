package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"markestedt/prokeys/timing"
	"markestedt/prokeys/trigger"
)

type Config struct {
	Typing        TypingConfig  `toml:"typing"`
	Trigger       TriggerConfig `toml:"trigger"`
	Indent        IndentConfig  `toml:"indent"`
	Web           WebConfig     `toml:"web"`
	DeveloperMode bool          `toml:"developer_mode"`
}

type TypingConfig struct {
	// SpeedWPM is advisory once Delay has been derived from it; Delay
	// is the source of truth while typing.
	SpeedWPM    int     `toml:"typing_speed_wpm"`
	Delay       float64 `toml:"delay"` // seconds between keystrokes
	WindowsMode bool    `toml:"windows_mode"`
}

type TriggerConfig struct {
	Combo string `toml:"trigger_key"`
	// Rearm is "immediate" or "release"; see trigger.RearmPolicy.
	Rearm string `toml:"rearm"`
}

type IndentConfig struct {
	Compensate    bool   `toml:"compensate"`
	Unit          int    `toml:"unit"`
	TriggerSuffix string `toml:"trigger_suffix"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

// Default configuration
func defaultConfig() *Config {
	const wpm = 250
	return &Config{
		Typing: TypingConfig{
			SpeedWPM:    wpm,
			Delay:       timing.DelayForWPM(wpm).Seconds(),
			WindowsMode: false,
		},
		Trigger: TriggerConfig{
			Combo: "ctrl+shift+v",
			Rearm: "immediate",
		},
		Indent: IndentConfig{
			Compensate:    true,
			Unit:          4,
			TriggerSuffix: ":",
		},
		Web: WebConfig{
			Enabled: true,
			Port:    8642,
		},
	}
}

// ConfigDir returns the directory holding the config file and database.
func ConfigDir() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
	}

	configDir := filepath.Join(appData, "prokeys")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the TOML file
// If the file doesn't exist, it creates it with default values
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Load existing config
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Typing.Delay < 0 {
		return nil, fmt.Errorf("keystroke delay must not be negative, got %v", cfg.Typing.Delay)
	}
	return cfg, nil
}

// Save writes the configuration back to the TOML file.
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return save(configPath, c)
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// SetTypingSpeed validates the speed, derives the keystroke delay from
// it and stores both. Out-of-range speeds are rejected, never clamped.
func (c *Config) SetTypingSpeed(wpm int) error {
	if err := timing.ValidateWPM(wpm); err != nil {
		return err
	}
	c.Typing.SpeedWPM = wpm
	c.Typing.Delay = timing.DelayForWPM(wpm).Seconds()
	return nil
}

// KeystrokeDelay returns the configured delay as a duration.
func (c *Config) KeystrokeDelay() time.Duration {
	return time.Duration(c.Typing.Delay * float64(time.Second))
}

// RearmPolicy resolves the configured re-arm behavior.
func (c *Config) RearmPolicy() (trigger.RearmPolicy, error) {
	switch c.Trigger.Rearm {
	case "", "immediate":
		return trigger.RearmImmediate, nil
	case "release":
		return trigger.RearmOnRelease, nil
	default:
		return 0, fmt.Errorf("unknown rearm policy %q (want \"immediate\" or \"release\")", c.Trigger.Rearm)
	}
}
