package config

import (
	"fmt"
	"time"
)

// Config represents the complete elf configuration
type Config struct {
	BaseDir string       `yaml:"-"` // Directory containing config file, for resolving relative paths
	REPL    REPLConfig   `yaml:"repl"`
	Watch   WatchConfig  `yaml:"watch"`
	Output  OutputConfig `yaml:"output"`
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	Prompt             string `yaml:"prompt"`              // Prompt shown for new input (default: ">> ")
	ContinuationPrompt string `yaml:"continuation_prompt"` // Prompt shown while brackets are open (default: ".. ")
	HistoryFile        string `yaml:"history_file"`        // Path to the history file (default: temp dir)
	HistoryLimit       int    `yaml:"history_limit"`       // Maximum history entries kept, 0 = unlimited
}

// WatchConfig holds watch-mode settings
type WatchConfig struct {
	Debounce    Duration `yaml:"debounce"`     // Minimum interval between re-runs (default: 100ms)
	ClearScreen bool     `yaml:"clear_screen"` // Clear the terminal before each run
}

// OutputConfig holds output formatting settings
type OutputConfig struct {
	Color bool `yaml:"color"` // Colorize REPL output (default: true)
}

// Duration supports YAML fields that can be either a duration string
// ("100ms", "2s") or a bare integer, read as milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler to handle both forms.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var ms int64
	if err := unmarshal(&ms); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:             ">> ",
			ContinuationPrompt: ".. ",
			HistoryLimit:       1000,
		},
		Watch: WatchConfig{
			Debounce:    Duration(100 * time.Millisecond),
			ClearScreen: false,
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}
