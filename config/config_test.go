package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDuration_String(t *testing.T) {
	yamlData := `debounce: 250ms`

	var config struct {
		Debounce Duration `yaml:"debounce"`
	}

	if err := yaml.Unmarshal([]byte(yamlData), &config); err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if config.Debounce.Std() != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %s", config.Debounce.Std())
	}
}

func TestDuration_Integer(t *testing.T) {
	yamlData := `debounce: 250`

	var config struct {
		Debounce Duration `yaml:"debounce"`
	}

	if err := yaml.Unmarshal([]byte(yamlData), &config); err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	// Bare integers are read as milliseconds
	if config.Debounce.Std() != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %s", config.Debounce.Std())
	}
}

func TestDuration_Invalid(t *testing.T) {
	yamlData := `debounce: soon`

	var config struct {
		Debounce Duration `yaml:"debounce"`
	}

	if err := yaml.Unmarshal([]byte(yamlData), &config); err == nil {
		t.Error("Expected error for unparseable duration")
	}
}

func TestConfigUnmarshal(t *testing.T) {
	yamlData := `
repl:
  prompt: "elf> "
  history_limit: 500

watch:
  debounce: 2s
  clear_screen: true

output:
  color: false
`
	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(yamlData), cfg); err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if cfg.REPL.Prompt != "elf> " {
		t.Errorf("Expected prompt 'elf> ', got %q", cfg.REPL.Prompt)
	}
	if cfg.REPL.HistoryLimit != 500 {
		t.Errorf("Expected history limit 500, got %d", cfg.REPL.HistoryLimit)
	}
	// Continuation prompt keeps its default when not set
	if cfg.REPL.ContinuationPrompt != ".. " {
		t.Errorf("Expected continuation prompt '.. ', got %q", cfg.REPL.ContinuationPrompt)
	}
	if cfg.Watch.Debounce.Std() != 2*time.Second {
		t.Errorf("Expected debounce 2s, got %s", cfg.Watch.Debounce.Std())
	}
	if !cfg.Watch.ClearScreen {
		t.Error("Expected clear_screen true")
	}
	if cfg.Output.Color {
		t.Error("Expected color false")
	}
}

func TestValidateNegativeHistoryLimit(t *testing.T) {
	cfg := Defaults()
	cfg.REPL.HistoryLimit = -1

	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for negative history limit")
	} else if err.Error() != "configuration errors:\n  - invalid repl.history_limit: -1 (must be >= 0)" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestValidateNegativeDebounce(t *testing.T) {
	cfg := Defaults()
	cfg.Watch.Debounce = Duration(-time.Second)

	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for negative debounce")
	}
}
