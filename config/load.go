package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations. A missing config
// file is not an error: elf runs fine on Defaults alone.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the
// resolved path. The path is empty when no config file was found.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	// Interpolate environment variables
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Set base directory for resolving relative paths
	cfg.BaseDir = baseDir

	// Resolve relative history file path
	if cfg.REPL.HistoryFile != "" && !filepath.IsAbs(cfg.REPL.HistoryFile) {
		cfg.REPL.HistoryFile = filepath.Join(baseDir, cfg.REPL.HistoryFile)
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > ELF_CONFIG env > ./elf.yaml > ~/.config/elf/elf.yaml
// An empty result means no config file exists, which is fine.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	// Try ELF_CONFIG environment variable
	if envPath := getenv("ELF_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("ELF_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	// Try ./elf.yaml
	if _, err := os.Stat("elf.yaml"); err == nil {
		return "elf.yaml", nil
	}

	// Try ~/.config/elf/elf.yaml
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "elf", "elf.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.REPL.HistoryLimit < 0 {
		errs = append(errs, fmt.Sprintf("invalid repl.history_limit: %d (must be >= 0)", cfg.REPL.HistoryLimit))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid watch.debounce: %s (must be >= 0)", cfg.Watch.Debounce.Std()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
