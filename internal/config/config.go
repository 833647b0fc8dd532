// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte", "light"
}

// ScheduleConfig holds weekly scheduling settings.
type ScheduleConfig struct {
	MaxStudyHoursPerDay  float64 `toml:"max_study_hours_per_day"`
	PreferredRestMinutes int     `toml:"preferred_rest_minutes"`
	SubjectPreferences   string  `toml:"subject_preferences"` // free-text hints for the auto-scheduler
	DayStart             int     `toml:"day_start"`           // first hour shown on the grid
	DayEnd               int     `toml:"day_end"`             // last hour shown on the grid
}

// LLMConfig holds model provider settings.
type LLMConfig struct {
	Provider  string `toml:"provider"`    // "openai", "ollama", "lmstudio"; empty uses the local planner
	Model     string `toml:"model"`       // e.g., "gpt-4o-mini"
	BaseURL   string `toml:"base_url"`    // e.g., "http://localhost:11434"
	APIKeyEnv string `toml:"api_key_env"` // env var holding the API key for hosted providers
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			MaxStudyHoursPerDay:  6,
			PreferredRestMinutes: 30,
			DayStart:             6,
			DayEnd:               23,
		},
		LLM: LLMConfig{
			Provider:  "", // local first-fit planner until a provider is configured
			Model:     "",
			BaseURL:   "",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "minerva.db"
	}
	return filepath.Join(home, ".local", "share", "minerva", "minerva.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "minerva", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// Schedule overrides
	if v := os.Getenv("MINERVA_MAX_STUDY_HOURS"); v != "" {
		var hours float64
		if _, err := fmt.Sscanf(v, "%g", &hours); err == nil {
			cfg.Schedule.MaxStudyHoursPerDay = hours
		}
	}
	if v := os.Getenv("MINERVA_REST_MINUTES"); v != "" {
		var minutes int
		if _, err := fmt.Sscanf(v, "%d", &minutes); err == nil {
			cfg.Schedule.PreferredRestMinutes = minutes
		}
	}

	// LLM overrides
	if v := os.Getenv("MINERVA_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("MINERVA_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("MINERVA_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	// Storage overrides
	if v := os.Getenv("MINERVA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// UI overrides
	if v := os.Getenv("MINERVA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Schedule.MaxStudyHoursPerDay < 0 || c.Schedule.MaxStudyHoursPerDay > 24 {
		return errors.New("max_study_hours_per_day must be between 0 and 24")
	}
	if c.Schedule.PreferredRestMinutes < 0 {
		return errors.New("preferred_rest_minutes must not be negative")
	}
	if c.Schedule.DayStart < 0 || c.Schedule.DayStart > 23 {
		return fmt.Errorf("day_start must be between 0 and 23, got %d", c.Schedule.DayStart)
	}
	if c.Schedule.DayEnd < 1 || c.Schedule.DayEnd > 24 {
		return fmt.Errorf("day_end must be between 1 and 24, got %d", c.Schedule.DayEnd)
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}
	if c.LLM.Provider != "" && c.LLM.Provider != "openai" && c.LLM.Provider != "ollama" &&
		c.LLM.Provider != "lmstudio" && c.LLM.Provider != "lm-studio" && c.LLM.Provider != "llmstudio" {
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// HasLLM returns true if a model provider is configured.
func (c *Config) HasLLM() bool {
	return c.LLM.Provider != ""
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
