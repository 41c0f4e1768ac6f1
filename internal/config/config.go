package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all advisim configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM case parser configuration
	LLM LLMConfig `yaml:"llm"`

	// Knowledge base configuration
	Knowledge KnowledgeConfig `yaml:"knowledge"`

	// Monte Carlo driver configuration
	MonteCarlo MonteCarloConfig `yaml:"montecarlo"`

	// Simulation history configuration
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the language-model case parser.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, none
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// KnowledgeConfig configures the domain knowledge tables.
type KnowledgeConfig struct {
	// Directory holding visa.yaml / kbli.yaml overrides. When empty, only
	// the embedded default tables are used.
	Dir string `yaml:"dir"`

	// WatchReload enables hot reload of the tables on file change.
	WatchReload bool `yaml:"watch_reload"`
}

// MonteCarloConfig configures the simulation driver.
type MonteCarloConfig struct {
	// Workers bounds trial concurrency. 0 means runtime.NumCPU().
	Workers int `yaml:"workers"`

	// Seed for the reproducible random source. 0 means time-based.
	Seed int64 `yaml:"seed"`

	// TrialTimeout bounds a single scenario analysis.
	TrialTimeout string `yaml:"trial_timeout"`
}

// HistoryConfig configures simulation-history retention.
type HistoryConfig struct {
	// Capacity of the in-memory ring buffer.
	Capacity int `yaml:"capacity"`

	// DatabasePath enables the SQLite-backed store when non-empty.
	DatabasePath string `yaml:"database_path"`

	// RetentionDays prunes persisted results older than this. 0 disables
	// pruning.
	RetentionDays int `yaml:"retention_days"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "advisim",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  "60s",
		},

		Knowledge: KnowledgeConfig{
			WatchReload: false,
		},

		MonteCarlo: MonteCarloConfig{
			Workers:      0, // NumCPU
			Seed:         0,
			TrialTimeout: "30s",
		},

		History: HistoryConfig{
			Capacity:      1000,
			RetentionDays: 90,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. Environment
// always wins over the file so deployments can inject secrets.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("ADVISIM_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if path := os.Getenv("ADVISIM_DB"); path != "" {
		c.History.DatabasePath = path
	}
	if dir := os.Getenv("ADVISIM_KNOWLEDGE_DIR"); dir != "" {
		c.Knowledge.Dir = dir
	}
}
