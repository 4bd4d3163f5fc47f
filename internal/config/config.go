package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Grid   GridConfig   `json:"grid"`
	Vision VisionConfig `json:"vision"`
	Input  InputConfig  `json:"input"`
	Debug  DebugConfig  `json:"debug"`
}

// GridConfig holds the coordinate grid parameters
type GridConfig struct {
	CellSize int `json:"cell_size"`
}

// VisionConfig selects and addresses the vision-model backend
type VisionConfig struct {
	Backend string `json:"backend"` // "ollama" or "llamacpp"
	URL     string `json:"url"`
	Model   string `json:"model"`
}

// InputConfig holds input-injection parameters
type InputConfig struct {
	SettleDelayMs int `json:"settle_delay_ms"`
}

// DebugConfig controls debug artifact persistence
type DebugConfig struct {
	Dir     string `json:"dir"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			CellSize: 40,
		},
		Vision: VisionConfig{
			Backend: "ollama",
			URL:     "http://localhost:11434",
			Model:   "qwen2.5vl",
		},
		Input: InputConfig{
			SettleDelayMs: 500,
		},
		Debug: DebugConfig{
			Dir:     "",
			Format:  "png",
			Quality: 92,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Grid.CellSize < 1 {
		return fmt.Errorf("grid.cell_size must be positive")
	}

	if c.Vision.Backend != "ollama" && c.Vision.Backend != "llamacpp" {
		return fmt.Errorf("vision.backend must be 'ollama' or 'llamacpp'")
	}

	if c.Vision.Model == "" {
		return fmt.Errorf("vision.model cannot be empty")
	}

	if c.Input.SettleDelayMs < 0 {
		return fmt.Errorf("input.settle_delay_ms cannot be negative")
	}

	if c.Debug.Quality < 1 || c.Debug.Quality > 100 {
		return fmt.Errorf("debug.quality must be between 1 and 100")
	}

	switch c.Debug.Format {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("debug.format must be png, jpg or webp")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "seeclaw", "config.json")
}
