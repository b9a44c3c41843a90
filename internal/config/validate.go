package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validatePatterns(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateImport() error {
	if c.Import.FPS <= 0 || c.Import.FPS > 240 {
		return fmt.Errorf("import.fps must be in (0, 240], got %v", c.Import.FPS)
	}
	if c.Import.TicksPerSecond <= 0 {
		return errors.New("import.ticks_per_second must be positive")
	}
	if c.Import.LowConfidenceThreshold < 0 || c.Import.LowConfidenceThreshold > 1 {
		return errors.New("import.low_confidence_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validatePatterns() error {
	for name, value := range map[string]float64{
		"patterns.auto_fill_threshold": c.Patterns.AutoFillThreshold,
		"patterns.suggest_threshold":   c.Patterns.SuggestThreshold,
		"patterns.minimum_threshold":   c.Patterns.MinimumThreshold,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if c.Patterns.SuggestThreshold > c.Patterns.AutoFillThreshold {
		return errors.New("patterns.suggest_threshold must not exceed patterns.auto_fill_threshold")
	}
	if c.Patterns.MinimumThreshold > c.Patterns.SuggestThreshold {
		return errors.New("patterns.minimum_threshold must not exceed patterns.suggest_threshold")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/cuesheet/config.toml"
		}
		return fmt.Errorf("llm.api_key is required when llm.enabled is true. Set CUESHEET_LLM_API_KEY or edit %s (create with 'cuesheet config init')", defaultPath)
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set when llm.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
