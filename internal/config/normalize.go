package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeImport()
	c.normalizeEnrichment()
	c.normalizePatterns()
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeImport() {
	if c.Import.FPS <= 0 {
		c.Import.FPS = defaultFPS
	}
	if c.Import.TicksPerSecond <= 0 {
		c.Import.TicksPerSecond = defaultTicksPerSecond
	}
	if c.Import.LowConfidenceThreshold <= 0 {
		c.Import.LowConfidenceThreshold = defaultLowConfidence
	}
}

func (c *Config) normalizeEnrichment() {
	if strings.TrimSpace(c.Enrichment.FFprobeBinary) == "" {
		c.Enrichment.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Enrichment.Concurrency <= 0 {
		c.Enrichment.Concurrency = defaultEnrichConcurrency
	}
	if c.Enrichment.TimeoutSeconds <= 0 {
		c.Enrichment.TimeoutSeconds = defaultEnrichTimeoutSeconds
	}
}

func (c *Config) normalizePatterns() {
	if c.Patterns.AutoFillThreshold <= 0 {
		c.Patterns.AutoFillThreshold = defaultPatternAutoFill
	}
	if c.Patterns.SuggestThreshold <= 0 {
		c.Patterns.SuggestThreshold = defaultPatternSuggest
	}
	if c.Patterns.MinimumThreshold <= 0 {
		c.Patterns.MinimumThreshold = defaultPatternMinimum
	}
	if c.Patterns.CacheTTLSeconds <= 0 {
		c.Patterns.CacheTTLSeconds = defaultPatternCacheTTL
	}
}

func (c *Config) normalizeLLM() {
	if key := strings.TrimSpace(os.Getenv("CUESHEET_LLM_API_KEY")); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
