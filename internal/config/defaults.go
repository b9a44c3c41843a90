package config

const (
	defaultDataDir        = "~/.local/share/cuesheet"
	defaultLogDir         = "~/.local/share/cuesheet/logs"
	defaultFPS            = 23.976
	defaultTicksPerSecond = 254016000000
	defaultLowConfidence  = 0.80

	defaultFFprobeBinary        = "ffprobe"
	defaultEnrichConcurrency    = 4
	defaultEnrichTimeoutSeconds = 10

	defaultPatternAutoFill   = 0.85
	defaultPatternSuggest    = 0.50
	defaultPatternMinimum    = 0.30
	defaultPatternCacheTTL   = 300
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMTimeoutSeconds = 30

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Import: Import{
			FPS:                    defaultFPS,
			TicksPerSecond:         defaultTicksPerSecond,
			LowConfidenceThreshold: defaultLowConfidence,
		},
		Enrichment: Enrichment{
			FFprobeBinary:  defaultFFprobeBinary,
			Concurrency:    defaultEnrichConcurrency,
			TimeoutSeconds: defaultEnrichTimeoutSeconds,
		},
		TrackDB: TrackDB{
			Enabled: true,
		},
		Patterns: Patterns{
			Enabled:           true,
			AutoFillThreshold: defaultPatternAutoFill,
			SuggestThreshold:  defaultPatternSuggest,
			MinimumThreshold:  defaultPatternMinimum,
			CacheTTLSeconds:   defaultPatternCacheTTL,
		},
		LLM: LLM{
			Enabled:        false,
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
