// Package config loads the simulation configuration from environment
// variables with programmatic defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Synthesis backend selectors.
const (
	BackendPolly = "polly"
	BackendLocal = "local"
)

// Config is the root configuration for one simulation run.
type Config struct {
	MaxTurns            int    `mapstructure:"max_conversation_turns"`
	ResolutionThreshold int    `mapstructure:"resolution_threshold"`
	OpenAIAPIKey        string `mapstructure:"openai_api_key"`
	Debug               bool   `mapstructure:"debug_mode"`

	OutputDir  string `mapstructure:"output_dir"`
	LogsDir    string `mapstructure:"logs_dir"`
	ScriptPath string `mapstructure:"script_path"`

	PhonikudModelPath string `mapstructure:"phonikud_model_path"`
	PhonikudBin       string `mapstructure:"phonikud_bin"`

	TTSBackend  string `mapstructure:"tts_backend"`
	PollyRegion string `mapstructure:"tts_polly_region"`
	PollyVoice  string `mapstructure:"tts_polly_voice"`
	PollyEngine string `mapstructure:"tts_polly_engine"`

	LocalTTSBin   string `mapstructure:"local_tts_bin"`
	LocalTTSModel string `mapstructure:"local_tts_model"`

	WhisperBin   string `mapstructure:"whisper_bin"`
	WhisperModel string `mapstructure:"whisper_model"`
}

// Load reads environment variables over programmatic defaults.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("max_conversation_turns", 6)
	v.SetDefault("resolution_threshold", 4)
	v.SetDefault("debug_mode", false)
	v.SetDefault("output_dir", "output")
	v.SetDefault("logs_dir", "logs")
	v.SetDefault("script_path", "")
	v.SetDefault("phonikud_model_path", "./phonikud-1.0.int8.onnx")
	v.SetDefault("phonikud_bin", "phonikud")
	v.SetDefault("tts_backend", BackendPolly)
	v.SetDefault("tts_polly_region", "us-east-1")
	v.SetDefault("tts_polly_voice", "Joanna")
	v.SetDefault("tts_polly_engine", "neural")
	v.SetDefault("local_tts_bin", "neural-tts")
	v.SetDefault("local_tts_model", "")
	v.SetDefault("whisper_bin", "whisper")
	v.SetDefault("whisper_model", "small")

	// Keys are recognized as their uppercase environment form, for example
	// MAX_CONVERSATION_TURNS and PHONIKUD_MODEL_PATH.
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.OpenAIAPIKey = strings.TrimSpace(v.GetString("openai_api_key"))
	return cfg, cfg.Validate()
}

// Validate enforces supported option values. The required API credential is
// checked separately by the harness prerequisite step so that configuration
// loading itself stays total.
func (c Config) Validate() error {
	switch c.TTSBackend {
	case BackendPolly, BackendLocal:
	default:
		return fmt.Errorf("unsupported tts backend: %q", c.TTSBackend)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("max_conversation_turns must be >=1")
	}
	if c.ResolutionThreshold <= 0 {
		return fmt.Errorf("resolution_threshold must be >=1")
	}
	return nil
}
