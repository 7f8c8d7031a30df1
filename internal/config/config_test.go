package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.MaxTurns != 6 {
		t.Fatalf("expected default turn cap 6, got %d", cfg.MaxTurns)
	}
	if cfg.ResolutionThreshold != 4 {
		t.Fatalf("expected default threshold 4, got %d", cfg.ResolutionThreshold)
	}
	if cfg.PhonikudModelPath != "./phonikud-1.0.int8.onnx" {
		t.Fatalf("unexpected default model path: %q", cfg.PhonikudModelPath)
	}
	if cfg.TTSBackend != BackendPolly {
		t.Fatalf("expected polly default backend, got %q", cfg.TTSBackend)
	}
	if cfg.OutputDir != "output" || cfg.LogsDir != "logs" {
		t.Fatalf("unexpected default directories: %q %q", cfg.OutputDir, cfg.LogsDir)
	}
	if cfg.WhisperModel != "small" {
		t.Fatalf("unexpected default whisper model: %q", cfg.WhisperModel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_CONVERSATION_TURNS", "3")
	t.Setenv("PHONIKUD_MODEL_PATH", "/models/phonikud.onnx")
	t.Setenv("TTS_BACKEND", "local")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("RESOLUTION_THRESHOLD", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.MaxTurns != 3 {
		t.Fatalf("expected overridden turn cap 3, got %d", cfg.MaxTurns)
	}
	if cfg.PhonikudModelPath != "/models/phonikud.onnx" {
		t.Fatalf("unexpected model path: %q", cfg.PhonikudModelPath)
	}
	if cfg.TTSBackend != BackendLocal {
		t.Fatalf("expected local backend, got %q", cfg.TTSBackend)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("expected credential from environment, got %q", cfg.OpenAIAPIKey)
	}
	if !cfg.Debug {
		t.Fatal("expected debug mode enabled")
	}
	if cfg.ResolutionThreshold != 2 {
		t.Fatalf("expected threshold 2, got %d", cfg.ResolutionThreshold)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("TTS_BACKEND", "espeak")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported tts backend")
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{TTSBackend: BackendPolly, MaxTurns: 6, ResolutionThreshold: 4}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	bad := cfg
	bad.MaxTurns = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero turn cap")
	}
}
