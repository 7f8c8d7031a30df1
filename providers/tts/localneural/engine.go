// Package localneural implements the offline synthesis backend: a local
// neural multilingual model driven through its engine binary. The device is
// an explicit configuration parameter, passed at invocation rather than
// patched into the runtime.
package localneural

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EngineName identifies this backend in events and configuration.
const EngineName = "local-neural"

// Config selects the engine binary, model artifact, and inference device.
type Config struct {
	Bin       string
	ModelPath string
	Language  string
	Device    string
}

// Engine synthesizes speech through a local model engine binary.
type Engine struct {
	cfg      Config
	lookPath func(string) (string, error)
	invoke   func(bin string, args []string, text string) error
}

// New constructs a local neural backend.
func New(cfg Config) *Engine {
	if strings.TrimSpace(cfg.Bin) == "" {
		cfg.Bin = "neural-tts"
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "he"
	}
	if strings.TrimSpace(cfg.Device) == "" {
		cfg.Device = "cpu"
	}
	return &Engine{
		cfg:      cfg,
		lookPath: exec.LookPath,
		invoke:   runEngine,
	}
}

// Name returns the backend identifier.
func (e *Engine) Name() string {
	return EngineName
}

// Synthesize renders text to basePath.wav with the local model. Errors
// propagate to the stage wrapper, which owns the silent fallback.
func (e *Engine) Synthesize(text, basePath string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("synthesis text is required")
	}
	bin, err := e.lookPath(e.cfg.Bin)
	if err != nil {
		return "", fmt.Errorf("engine binary %q unavailable: %w", e.cfg.Bin, err)
	}
	if e.cfg.ModelPath != "" {
		if _, err := os.Stat(e.cfg.ModelPath); err != nil {
			return "", fmt.Errorf("model artifact unavailable at %s: %w", e.cfg.ModelPath, err)
		}
	}

	wavPath := basePath + ".wav"
	args := []string{
		"--language", e.cfg.Language,
		"--device", e.cfg.Device,
		"--output", wavPath,
	}
	if e.cfg.ModelPath != "" {
		args = append(args, "--model", e.cfg.ModelPath)
	}
	if err := e.invoke(bin, args, text); err != nil {
		return "", fmt.Errorf("run %s: %w", bin, err)
	}
	if _, err := os.Stat(wavPath); err != nil {
		return "", fmt.Errorf("engine produced no artifact at %s: %w", wavPath, err)
	}
	return wavPath, nil
}

func runEngine(bin string, args []string, text string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
