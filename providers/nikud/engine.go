// Package nikud wraps the Phonikud diacritization model behind the
// pipeline's Diacritizer contract. The stage degrades instead of failing:
// a missing model artifact or engine binary yields the input unchanged and
// an inference fault yields a marker string.
package nikud

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
)

// ErrorMarkerPrefix prefixes the in-band marker returned on inference faults.
const ErrorMarkerPrefix = "[NIKUD ERROR]"

// Config selects the model artifact and the engine binary that runs it.
type Config struct {
	ModelPath string
	Bin       string
}

// Engine is the concrete Diacritizer backed by an external Phonikud engine.
type Engine struct {
	cfg      Config
	events   contracts.EventSink
	lookPath func(string) (string, error)
	invoke   func(bin, modelPath, text string) (string, error)
}

// New constructs a diacritization engine. A nil sink discards events.
func New(cfg Config, events contracts.EventSink) *Engine {
	if strings.TrimSpace(cfg.Bin) == "" {
		cfg.Bin = "phonikud"
	}
	if events == nil {
		events = contracts.DiscardEvents{}
	}
	return &Engine{
		cfg:      cfg,
		events:   events,
		lookPath: exec.LookPath,
		invoke:   runEngine,
	}
}

// Diacritize returns text with vowel points inserted. The returned error is
// always nil: unavailability degrades to identity and inference faults
// surface as an in-band marker string.
func (e *Engine) Diacritize(text string) (string, error) {
	if _, err := os.Stat(e.cfg.ModelPath); err != nil {
		e.events.Event("WARNING", fmt.Sprintf("phonikud model not found at %s, returning original text", e.cfg.ModelPath), nil)
		return text, nil
	}
	bin, err := e.lookPath(e.cfg.Bin)
	if err != nil {
		e.events.Event("WARNING", fmt.Sprintf("phonikud engine %q unavailable, returning original text", e.cfg.Bin), nil)
		return text, nil
	}

	vocalized, err := e.invoke(bin, e.cfg.ModelPath, text)
	if err != nil {
		e.events.Event("ERROR", fmt.Sprintf("nikud inference failed: %v", err), nil)
		return fmt.Sprintf("%s %v", ErrorMarkerPrefix, err), nil
	}
	return strings.TrimSpace(vocalized), nil
}

// DiacritizeBatch runs Diacritize over every input in order.
func (e *Engine) DiacritizeBatch(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		vocalized, _ := e.Diacritize(text)
		out = append(out, vocalized)
	}
	return out
}

func runEngine(bin, modelPath, text string) (string, error) {
	cmd := exec.Command(bin, "--model", modelPath)
	cmd.Stdin = strings.NewReader(text)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", bin, err)
	}
	return string(out), nil
}
