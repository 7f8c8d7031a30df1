// Package tts implements the speech-synthesis stage. A Synthesizer wraps one
// backend engine and owns the fallback contract every backend shares: when
// the engine is unavailable or fails, a short silent WAV is produced so the
// stage never halts the conversation.
package tts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
)

// FallbackMarkerPrefix prefixes the in-band marker returned when even the
// silent fallback cannot be written.
const FallbackMarkerPrefix = "[FALLBACK TTS ERROR]"

const (
	fallbackSeconds    = 1
	fallbackSampleRate = 16000
	fallbackChannels   = 1
)

// Engine is one synthesis backend. Synthesize receives the artifact base
// path without extension and returns the path it actually produced.
type Engine interface {
	Name() string
	Synthesize(text, basePath string) (string, error)
}

// Synthesizer drives a backend engine with the guaranteed silent fallback.
type Synthesizer struct {
	engine    Engine
	outputDir string
	events    contracts.EventSink

	newID        func() string
	writeSilence func(path string) error
}

// New constructs the synthesis stage for one backend. A nil engine forces
// every call onto the fallback path; a nil sink discards events.
func New(engine Engine, outputDir string, events contracts.EventSink) *Synthesizer {
	if events == nil {
		events = contracts.DiscardEvents{}
	}
	return &Synthesizer{
		engine:    engine,
		outputDir: outputDir,
		events:    events,
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
		writeSilence: func(path string) error {
			return WriteSilentWAV(path, fallbackSeconds, fallbackSampleRate, fallbackChannels)
		},
	}
}

// Synthesize produces an audio artifact for text and returns its path. Step
// numbers key the artifact name; step <= 0 requests an ad-hoc identifier.
// The returned error is always nil: engine failures fall back to a silent
// WAV and only a fallback write failure surfaces, as an in-band marker.
func (s *Synthesizer) Synthesize(text string, step int) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		s.events.Event("ERROR", fmt.Sprintf("create output directory: %v", err), nil)
		return s.fallback(step)
	}

	if s.engine == nil {
		s.events.Event("WARNING", "no synthesis engine configured, using silent fallback", nil)
		return s.fallback(step)
	}

	path, err := s.engine.Synthesize(text, filepath.Join(s.outputDir, s.baseName(step)))
	if err != nil {
		s.events.Event("WARNING", fmt.Sprintf("%s synthesis failed: %v, using silent fallback", s.engine.Name(), err), nil)
		return s.fallback(step)
	}
	return path, nil
}

// SynthesizeBatch runs Synthesize over (text, step) pairs in order.
func (s *Synthesizer) SynthesizeBatch(texts []string, steps []int) []string {
	out := make([]string, 0, len(texts))
	for i, text := range texts {
		step := 0
		if i < len(steps) {
			step = steps[i]
		}
		path, _ := s.Synthesize(text, step)
		out = append(out, path)
	}
	return out
}

func (s *Synthesizer) baseName(step int) string {
	if step > 0 {
		return fmt.Sprintf("audio_step_%d", step)
	}
	return "tts_" + s.newID()
}

func (s *Synthesizer) fallback(step int) (string, error) {
	name := fmt.Sprintf("audio_step_%d_fallback.wav", step)
	if step <= 0 {
		name = "tts_silent_" + s.newID() + ".wav"
	}
	path := filepath.Join(s.outputDir, name)
	if err := s.writeSilence(path); err != nil {
		s.events.Event("ERROR", fmt.Sprintf("silent fallback failed: %v", err), nil)
		return fmt.Sprintf("%s %v", FallbackMarkerPrefix, err), nil
	}
	return path, nil
}
