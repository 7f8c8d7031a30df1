// Package pipeline sequences one line of Hebrew dialogue through
// diacritization, speech synthesis, and transcription, and aggregates the
// per-turn outcomes into a session result.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
)

// LogStore is the session log surface the orchestrators write to. All
// operations absorb their own failures and report through status strings.
type LogStore interface {
	Reset() string
	AppendStep(step int, speaker, original, nikud, audioFile, transcribed string) string
	AppendSummary(totalSteps int, outcome, satisfaction string, resolved bool, notes string) string
	Event(kind, message string, data map[string]any) string
}

// Pipeline drives a single message through the three stages in order.
type Pipeline struct {
	diacritizer contracts.Diacritizer
	synthesizer contracts.Synthesizer
	transcriber contracts.Transcriber
	log         LogStore
}

// New constructs the per-message pipeline over injected stages.
func New(d contracts.Diacritizer, s contracts.Synthesizer, t contracts.Transcriber, log LogStore) (*Pipeline, error) {
	if d == nil || s == nil || t == nil {
		return nil, fmt.Errorf("all three pipeline stages are required")
	}
	if log == nil {
		return nil, fmt.Errorf("log store is required")
	}
	return &Pipeline{diacritizer: d, synthesizer: s, transcriber: t, log: log}, nil
}

// ProcessMessage runs text through nikud insertion, synthesis, and
// transcription, substituting the nikud or original text when transcription
// comes back empty, then records the step. Stage contracts absorb their own
// faults; an error escaping a stage aborts the remaining steps and yields a
// failed result with only the original text populated.
func (p *Pipeline) ProcessMessage(text string, speaker contracts.Speaker, step int) contracts.MessageResult {
	nikudText, err := p.diacritizer.Diacritize(text)
	if err != nil {
		return p.fail(text, speaker, step, fmt.Errorf("diacritization: %w", err))
	}

	audioFile, err := p.synthesizer.Synthesize(nikudText, step)
	if err != nil {
		return p.fail(text, speaker, step, fmt.Errorf("synthesis: %w", err))
	}

	transcribed, err := p.transcriber.Transcribe(audioFile)
	if err != nil {
		return p.fail(text, speaker, step, fmt.Errorf("transcription: %w", err))
	}

	// A message succeeds even when the audio round trip recovers nothing.
	if strings.TrimSpace(transcribed) == "" {
		transcribed = nikudText
		if strings.TrimSpace(transcribed) == "" {
			transcribed = text
		}
	}

	p.log.AppendStep(step, string(speaker), text, nikudText, audioFile, transcribed)

	return contracts.MessageResult{
		Original:    text,
		Nikud:       nikudText,
		AudioFile:   audioFile,
		Transcribed: transcribed,
		Status:      contracts.MessageSuccess,
	}
}

func (p *Pipeline) fail(text string, speaker contracts.Speaker, step int, cause error) contracts.MessageResult {
	msg := fmt.Sprintf("error processing message %d: %v", step, cause)
	p.log.Event("ERROR", msg, map[string]any{"step": step, "speaker": string(speaker)})
	return contracts.MessageResult{
		Original: text,
		Status:   contracts.MessageFailed,
		Error:    msg,
	}
}
