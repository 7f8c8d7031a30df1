// Package whisper implements the transcription stage on a local Whisper
// installation. Every precondition failure and inference fault collapses to
// an empty transcription; the stage never fails the message on its own.
package whisper

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
)

// LanguageCode constrains recognition to Hebrew.
const LanguageCode = "he"

// Config selects the Whisper binary and model size.
type Config struct {
	Bin   string
	Model string
}

// Transcriber recovers Hebrew text from audio artifacts.
type Transcriber struct {
	cfg      Config
	events   contracts.EventSink
	lookPath func(string) (string, error)
	invoke   func(bin string, args []string) (string, error)
}

// Result carries the detailed transcription output.
type Result struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// New constructs a Whisper transcriber. A nil sink discards events.
func New(cfg Config, events contracts.EventSink) *Transcriber {
	if strings.TrimSpace(cfg.Bin) == "" {
		cfg.Bin = "whisper"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "small"
	}
	if events == nil {
		events = contracts.DiscardEvents{}
	}
	return &Transcriber{
		cfg:      cfg,
		events:   events,
		lookPath: exec.LookPath,
		invoke:   runWhisper,
	}
}

// Transcribe returns the trimmed Hebrew transcription of the artifact at
// audioPath, or an empty string when any precondition or the inference
// itself fails. The returned error is always nil.
func (t *Transcriber) Transcribe(audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		t.events.Event("WARNING", fmt.Sprintf("audio file not found: %s", audioPath), nil)
		return "", nil
	}
	bin, err := t.lookPath(t.cfg.Bin)
	if err != nil {
		t.events.Event("WARNING", fmt.Sprintf("whisper binary %q unavailable, skipping transcription", t.cfg.Bin), nil)
		return "", nil
	}
	if _, err := t.lookPath("ffmpeg"); err != nil {
		t.events.Event("WARNING", "ffmpeg not found on PATH, skipping transcription", nil)
		return "", nil
	}

	out, err := t.invoke(bin, []string{
		audioPath,
		"--model", t.cfg.Model,
		"--language", LanguageCode,
		"--task", "transcribe",
		"--output_format", "txt",
	})
	if err != nil {
		t.events.Event("WARNING", fmt.Sprintf("transcription failed: %v", err), nil)
		return "", nil
	}
	return strings.TrimSpace(out), nil
}

// TranscribeDetailed returns the transcription with metadata, reporting
// failures in-band instead of collapsing them to an empty string.
func (t *Transcriber) TranscribeDetailed(audioPath string) Result {
	if _, err := os.Stat(audioPath); err != nil {
		return Result{Error: fmt.Sprintf("audio file not found: %s", audioPath)}
	}
	bin, err := t.lookPath(t.cfg.Bin)
	if err != nil {
		return Result{Error: "whisper binary not available"}
	}
	if _, err := t.lookPath("ffmpeg"); err != nil {
		return Result{Error: "ffmpeg not found on PATH"}
	}

	out, err := t.invoke(bin, []string{
		audioPath,
		"--model", t.cfg.Model,
		"--language", LanguageCode,
		"--task", "transcribe",
		"--output_format", "txt",
		"--temperature", "0",
	})
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Text: strings.TrimSpace(out), Language: LanguageCode, Success: true}
}

// TranscribeBatch runs Transcribe over every artifact in order.
func (t *Transcriber) TranscribeBatch(audioPaths []string) []string {
	out := make([]string, 0, len(audioPaths))
	for _, path := range audioPaths {
		text, _ := t.Transcribe(path)
		out = append(out, text)
	}
	return out
}

func runWhisper(bin string, args []string) (string, error) {
	out, err := exec.Command(bin, args...).Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", bin, err)
	}
	return string(out), nil
}
