package contracts

import (
	"fmt"
	"strings"
)

// Speaker identifies who utters a scripted dialogue turn.
type Speaker string

const (
	SpeakerCustomer Speaker = "customer"
	SpeakerSupport  Speaker = "support"
)

// Validate enforces supported speaker values.
func (s Speaker) Validate() error {
	switch s {
	case SpeakerCustomer, SpeakerSupport:
		return nil
	default:
		return fmt.Errorf("unsupported speaker: %q", s)
	}
}

// MessageStatus is the per-turn pipeline outcome taxonomy.
type MessageStatus string

const (
	MessageSuccess MessageStatus = "success"
	MessageFailed  MessageStatus = "failed"
)

// Validate enforces supported message status values.
func (s MessageStatus) Validate() error {
	switch s {
	case MessageSuccess, MessageFailed:
		return nil
	default:
		return fmt.Errorf("unsupported message status: %q", s)
	}
}

// MessageResult is the immutable record produced for one processed turn.
type MessageResult struct {
	Original    string        `json:"original"`
	Nikud       string        `json:"nikud,omitempty"`
	AudioFile   string        `json:"audio_file,omitempty"`
	Transcribed string        `json:"transcribed,omitempty"`
	Status      MessageStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
}

// Validate enforces the success/failure field invariants.
func (r MessageResult) Validate() error {
	if err := r.Status.Validate(); err != nil {
		return err
	}
	if r.Original == "" {
		return fmt.Errorf("original text is required")
	}
	switch r.Status {
	case MessageSuccess:
		if strings.TrimSpace(r.Transcribed) == "" {
			return fmt.Errorf("successful result requires non-empty transcribed text")
		}
		if r.Nikud == "" || r.AudioFile == "" {
			return fmt.Errorf("successful result requires nikud and audio_file")
		}
		if r.Error != "" {
			return fmt.Errorf("successful result cannot carry an error")
		}
	case MessageFailed:
		if r.Error == "" {
			return fmt.Errorf("failed result requires an error message")
		}
	}
	return nil
}

// SessionStatus is the terminal session outcome taxonomy.
type SessionStatus string

const (
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Validate enforces supported session status values.
func (s SessionStatus) Validate() error {
	switch s {
	case SessionCompleted, SessionFailed:
		return nil
	default:
		return fmt.Errorf("unsupported session status: %q", s)
	}
}

// SessionResult aggregates one full simulated call.
type SessionResult struct {
	Status          SessionStatus   `json:"status"`
	TotalSteps      int             `json:"total_steps"`
	SuccessfulSteps int             `json:"successful_steps"`
	Outcome         string          `json:"outcome,omitempty"`
	Results         []MessageResult `json:"results,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// Diacritizer inserts Hebrew vowel points into undotted text.
//
// Implementations degrade rather than fail: a missing model yields the input
// unchanged and an inference fault yields a marker string. A non-nil error is
// reserved for conditions the stage could not absorb and fails the message.
type Diacritizer interface {
	Diacritize(text string) (string, error)
}

// Synthesizer converts text into an on-disk audio artifact and returns its
// path. Step numbers are 1-based; step <= 0 requests an ad-hoc artifact name.
// Implementations guarantee an artifact via a silent fallback; a non-path
// marker string is the only unrecoverable output.
type Synthesizer interface {
	Synthesize(text string, step int) (string, error)
}

// Transcriber recovers text from an audio artifact. Implementations return
// an empty string on any precondition or inference failure.
type Transcriber interface {
	Transcribe(audioPath string) (string, error)
}

// EventSink receives structured WARNING/ERROR records from stages and
// orchestrators. Implementations absorb their own failures and report them
// through the returned status string only.
type EventSink interface {
	Event(kind, message string, data map[string]any) string
}

// StaticDiacritizer is a small utility stage for tests.
type StaticDiacritizer struct {
	Fn func(string) (string, error)
}

func (s StaticDiacritizer) Diacritize(text string) (string, error) {
	if s.Fn != nil {
		return s.Fn(text)
	}
	return text, nil
}

// StaticSynthesizer is a small utility stage for tests.
type StaticSynthesizer struct {
	Fn func(string, int) (string, error)
}

func (s StaticSynthesizer) Synthesize(text string, step int) (string, error) {
	if s.Fn != nil {
		return s.Fn(text, step)
	}
	return fmt.Sprintf("audio_step_%d.wav", step), nil
}

// StaticTranscriber is a small utility stage for tests.
type StaticTranscriber struct {
	Fn func(string) (string, error)
}

func (s StaticTranscriber) Transcribe(audioPath string) (string, error) {
	if s.Fn != nil {
		return s.Fn(audioPath)
	}
	return "", nil
}

// DiscardEvents is an EventSink that drops every record.
type DiscardEvents struct{}

func (DiscardEvents) Event(string, string, map[string]any) string {
	return "event discarded"
}
