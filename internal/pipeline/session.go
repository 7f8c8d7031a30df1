package pipeline

import (
	"fmt"

	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
	"github.com/tiger/hebrew-call-sim/internal/script"
)

// Call outcome labels derived from the resolution threshold.
const (
	OutcomeResolved   = "Cancellation processed"
	OutcomeIncomplete = "Call incomplete"
)

// SessionState tracks the session lifecycle.
type SessionState string

const (
	SessionInit      SessionState = "init"
	SessionRunning   SessionState = "running"
	SessionCompleted SessionState = "completed"
	SessionFailed    SessionState = "failed"
)

// MessageProcessor is the per-turn pipeline surface the session drives.
type MessageProcessor interface {
	ProcessMessage(text string, speaker contracts.Speaker, step int) contracts.MessageResult
}

// SessionConfig bounds and parameterizes one simulated call.
type SessionConfig struct {
	// MaxTurns caps processed turns; the script may be longer.
	MaxTurns int
	// ResolutionThreshold is the successful-step count at or above which the
	// call counts as resolved. A business policy constant, not derived from
	// dialogue content.
	ResolutionThreshold int
}

// Session iterates the scripted conversation through the message pipeline.
type Session struct {
	cfg       SessionConfig
	processor MessageProcessor
	log       LogStore
	turns     []script.DialogueTurn
	state     SessionState
}

// NewSession constructs a session over a script and a message processor.
func NewSession(cfg SessionConfig, processor MessageProcessor, log LogStore, turns []script.DialogueTurn) (*Session, error) {
	if processor == nil {
		return nil, fmt.Errorf("message processor is required")
	}
	if log == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("conversation script is required")
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 6
	}
	if cfg.ResolutionThreshold <= 0 {
		cfg.ResolutionThreshold = 4
	}
	return &Session{
		cfg:       cfg,
		processor: processor,
		log:       log,
		turns:     turns,
		state:     SessionInit,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// Run resets the log stores, processes the script up to the turn cap with
// 1-based step numbers, stops at the first failed message, and writes the
// call summary. A failed message truncates the run but still completes the
// session; only a fault outside per-message processing fails it.
func (s *Session) Run() contracts.SessionResult {
	s.log.Reset()
	s.state = SessionRunning

	turns := s.turns
	if len(turns) > s.cfg.MaxTurns {
		turns = turns[:s.cfg.MaxTurns]
	}

	results := make([]contracts.MessageResult, 0, len(turns))
	for i, turn := range turns {
		step := i + 1
		if err := turn.Validate(); err != nil {
			return s.fatal(fmt.Errorf("script turn %d: %w", step, err))
		}

		result := s.processor.ProcessMessage(turn.Text, turn.Speaker, step)
		results = append(results, result)

		if result.Status == contracts.MessageFailed {
			s.log.Event("ERROR", fmt.Sprintf("processing failed at step %d, stopping simulation", step), nil)
			break
		}
	}

	successful := 0
	for _, r := range results {
		if r.Status == contracts.MessageSuccess {
			successful++
		}
	}

	outcome := OutcomeIncomplete
	satisfaction := "Unresolved"
	resolved := false
	if successful >= s.cfg.ResolutionThreshold {
		outcome = OutcomeResolved
		satisfaction = "Resolved"
		resolved = true
	}

	s.log.AppendSummary(
		len(results),
		outcome,
		satisfaction,
		resolved,
		fmt.Sprintf("Processed %d/%d steps successfully", successful, len(results)),
	)

	s.state = SessionCompleted
	return contracts.SessionResult{
		Status:          contracts.SessionCompleted,
		TotalSteps:      len(results),
		SuccessfulSteps: successful,
		Outcome:         outcome,
		Results:         results,
	}
}

func (s *Session) fatal(cause error) contracts.SessionResult {
	msg := fmt.Sprintf("fatal error in conversation simulation: %v", cause)
	s.log.Event("FATAL_ERROR", msg, nil)
	s.state = SessionFailed
	return contracts.SessionResult{
		Status: contracts.SessionFailed,
		Error:  msg,
	}
}
