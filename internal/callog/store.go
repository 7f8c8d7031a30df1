// Package callog owns the two append-only session artifacts: the
// human-readable call transcript and the structured system event log.
// Every operation opens, appends, and closes; failures are absorbed into
// marker strings so a logging fault can never abort the call pipeline.
package callog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Store writes session transcript and event-log files.
type Store struct {
	transcriptPath string
	eventLogPath   string
	now            func() time.Time
}

// New constructs a store writing transcript.txt under outputDir and
// call_log.txt under logsDir.
func New(outputDir, logsDir string) *Store {
	return &Store{
		transcriptPath: filepath.Join(outputDir, "transcript.txt"),
		eventLogPath:   filepath.Join(logsDir, "call_log.txt"),
		now:            time.Now,
	}
}

// NewWithClock constructs a store with an injected clock for tests.
func NewWithClock(outputDir, logsDir string, now func() time.Time) *Store {
	s := New(outputDir, logsDir)
	if now != nil {
		s.now = now
	}
	return s
}

// TranscriptPath returns the transcript artifact location.
func (s *Store) TranscriptPath() string {
	return s.transcriptPath
}

// EventLogPath returns the event-log artifact location.
func (s *Store) EventLogPath() string {
	return s.eventLogPath
}

// Reset truncates both artifacts and writes fresh session headers.
func (s *Store) Reset() string {
	timestamp := s.now().Format(timestampLayout)

	transcriptHeader := fmt.Sprintf("HEBREW CALL CENTER TRANSCRIPT\nSession Started: %s\n%s\n\n", timestamp, strings.Repeat("=", 60))
	if err := s.overwrite(s.transcriptPath, transcriptHeader); err != nil {
		return fmt.Sprintf("[INIT ERROR] %v", err)
	}

	logHeader := fmt.Sprintf("CALL CENTER SYSTEM LOG\nSession Started: %s\n%s\n\n", timestamp, strings.Repeat("=", 60))
	if err := s.overwrite(s.eventLogPath, logHeader); err != nil {
		return fmt.Sprintf("[INIT ERROR] %v", err)
	}

	return "call session initialized"
}

// AppendStep appends one fixed-format conversation step block to the transcript.
func (s *Store) AppendStep(step int, speaker, original, nikud, audioFile, transcribed string) string {
	timestamp := s.now().Format(timestampLayout)

	entry := fmt.Sprintf(`
=== CONVERSATION STEP %d ===
Timestamp: %s
Speaker: %s
Original Text: %s
Nikud Text: %s
Audio File: %s
Transcribed Text: %s
%s
`, step, timestamp, speaker, original, nikud, audioFile, transcribed, strings.Repeat("=", 50))

	if err := s.append(s.transcriptPath, entry); err != nil {
		return fmt.Sprintf("[TRANSCRIPT ERROR] %v", err)
	}
	return fmt.Sprintf("logged step %d", step)
}

// AppendSummary appends the final call summary block to the transcript.
func (s *Store) AppendSummary(totalSteps int, outcome, satisfaction string, resolved bool, notes string) string {
	timestamp := s.now().Format(timestampLayout)
	resolvedText := "No"
	if resolved {
		resolvedText = "Yes"
	}

	rule := strings.Repeat("=", 60)
	summary := fmt.Sprintf(`
%s
CALL SUMMARY
%s
Call Date: %s
Total Conversation Steps: %d
Call Outcome: %s
Customer Satisfaction: %s
Issues Resolved: %s

Additional Notes: %s

Generated Files:
- Transcript: %s
- Call Log: %s

%s
`, rule, rule, timestamp, totalSteps, outcome, satisfaction, resolvedText, notes, s.transcriptPath, s.eventLogPath, rule)

	if err := s.append(s.transcriptPath, summary); err != nil {
		return fmt.Sprintf("[SUMMARY ERROR] %v", err)
	}
	return "call summary created"
}

// Event appends a timestamped record, with an optional pretty-printed
// structured payload, to the event log. Satisfies contracts.EventSink.
func (s *Store) Event(kind, message string, data map[string]any) string {
	timestamp := s.now().Format(timestampLayout)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s\n", timestamp, kind, message)
	if len(data) > 0 {
		payload, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Sprintf("[SYSTEM LOG ERROR] %v", err)
		}
		fmt.Fprintf(&b, "Data: %s\n", payload)
	}
	b.WriteString("\n")

	if err := s.append(s.eventLogPath, b.String()); err != nil {
		return fmt.Sprintf("[SYSTEM LOG ERROR] %v", err)
	}
	return "system event logged"
}

func (s *Store) overwrite(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *Store) append(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return nil
}
