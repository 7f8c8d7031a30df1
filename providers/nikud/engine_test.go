package nikud

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingSink struct {
	events []string
}

func (r *recordingSink) Event(kind, message string, _ map[string]any) string {
	r.events = append(r.events, kind+": "+message)
	return "recorded"
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phonikud-1.0.int8.onnx")
	if err := os.WriteFile(path, []byte("model-bytes"), 0o644); err != nil {
		t.Fatalf("write model artifact: %v", err)
	}
	return path
}

func TestDiacritizeMissingModelReturnsInputExactly(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	engine := New(Config{ModelPath: filepath.Join(t.TempDir(), "absent.onnx")}, sink)

	const input = "שלום, אני רוצה לבטל את המנוי"
	out, err := engine.Diacritize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != input {
		t.Fatalf("expected identity output, got %q", out)
	}
	if len(sink.events) != 1 || !strings.HasPrefix(sink.events[0], "WARNING") {
		t.Fatalf("expected one warning event, got %v", sink.events)
	}
}

func TestDiacritizeMissingEngineBinaryReturnsInput(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	engine := New(Config{ModelPath: writeModel(t), Bin: "phonikud"}, sink)
	engine.lookPath = func(string) (string, error) {
		return "", errors.New("executable file not found in $PATH")
	}

	out, err := engine.Diacritize("שלום")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "שלום" {
		t.Fatalf("expected identity output, got %q", out)
	}
}

func TestDiacritizeInferenceFaultReturnsMarker(t *testing.T) {
	t.Parallel()

	engine := New(Config{ModelPath: writeModel(t)}, nil)
	engine.lookPath = func(string) (string, error) { return "/usr/bin/phonikud", nil }
	engine.invoke = func(string, string, string) (string, error) {
		return "", errors.New("tensor shape mismatch")
	}

	out, err := engine.Diacritize("שלום")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, ErrorMarkerPrefix) {
		t.Fatalf("expected marker output, got %q", out)
	}
	if !strings.Contains(out, "tensor shape mismatch") {
		t.Fatalf("marker should embed the fault message, got %q", out)
	}
}

func TestDiacritizeSuccessTrimsEngineOutput(t *testing.T) {
	t.Parallel()

	engine := New(Config{ModelPath: writeModel(t)}, nil)
	engine.lookPath = func(string) (string, error) { return "/usr/bin/phonikud", nil }
	engine.invoke = func(_, _, text string) (string, error) {
		return "  שָׁלוֹם\n", nil
	}

	out, err := engine.Diacritize("שלום")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "שָׁלוֹם" {
		t.Fatalf("expected trimmed vocalized output, got %q", out)
	}
}

func TestDiacritizeBatchPreservesOrder(t *testing.T) {
	t.Parallel()

	engine := New(Config{ModelPath: writeModel(t)}, nil)
	engine.lookPath = func(string) (string, error) { return "/usr/bin/phonikud", nil }
	engine.invoke = func(_, _, text string) (string, error) {
		return fmt.Sprintf("<%s>", text), nil
	}

	out := engine.DiacritizeBatch([]string{"אחת", "שתיים"})
	if len(out) != 2 || out[0] != "<אחת>" || out[1] != "<שתיים>" {
		t.Fatalf("unexpected batch output: %v", out)
	}
}
