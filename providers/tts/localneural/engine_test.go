package localneural

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(path, []byte("weights"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestSynthesizeWritesWAV(t *testing.T) {
	t.Parallel()

	engine := New(Config{ModelPath: writeModel(t)})
	engine.lookPath = func(string) (string, error) { return "/usr/bin/neural-tts", nil }

	var gotArgs []string
	engine.invoke = func(bin string, args []string, text string) error {
		gotArgs = args
		for i, arg := range args {
			if arg == "--output" {
				return os.WriteFile(args[i+1], []byte("wav"), 0o644)
			}
		}
		return errors.New("no output flag")
	}

	base := filepath.Join(t.TempDir(), "audio_step_1")
	path, err := engine.Synthesize("שלום", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != base+".wav" {
		t.Fatalf("unexpected artifact path: %s", path)
	}

	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--device cpu") {
		t.Fatalf("expected explicit cpu device argument, got %q", joined)
	}
	if !strings.Contains(joined, "--language he") {
		t.Fatalf("expected hebrew language argument, got %q", joined)
	}
}

func TestSynthesizeMissingBinary(t *testing.T) {
	t.Parallel()

	engine := New(Config{})
	engine.lookPath = func(string) (string, error) {
		return "", errors.New("executable file not found in $PATH")
	}

	if _, err := engine.Synthesize("שלום", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error for missing engine binary")
	}
}

func TestSynthesizeMissingModel(t *testing.T) {
	t.Parallel()

	engine := New(Config{ModelPath: filepath.Join(t.TempDir(), "absent.onnx")})
	engine.lookPath = func(string) (string, error) { return "/usr/bin/neural-tts", nil }

	if _, err := engine.Synthesize("שלום", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error for missing model artifact")
	}
}

func TestSynthesizeEngineProducedNothing(t *testing.T) {
	t.Parallel()

	engine := New(Config{})
	engine.lookPath = func(string) (string, error) { return "/usr/bin/neural-tts", nil }
	engine.invoke = func(string, []string, string) error { return nil }

	_, err := engine.Synthesize("שלום", filepath.Join(t.TempDir(), "x"))
	if err == nil || !strings.Contains(err.Error(), "no artifact") {
		t.Fatalf("expected missing artifact error, got %v", err)
	}
}
