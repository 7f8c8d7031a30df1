package polly

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pollysdk "github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/smithy-go"
)

type fakePollyClient struct {
	out *pollysdk.SynthesizeSpeechOutput
	err error
}

func (f fakePollyClient) SynthesizeSpeech(ctx context.Context, params *pollysdk.SynthesizeSpeechInput, optFns ...func(*pollysdk.Options)) (*pollysdk.SynthesizeSpeechOutput, error) {
	return f.out, f.err
}

type fakeAPIError struct {
	code string
	msg  string
}

func (e fakeAPIError) Error() string                 { return e.code + ": " + e.msg }
func (e fakeAPIError) ErrorCode() string             { return e.code }
func (e fakeAPIError) ErrorMessage() string          { return e.msg }
func (e fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultServer }

func audioStream(payload string) io.ReadCloser {
	return io.NopCloser(bytes.NewReader([]byte(payload)))
}

func TestSynthesizeKeepsMP3WhenTranscodeFails(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(Config{}, fakePollyClient{
		out: &pollysdk.SynthesizeSpeechOutput{AudioStream: audioStream("mp3-bytes")},
	}, nil)

	base := filepath.Join(t.TempDir(), "audio_step_1")
	path, err := engine.Synthesize("שלום", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The fake audio stream is not decodable, so the native MP3 survives.
	if path != base+".mp3" {
		t.Fatalf("expected mp3 path, got %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(raw) != "mp3-bytes" {
		t.Fatalf("unexpected artifact content: %q", raw)
	}
}

func TestSynthesizeReturnsWAVWhenTranscodeSucceeds(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(Config{}, fakePollyClient{
		out: &pollysdk.SynthesizeSpeechOutput{AudioStream: audioStream("mp3-bytes")},
	}, nil)
	engine.transcode = func(mp3Path, wavPath string) error {
		return os.WriteFile(wavPath, []byte("wav-bytes"), 0o644)
	}

	base := filepath.Join(t.TempDir(), "audio_step_2")
	path, err := engine.Synthesize("שלום", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != base+".wav" {
		t.Fatalf("expected wav path, got %s", path)
	}
}

func TestSynthesizePropagatesProviderFailure(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(Config{}, fakePollyClient{err: errors.New("tcp reset")}, nil)

	if _, err := engine.Synthesize("שלום", filepath.Join(t.TempDir(), "audio_step_3")); err == nil {
		t.Fatal("expected synthesis error")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(Config{}, fakePollyClient{}, nil)
	if _, err := engine.Synthesize("  ", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSynthesizeEmptyStreamFails(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(Config{}, fakePollyClient{out: &pollysdk.SynthesizeSpeechOutput{}}, nil)
	_, err := engine.Synthesize("שלום", filepath.Join(t.TempDir(), "x"))
	if err == nil || !strings.Contains(err.Error(), "empty audio stream") {
		t.Fatalf("expected empty stream error, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "timeout", err: context.DeadlineExceeded, expected: "timeout"},
		{name: "cancelled", err: context.Canceled, expected: "cancelled"},
		{name: "overload", err: fakeAPIError{code: "TooManyRequestsException", msg: "rate"}, expected: "overload"},
		{name: "client", err: fakeAPIError{code: "TextLengthExceededException", msg: "too long"}, expected: "client_error"},
		{name: "server", err: fakeAPIError{code: "ServiceFailureException", msg: "boom"}, expected: "server_error"},
		{name: "transport", err: errors.New("tcp reset"), expected: "transport_error"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tc.err); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}
