// Package polly implements the cloud synthesis backend on Amazon Polly. The
// engine emits MP3 natively and attempts a WAV transcode for downstream
// transcription; a failed transcode keeps the MP3.
package polly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	pollysdk "github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/smithy-go"
	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
	"github.com/tiger/hebrew-call-sim/providers/tts"
)

// EngineName identifies this backend in events and configuration.
const EngineName = "amazon-polly"

type synthClient interface {
	SynthesizeSpeech(ctx context.Context, params *pollysdk.SynthesizeSpeechInput, optFns ...func(*pollysdk.Options)) (*pollysdk.SynthesizeSpeechOutput, error)
}

// Config holds Polly connection and voice settings.
type Config struct {
	Region  string
	VoiceID string
	Engine  string
	Timeout time.Duration
}

// Engine synthesizes speech through the Polly SynthesizeSpeech API.
type Engine struct {
	mu     sync.Mutex
	client synthClient
	cfg    Config
	events contracts.EventSink

	transcode func(mp3Path, wavPath string) error
}

// New constructs a Polly backend. The AWS client is resolved lazily on
// first use so construction never touches the network.
func New(cfg Config, events contracts.EventSink) *Engine {
	return NewWithClient(cfg, nil, events)
}

// NewWithClient constructs a Polly backend with an injected client for tests.
func NewWithClient(cfg Config, client synthClient, events contracts.EventSink) *Engine {
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}
	if strings.TrimSpace(cfg.VoiceID) == "" {
		cfg.VoiceID = "Joanna"
	}
	if strings.TrimSpace(cfg.Engine) == "" {
		cfg.Engine = "neural"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if events == nil {
		events = contracts.DiscardEvents{}
	}
	return &Engine{
		client:    client,
		cfg:       cfg,
		events:    events,
		transcode: tts.TranscodeMP3ToWAV,
	}
}

// Name returns the backend identifier.
func (e *Engine) Name() string {
	return EngineName
}

// Synthesize requests MP3 speech for text, writes it at basePath.mp3, and
// returns the WAV path when the transcode succeeds or the MP3 path when it
// does not.
func (e *Engine) Synthesize(text, basePath string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("synthesis text is required")
	}
	client, err := e.resolveClient()
	if err != nil {
		return "", err
	}

	engine := pollytypes.EngineStandard
	if strings.EqualFold(e.cfg.Engine, "neural") {
		engine = pollytypes.EngineNeural
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout)
	defer cancel()

	output, err := client.SynthesizeSpeech(ctx, &pollysdk.SynthesizeSpeechInput{
		Engine:       engine,
		OutputFormat: pollytypes.OutputFormatMp3,
		Text:         &text,
		TextType:     pollytypes.TextTypeText,
		VoiceId:      pollytypes.VoiceId(e.cfg.VoiceID),
	})
	if err != nil {
		return "", fmt.Errorf("polly synthesis (%s): %w", classifyError(err), err)
	}
	if output == nil || output.AudioStream == nil {
		return "", fmt.Errorf("polly returned empty audio stream")
	}
	defer output.AudioStream.Close()

	mp3Path := basePath + ".mp3"
	audio, err := io.ReadAll(output.AudioStream)
	if err != nil {
		return "", fmt.Errorf("read polly audio stream: %w", err)
	}
	if err := os.WriteFile(mp3Path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", mp3Path, err)
	}

	wavPath := basePath + ".wav"
	if err := e.transcode(mp3Path, wavPath); err != nil {
		e.events.Event("WARNING", fmt.Sprintf("mp3 to wav transcode failed: %v, keeping mp3", err), nil)
		return mp3Path, nil
	}
	return wavPath, nil
}

// classifyError maps transport and API failures onto stable reason strings
// for event records.
func classifyError(err error) string {
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "TooManyRequestsException":
			return "overload"
		case "InvalidSsmlException", "TextLengthExceededException", "LexiconNotFoundException", "InvalidSampleRateException":
			return "client_error"
		default:
			return "server_error"
		}
	}
	return "transport_error"
}

func (e *Engine) resolveClient() (synthClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(e.cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	e.client = pollysdk.NewFromConfig(awsCfg)
	return e.client, nil
}
