package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tiger/hebrew-call-sim/internal/callog"
	"github.com/tiger/hebrew-call-sim/internal/config"
	"github.com/tiger/hebrew-call-sim/internal/pipeline"
	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
	"github.com/tiger/hebrew-call-sim/internal/script"
	"github.com/tiger/hebrew-call-sim/providers/nikud"
	"github.com/tiger/hebrew-call-sim/providers/stt/whisper"
	"github.com/tiger/hebrew-call-sim/providers/tts"
	"github.com/tiger/hebrew-call-sim/providers/tts/localneural"
	pollytts "github.com/tiger/hebrew-call-sim/providers/tts/polly"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, time.Now); err != nil {
		fmt.Fprintf(os.Stderr, "callsim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, _ io.Writer, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if len(args) > 0 {
		switch args[0] {
		case "help", "-h", "--help":
			printUsage(stdout)
			return nil
		}
	}

	printBanner(stdout)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := checkPrerequisites(cfg, stdout); err != nil {
		return err
	}

	turns := script.Default()
	if cfg.ScriptPath != "" {
		turns, err = script.Load(cfg.ScriptPath)
		if err != nil {
			return err
		}
	}

	store := callog.New(cfg.OutputDir, cfg.LogsDir)

	var engine tts.Engine
	switch cfg.TTSBackend {
	case config.BackendLocal:
		engine = localneural.New(localneural.Config{
			Bin:       cfg.LocalTTSBin,
			ModelPath: cfg.LocalTTSModel,
		})
	default:
		engine = pollytts.New(pollytts.Config{
			Region:  cfg.PollyRegion,
			VoiceID: cfg.PollyVoice,
			Engine:  cfg.PollyEngine,
		}, store)
	}

	p, err := pipeline.New(
		nikud.New(nikud.Config{ModelPath: cfg.PhonikudModelPath, Bin: cfg.PhonikudBin}, store),
		tts.New(engine, cfg.OutputDir, store),
		whisper.New(whisper.Config{Bin: cfg.WhisperBin, Model: cfg.WhisperModel}, store),
		store,
	)
	if err != nil {
		return err
	}

	sess, err := pipeline.NewSession(pipeline.SessionConfig{
		MaxTurns:            cfg.MaxTurns,
		ResolutionThreshold: cfg.ResolutionThreshold,
	}, p, store, turns)
	if err != nil {
		return err
	}

	start := now()
	result := sess.Run()
	printResults(stdout, cfg, result, now().Sub(start))
	return nil
}

func checkPrerequisites(cfg config.Config, stdout io.Writer) error {
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required; set it in the environment before running")
	}
	for _, dir := range []string{cfg.OutputDir, cfg.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if _, err := os.Stat(cfg.PhonikudModelPath); err != nil {
		fmt.Fprintf(stdout, "[WARN] phonikud model not found at %s; dialogue will run without nikud\n", cfg.PhonikudModelPath)
	}
	return nil
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, "HEBREW CALL CENTER SIMULATION")
	fmt.Fprintln(w, "nikud -> speech synthesis -> transcription -> transcript logging")
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "callsim usage:")
	fmt.Fprintln(w, "  callsim            run the scripted Hebrew call simulation")
	fmt.Fprintln(w, "Configuration is environment-driven; recognized keys include")
	fmt.Fprintln(w, "  OPENAI_API_KEY, MAX_CONVERSATION_TURNS, PHONIKUD_MODEL_PATH,")
	fmt.Fprintln(w, "  TTS_BACKEND (polly|local), SCRIPT_PATH, DEBUG_MODE")
}

func printResults(w io.Writer, cfg config.Config, result contracts.SessionResult, elapsed time.Duration) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SIMULATION RESULTS")
	fmt.Fprintln(w, rule)

	if result.Status == contracts.SessionCompleted {
		fmt.Fprintf(w, "Status: %s\n", strings.ToUpper(string(result.Status)))
		fmt.Fprintf(w, "Total Steps: %d\n", result.TotalSteps)
		fmt.Fprintf(w, "Successful Steps: %d\n", result.SuccessfulSteps)
		fmt.Fprintf(w, "Outcome: %s\n", result.Outcome)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Generated Files:")
		fmt.Fprintf(w, "  - Transcript: %s\n", filepath.Join(cfg.OutputDir, "transcript.txt"))
		fmt.Fprintf(w, "  - System Log: %s\n", filepath.Join(cfg.LogsDir, "call_log.txt"))
		for _, line := range audioArtifactLines(cfg.OutputDir) {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	} else {
		fmt.Fprintf(w, "Status: %s\n", strings.ToUpper(string(result.Status)))
		fmt.Fprintf(w, "Error: %s\n", result.Error)
	}

	fmt.Fprintf(w, "\nTotal Execution Time: %.2f seconds\n", elapsed.Seconds())
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SIMULATION COMPLETED")
	fmt.Fprintln(w, rule)
}

func audioArtifactLines(outputDir string) []string {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "audio_step_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%d bytes)", name, info.Size()))
	}
	sort.Strings(lines)
	return lines
}
