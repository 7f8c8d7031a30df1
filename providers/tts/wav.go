package tts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// WriteSilentWAV writes a PCM16 WAV containing silence. The fallback path of
// the synthesis stage depends on this writer staying free of external
// libraries so it can never be the thing that is unavailable.
func WriteSilentWAV(path string, seconds, sampleRate, channels int) error {
	if seconds < 1 {
		seconds = 1
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if channels <= 0 {
		channels = 1
	}
	silence := make([]byte, seconds*sampleRate*channels*2)
	return writeWAV(path, sampleRate, channels, bytes.NewReader(silence))
}

// TranscodeMP3ToWAV decodes an MP3 artifact and rewrites it as PCM16 WAV.
// go-mp3 always yields 16-bit stereo output at the stream's sample rate.
func TranscodeMP3ToWAV(mp3Path, wavPath string) error {
	f, err := os.Open(mp3Path)
	if err != nil {
		return fmt.Errorf("open mp3 %s: %w", mp3Path, err)
	}
	defer f.Close()

	decoder, err := gomp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("decode mp3 %s: %w", mp3Path, err)
	}
	return writeWAV(wavPath, decoder.SampleRate(), 2, decoder)
}

func writeWAV(path string, sampleRate, channels int, pcm io.Reader) error {
	data, err := io.ReadAll(pcm)
	if err != nil {
		return fmt.Errorf("read pcm: %w", err)
	}

	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write wav %s: %w", path, err)
	}
	return nil
}
