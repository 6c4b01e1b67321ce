package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/mattn/go-shellwords"
)

// ErrConversionFailed is returned when the source cannot be turned into
// the target PCM format.
var ErrConversionFailed = errors.New("audio conversion failed")

// Format describes the PCM layout the recognizer expects.
type Format struct {
	Channels   int
	SampleRate int
}

var DefaultFormat = Format{Channels: 1, SampleRate: 16000}

// Normalizer converts an uploaded clip at src into PCM WAV at dst.
type Normalizer interface {
	Normalize(ctx context.Context, src, dst string) error
}

// FFmpegNormalizer shells out to ffmpeg (or a compatible tool). A partial
// dst may be left behind on failure.
type FFmpegNormalizer struct {
	cmd     []string
	format  Format
	timeout time.Duration
}

func NewFFmpegNormalizer(command string, format Format, timeout time.Duration) (*FFmpegNormalizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse ffmpeg command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("ffmpeg command is empty")
	}
	return &FFmpegNormalizer{cmd: args, format: format, timeout: timeout}, nil
}

func (n *FFmpegNormalizer) Normalize(ctx context.Context, src, dst string) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	args := append([]string{}, n.cmd[1:]...)
	args = append(args,
		"-i", src,
		"-ac", strconv.Itoa(n.format.Channels),
		"-ar", strconv.Itoa(n.format.SampleRate),
		dst,
	)

	command := exec.CommandContext(ctx, n.cmd[0], args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr

	start := time.Now()
	if err := command.Run(); err != nil {
		log.Printf("[FFmpeg] Error during conversion of %s: %v: %s", src, err, strings.TrimSpace(stderr.String()))
		return fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	if err := VerifyWAV(dst, n.format); err != nil {
		log.Printf("[FFmpeg] Conversion output rejected for %s: %v", src, err)
		return fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	log.Printf("[FFmpeg] Conversion successful: %s -> %s (%v)", src, dst, time.Since(start))
	return nil
}

// VerifyWAV checks that path is a PCM WAV file with the given layout.
func VerifyWAV(path string, want Format) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return fmt.Errorf("%s is not a valid wav file", path)
	}
	if dec.WavAudioFormat != 1 {
		return fmt.Errorf("wav is not PCM (format %d)", dec.WavAudioFormat)
	}
	if int(dec.NumChans) != want.Channels {
		return fmt.Errorf("wav has %d channels, want %d", dec.NumChans, want.Channels)
	}
	if int(dec.SampleRate) != want.SampleRate {
		return fmt.Errorf("wav sample rate %d, want %d", dec.SampleRate, want.SampleRate)
	}
	return nil
}
