package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"autolrc/internal/services"
)

// DefaultSampleRate is the rate wav2vec2-style acoustic models are trained on.
const DefaultSampleRate = 16000

// Converter wraps ffmpeg.
type Converter struct {
	FFmpeg     string
	SampleRate int
	Runner     services.CommandRunner
}

func (c Converter) binary() string {
	if b := strings.TrimSpace(c.FFmpeg); b != "" {
		return b
	}
	return "ffmpeg"
}

func (c Converter) rate() int {
	if c.SampleRate > 0 {
		return c.SampleRate
	}
	return DefaultSampleRate
}

// ToWAV writes a mono 16-bit PCM WAV of source to dest. streamIndex selects a
// container stream; a negative index lets ffmpeg pick the first audio stream.
func (c Converter) ToWAV(ctx context.Context, source string, streamIndex int, dest string) error {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(dest) == "" {
		return fmt.Errorf("convert: source and destination required")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
	}
	args = append(args, mapArgs(streamIndex)...)
	args = append(args,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(c.rate()),
		"-c:a", "pcm_s16le",
		dest,
	)
	if _, err := services.RunnerOrDefault(c.Runner)(ctx, c.binary(), args...); err != nil {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}

// DecodePCM decodes source to mono samples scaled to [-1, 1] at the
// converter's sample rate.
func (c Converter) DecodePCM(ctx context.Context, source string) ([]float64, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(c.rate()),
		"-f", "s16le",
		"-",
	}
	raw, err := services.RunnerOrDefault(c.Runner)(ctx, c.binary(), args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode: %w", err)
	}
	return PCM16ToFloat(raw), nil
}

// Rate returns the sample rate DecodePCM produces.
func (c Converter) Rate() int {
	return c.rate()
}

// PCM16ToFloat converts little-endian signed 16-bit samples. A trailing odd
// byte is ignored.
func PCM16ToFloat(raw []byte) []float64 {
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float64(v) / 32768
	}
	return samples
}

func mapArgs(streamIndex int) []string {
	if streamIndex < 0 {
		return []string{"-map", "0:a:0"}
	}
	return []string{"-map", fmt.Sprintf("0:%d", streamIndex)}
}
