package audio

import (
	"context"
	"errors"
	"slices"
	"testing"

	"autolrc/internal/media/ffprobe"
)

func TestSelectPrefersLanguageMatch(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio", Channels: 6, Tags: map[string]string{"language": "eng"}, Disposition: map[string]int{"default": 1}},
		{Index: 2, CodecType: "audio", Channels: 2, Tags: map[string]string{"language": "sin"}},
	}
	got, ok := Select(streams, "Sinhala")
	if !ok || got.Index != 2 {
		t.Fatalf("expected Sinhala stream 2, got %d (%v)", got.Index, ok)
	}
	got, ok = Select(streams, "")
	if !ok || got.Index != 1 {
		t.Fatalf("expected default stream 1 without a preference, got %d", got.Index)
	}
}

func TestSelectNoAudio(t *testing.T) {
	if _, ok := Select([]ffprobe.Stream{{Index: 0, CodecType: "video"}}, "en"); ok {
		t.Fatal("expected no selection")
	}
}

func TestToWAVArgs(t *testing.T) {
	var gotName string
	var gotArgs []string
	c := Converter{SampleRate: 16000, Runner: func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return nil, nil
	}}
	if err := c.ToWAV(context.Background(), "in.mp3", 3, "out.wav"); err != nil {
		t.Fatalf("ToWAV: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	for _, want := range [][]string{{"-map", "0:3"}, {"-ac", "1"}, {"-ar", "16000"}, {"-c:a", "pcm_s16le"}} {
		idx := slices.Index(gotArgs, want[0])
		if idx < 0 || gotArgs[idx+1] != want[1] {
			t.Fatalf("missing %v in %v", want, gotArgs)
		}
	}
	if gotArgs[len(gotArgs)-1] != "out.wav" {
		t.Fatalf("destination should be last, got %v", gotArgs)
	}
}

func TestToWAVPropagatesFailure(t *testing.T) {
	c := Converter{Runner: func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("boom")
	}}
	if err := c.ToWAV(context.Background(), "in.mp3", -1, "out.wav"); err == nil {
		t.Fatal("expected error")
	}
	if err := c.ToWAV(context.Background(), "", -1, "out.wav"); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestDecodePCM(t *testing.T) {
	raw := []byte{0x00, 0x00, 0xff, 0x7f, 0x00, 0x80, 0x01}
	c := Converter{Runner: func(_ context.Context, _ string, args ...string) ([]byte, error) {
		if args[len(args)-1] != "-" || !slices.Contains(args, "s16le") {
			t.Fatalf("expected raw s16le to stdout, got %v", args)
		}
		return raw, nil
	}}
	samples, err := c.DecodePCM(context.Background(), "in.wav")
	if err != nil {
		t.Fatalf("DecodePCM: %v", err)
	}
	want := []float64{0, 32767.0 / 32768, -1}
	if !slices.Equal(samples, want) {
		t.Fatalf("samples = %v, want %v", samples, want)
	}
	if c.Rate() != DefaultSampleRate {
		t.Fatalf("Rate() = %d", c.Rate())
	}
}
