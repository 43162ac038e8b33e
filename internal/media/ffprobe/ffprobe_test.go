package ffprobe

import (
	"context"
	"errors"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "channels": 2, "sample_rate": "44100",
     "duration": "201.5", "tags": {"language": "sin"}, "disposition": {"default": 1}}
  ],
  "format": {"filename": "song.mp4", "nb_streams": 2, "duration": "201.60", "size": "1000"}
}`

func TestInspectUsesRunner(t *testing.T) {
	var gotArgs []string
	runner := func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffprobe" {
			t.Fatalf("unexpected binary %q", name)
		}
		gotArgs = args
		return []byte(sampleJSON), nil
	}
	result, err := Inspect(context.Background(), runner, "", "song.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "song.mp4" || gotArgs[len(gotArgs)-2] != "--" {
		t.Fatalf("path should follow --, got %v", gotArgs)
	}
	if result.DurationSeconds() != 201.6 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
	audio := result.AudioStreams()
	if len(audio) != 1 || audio[0].Index != 1 || audio[0].Language() != "sin" {
		t.Fatalf("unexpected audio streams %+v", audio)
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size %d", result.SizeBytes())
	}
}

func TestInspectErrors(t *testing.T) {
	if _, err := Inspect(context.Background(), nil, "", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
	failing := func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}
	if _, err := Inspect(context.Background(), failing, "ffprobe", "x.wav"); err == nil {
		t.Fatal("expected runner error to propagate")
	}
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "12.5"}, {CodecType: "audio", Duration: "bad"}},
		Format:  Format{Duration: "N/A", Size: "-1"},
	}
	if result.DurationSeconds() != 12.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}
