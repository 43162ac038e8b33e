package lyrics

import (
	"math"
	"strings"
	"testing"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "[00:00.00]"},
		{65.5, "[01:05.50]"},
		{3600, "[60:00.00]"},
		{59.999, "[01:00.00]"},
		{12.344, "[00:12.34]"},
		{-4, "[00:00.00]"},
		{math.NaN(), "[00:00.00]"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func sampleWords() []Word {
	texts := []string{"the", "quick", "brown", "fox", "jumps"}
	words := make([]Word, len(texts))
	for i, text := range texts {
		words[i] = Word{Text: text, Start: float64(i) * 1.5, End: float64(i+1) * 1.5}
	}
	return words
}

func TestRenderLRC(t *testing.T) {
	got := RenderLRC(sampleWords(), 0)
	want := "[00:00.00]the quick brown fox\n[00:06.00]jumps\n"
	if got != want {
		t.Fatalf("RenderLRC =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderELRC(t *testing.T) {
	got := RenderELRC(sampleWords(), 0)
	want := "[00:00.00]<00:00.00>the<00:01.50>quick<00:03.00>brown\n" +
		"[00:04.50]<00:04.50>fox<00:06.00>jumps\n"
	if got != want {
		t.Fatalf("RenderELRC =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := RenderLRC(nil, 4); got != "" {
		t.Fatalf("RenderLRC(nil) = %q, want empty", got)
	}
	if got := RenderELRC(nil, 3); got != "" {
		t.Fatalf("RenderELRC(nil) = %q, want empty", got)
	}
	if got := StripTimestamps(""); got != "" {
		t.Fatalf("StripTimestamps(\"\") = %q, want empty", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	words := sampleWords()
	if RenderLRC(words, 2) != RenderLRC(words, 2) {
		t.Fatal("RenderLRC output differs between runs")
	}
	if RenderELRC(words, 2) != RenderELRC(words, 2) {
		t.Fatal("RenderELRC output differs between runs")
	}
}

func TestStripRoundTrip(t *testing.T) {
	words := sampleWords()
	want := []string{"the", "quick", "brown", "fox", "jumps"}
	for name, rendered := range map[string]string{
		"lrc":  RenderLRC(words, 4),
		"elrc": RenderELRC(words, 3),
	} {
		got := strings.Fields(StripTimestamps(rendered))
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("%s: stripped words = %q, want %q", name, got, want)
		}
	}
}

func TestStripTimestampsDropsBlankLines(t *testing.T) {
	in := "[00:01.00]hello   there\n\n[00:02.00]\n[00:03.00]<00:03.00>again<00:03.50>now\n"
	want := "hello there\nagain now\n"
	if got := StripTimestamps(in); got != want {
		t.Fatalf("StripTimestamps = %q, want %q", got, want)
	}
}

func TestParseLRC(t *testing.T) {
	doc, err := ParseLRC(RenderELRC(sampleWords(), 3))
	if err != nil {
		t.Fatalf("ParseLRC: %v", err)
	}
	words := doc.Words()
	if len(doc.Lines) != 2 || len(words) != 5 {
		t.Fatalf("got %d lines / %d words, want 2 / 5", len(doc.Lines), len(words))
	}
	if words[3].Text != "fox" || words[3].Start != 4.5 || words[3].End != 6 {
		t.Fatalf("words[3] = %+v", words[3])
	}

	plain, err := ParseLRC("title line\n[01:05.50]a b\n")
	if err != nil {
		t.Fatalf("ParseLRC plain: %v", err)
	}
	if len(plain.Lines) != 1 || plain.Lines[0].Start != 65.5 || len(plain.Lines[0].Words) != 2 {
		t.Fatalf("plain = %+v", plain)
	}

	if _, err := ParseLRC("[00:75.00]bad\n"); err == nil {
		t.Fatal("expected error for seconds >= 60")
	}
}
