package align

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"autolrc/internal/emission"
	"autolrc/internal/language"
)

// Vocabulary layout shared by the tests: blank, separator, then letters.
var testLabels = []string{"-", "|", "K", "A", "T"}

const (
	blankIdx = 0
	sepIdx   = 1
	kIdx     = 2
	aIdx     = 3
	tIdx     = 4
)

// favouring builds a probability matrix where each frame gives 0.6 to the
// listed token and 0.1 to every other column.
func favouring(t *testing.T, favoured []int) *emission.Matrix {
	t.Helper()
	rows := make([][]float64, len(favoured))
	for f, tok := range favoured {
		row := make([]float64, len(testLabels))
		for j := range row {
			row[j] = 0.1
		}
		row[tok] = 0.6
		rows[f] = row
	}
	m, err := emission.FromProbabilities(rows)
	if err != nil {
		t.Fatalf("FromProbabilities: %v", err)
	}
	return m
}

func katMatrix(t *testing.T) *emission.Matrix {
	return favouring(t, []int{kIdx, kIdx, kIdx, kIdx, kIdx, aIdx, aIdx, aIdx, tIdx, tIdx})
}

func TestAlignKatSpansWholeRecording(t *testing.T) {
	vocab, err := emission.NewVocabulary(testLabels, "-", "|")
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	seq, err := language.BuildSequence(language.PassThrough{}, "kat", vocab)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	want := []int{kIdx, aIdx, tIdx, sepIdx}
	for i, id := range seq.IDs {
		if id != want[i] {
			t.Fatalf("IDs = %v, want %v", seq.IDs, want)
		}
	}

	const fd = 0.02
	words, err := Words(katMatrix(t), seq, vocab.Blank(), fd)
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1", len(words))
	}
	if words[0].Text != "kat" {
		t.Fatalf("Text = %q, want kat", words[0].Text)
	}
	if words[0].Start != 0 {
		t.Fatalf("Start = %v, want 0", words[0].Start)
	}
	if math.Abs(words[0].End-10*fd) > 1e-9 {
		t.Fatalf("End = %v, want %v", words[0].End, 10*fd)
	}
}

func TestAlignKatEmissionFrames(t *testing.T) {
	path, err := Align(katMatrix(t), []int{kIdx, aIdx, tIdx, sepIdx}, blankIdx)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	var emitted []int
	for _, p := range path {
		if p.Emitted {
			emitted = append(emitted, p.Frame)
		}
	}
	want := []int{0, 5, 8, 9}
	if len(emitted) != len(want) {
		t.Fatalf("emitted frames = %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted frames = %v, want %v", emitted, want)
		}
	}
}

func TestAlignPathIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		frames := 5 + rng.Intn(40)
		n := 1 + rng.Intn(frames)
		rows := make([][]float64, frames)
		for f := range rows {
			rows[f] = make([]float64, len(testLabels))
			for j := range rows[f] {
				rows[f][j] = rng.NormFloat64() * 3
			}
		}
		m, err := emission.FromLogits(rows)
		if err != nil {
			t.Fatalf("FromLogits: %v", err)
		}
		tokens := make([]int, n)
		for i := range tokens {
			tokens[i] = 1 + rng.Intn(len(testLabels)-1)
		}

		path, err := Align(m, tokens, blankIdx)
		if err != nil {
			t.Fatalf("trial %d: Align: %v", trial, err)
		}
		if len(path) != frames {
			t.Fatalf("trial %d: path length %d, want %d", trial, len(path), frames)
		}
		if path[len(path)-1].Frame != frames-1 {
			t.Fatalf("trial %d: last frame %d, want %d", trial, path[len(path)-1].Frame, frames-1)
		}
		next := 0
		for f, p := range path {
			if p.Frame != f {
				t.Fatalf("trial %d: point %d has frame %d", trial, f, p.Frame)
			}
			if f > 0 && p.Token < path[f-1].Token {
				t.Fatalf("trial %d: token index decreased at frame %d", trial, f)
			}
			if p.Emitted {
				if p.Token != next {
					t.Fatalf("trial %d: emitted token %d, want %d", trial, p.Token, next)
				}
				next++
			}
		}
		if next != n {
			t.Fatalf("trial %d: emitted %d tokens, want %d", trial, next, n)
		}
	}
}

func TestAlignEveryFrameEmitsWhenTight(t *testing.T) {
	m := favouring(t, []int{kIdx, aIdx, tIdx})
	path, err := Align(m, []int{kIdx, aIdx, tIdx}, blankIdx)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	for f, p := range path {
		if !p.Emitted || p.Token != f {
			t.Fatalf("point %d = %+v, want emission of token %d", f, p, f)
		}
	}
}

func TestAlignErrors(t *testing.T) {
	m := favouring(t, []int{kIdx, aIdx})
	if _, err := Align(m, nil, blankIdx); !errors.Is(err, ErrEmptyTokens) {
		t.Fatalf("empty tokens err = %v, want ErrEmptyTokens", err)
	}
	if _, err := Align(m, []int{kIdx, aIdx, tIdx}, blankIdx); !errors.Is(err, ErrTooFewFrames) {
		t.Fatalf("too few frames err = %v, want ErrTooFewFrames", err)
	}
	if _, err := Align(m, []int{99}, blankIdx); err == nil {
		t.Fatal("expected error for token outside vocabulary")
	}
	if _, err := Align(m, []int{kIdx}, 42); err == nil {
		t.Fatal("expected error for blank outside vocabulary")
	}
}

func TestTrellisBaseCase(t *testing.T) {
	m := katMatrix(t)
	trellis, err := Trellis(m, []int{kIdx}, blankIdx)
	if err != nil {
		t.Fatalf("Trellis: %v", err)
	}
	if trellis[0][0] != 0 {
		t.Fatalf("trellis[0][0] = %v, want 0", trellis[0][0])
	}
	if !math.IsInf(trellis[0][1], -1) {
		t.Fatalf("trellis[0][1] = %v, want -Inf", trellis[0][1])
	}
	want := 3 * math.Log(0.1)
	if math.Abs(trellis[3][0]-want) > 1e-9 {
		t.Fatalf("trellis[3][0] = %v, want %v", trellis[3][0], want)
	}
}

func TestWordSpansDropsUntouchedWords(t *testing.T) {
	path := Path{
		{Frame: 0, Token: 0, Emitted: true},
		{Frame: 1, Token: 1, Emitted: true},
		{Frame: 2, Token: 1},
	}
	words := []language.WordSpan{
		{Original: "hi", First: 0, Last: 1},
		{Original: "ghost", First: 5, Last: 7},
	}
	got := WordSpans(path, words, 0.5)
	if len(got) != 1 {
		t.Fatalf("got %d words, want 1", len(got))
	}
	if got[0].Start != 0 || got[0].End != 1.5 {
		t.Fatalf("span = %+v, want 0 to 1.5", got[0])
	}
}
