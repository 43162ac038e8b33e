package language

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrNoTokens reports a transcript with no character the vocabulary knows.
var ErrNoTokens = errors.New("language: transcript produced no alignable tokens")

// Vocabulary is the part of an acoustic model's symbol table a Mapper needs.
type Vocabulary interface {
	Lookup(r rune) (int, bool)
	WordSeparator() int
}

// Mapper converts transcript text into acoustic-model tokens.
type Mapper interface {
	Name() string
	// Preprocess splits text into whitespace-delimited words, keeping each
	// whitespace rune as its own entry. Both slices have the same length.
	Preprocess(text string) (original, normalized []string)
	// Tokenize emits one index per known rune of every non-whitespace word
	// followed by the word separator, plus the token range of each word. It
	// returns nil slices when no rune was known.
	Tokenize(normalized []string, vocab Vocabulary) ([]int, []WordRange)
}

// WordRange locates normalized[Word] inside a token sequence. First and Last
// are inclusive token indices; Last is the word's separator.
type WordRange struct {
	Word  int
	First int
	Last  int
}

// PassThrough feeds text to the model unchanged apart from lower-casing.
type PassThrough struct{}

// Name implements Mapper.
func (PassThrough) Name() string { return "passthrough" }

// Preprocess implements Mapper.
func (PassThrough) Preprocess(text string) ([]string, []string) {
	words := splitWords(norm.NFC.String(text))
	normalized := make([]string, len(words))
	copy(normalized, words)
	return words, normalized
}

// Tokenize implements Mapper.
func (PassThrough) Tokenize(normalized []string, vocab Vocabulary) ([]int, []WordRange) {
	return tokenize(normalized, vocab, true)
}

// Transliteration romanizes each rune through a static table before
// tokenizing. Runes missing from the table are dropped.
type Transliteration struct {
	name  string
	table map[rune]string
}

// NewTransliteration builds a Transliteration over a copy of table.
func NewTransliteration(name string, table map[rune]string) Transliteration {
	cp := make(map[rune]string, len(table))
	for k, v := range table {
		cp[k] = v
	}
	return Transliteration{name: name, table: cp}
}

// Name implements Mapper.
func (t Transliteration) Name() string {
	if t.name == "" {
		return "transliteration"
	}
	return strings.ToLower(t.name)
}

// Preprocess implements Mapper.
func (t Transliteration) Preprocess(text string) ([]string, []string) {
	words := splitWords(norm.NFC.String(text))
	normalized := make([]string, len(words))
	for i, w := range words {
		if isSpace(w) {
			normalized[i] = w
			continue
		}
		normalized[i] = t.Romanize(w)
	}
	return words, normalized
}

// Romanize maps every rune of word through the table.
func (t Transliteration) Romanize(word string) string {
	var b strings.Builder
	for _, r := range word {
		b.WriteString(t.table[r])
	}
	return b.String()
}

// Tokenize implements Mapper.
func (t Transliteration) Tokenize(normalized []string, vocab Vocabulary) ([]int, []WordRange) {
	return tokenize(normalized, vocab, false)
}

// WordSpan ties a transcript word to its inclusive token-index range. Last is
// always the word's separator token.
type WordSpan struct {
	Original   string
	Normalized string
	First      int
	Last       int
}

// Sequence is a token sequence plus the word boundaries inside it.
type Sequence struct {
	IDs   []int
	Words []WordSpan
}

// Len returns the number of tokens.
func (s Sequence) Len() int { return len(s.IDs) }

// BuildSequence runs m over text and records where each word's tokens fall.
func BuildSequence(m Mapper, text string, vocab Vocabulary) (Sequence, error) {
	if m == nil {
		m = PassThrough{}
	}
	original, normalized := m.Preprocess(text)
	ids, ranges := m.Tokenize(normalized, vocab)
	if len(ids) == 0 {
		return Sequence{}, ErrNoTokens
	}
	seq := Sequence{IDs: ids, Words: make([]WordSpan, 0, len(ranges))}
	next := 0
	for _, r := range ranges {
		if r.Word < 0 || r.Word >= len(original) || r.Word >= len(normalized) ||
			r.First < next || r.Last < r.First || r.Last >= len(ids) {
			return Sequence{}, fmt.Errorf("language: %s mapper returned invalid word range %+v", m.Name(), r)
		}
		next = r.Last + 1
		seq.Words = append(seq.Words, WordSpan{
			Original:   original[r.Word],
			Normalized: normalized[r.Word],
			First:      r.First,
			Last:       r.Last,
		})
	}
	return seq, nil
}

func tokenize(words []string, vocab Vocabulary, fold bool) ([]int, []WordRange) {
	if vocab == nil {
		return nil, nil
	}
	sep := vocab.WordSeparator()
	// Casers carry state and cannot be shared across goroutines.
	lower := cases.Lower(xlang.Und)
	var (
		ids    []int
		ranges []WordRange
		chars  int
	)
	for i, w := range words {
		// Whitespace entries and words that romanized to nothing carry no tokens.
		if w == "" || isSpace(w) {
			continue
		}
		if fold {
			w = lower.String(w)
		}
		first := len(ids)
		for _, r := range w {
			if idx, ok := vocab.Lookup(r); ok {
				ids = append(ids, idx)
				chars++
			}
		}
		ids = append(ids, sep)
		ranges = append(ranges, WordRange{Word: i, First: first, Last: len(ids) - 1})
	}
	if chars == 0 {
		return nil, nil
	}
	return ids, ranges
}

// splitWords splits on whitespace keeping every whitespace rune as an entry.
func splitWords(text string) []string {
	var (
		out   []string
		start = -1
	)
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, text[start:i])
				start = -1
			}
			out = append(out, string(r))
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, text[start:])
	}
	return out
}

func isSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
