package emission

import (
	"fmt"
	"strings"
	"unicode"
)

// Default symbols used by wav2vec2-style CTC vocabularies.
const (
	DefaultBlank         = "-"
	DefaultWordSeparator = "|"
)

// Vocabulary is the acoustic model's symbol table.
type Vocabulary struct {
	symbols   []string
	index     map[string]int
	blank     int
	separator int
}

// NewVocabulary indexes labels and resolves the blank and word-separator
// symbols. Empty blank or separator names fall back to the defaults; a blank
// symbol that is not present falls back to index 0.
func NewVocabulary(labels []string, blank, separator string) (*Vocabulary, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("vocabulary: no labels")
	}
	if strings.TrimSpace(blank) == "" {
		blank = DefaultBlank
	}
	if strings.TrimSpace(separator) == "" {
		separator = DefaultWordSeparator
	}
	v := &Vocabulary{
		symbols: append([]string(nil), labels...),
		index:   make(map[string]int, len(labels)),
	}
	for i, label := range labels {
		if _, dup := v.index[label]; !dup {
			v.index[label] = i
		}
	}
	if idx, ok := v.index[blank]; ok {
		v.blank = idx
	} else {
		v.blank = 0
	}
	idx, ok := v.index[separator]
	if !ok {
		return nil, fmt.Errorf("vocabulary: word separator %q not in labels", separator)
	}
	v.separator = idx
	return v, nil
}

// Size returns the number of symbols.
func (v *Vocabulary) Size() int { return len(v.symbols) }

// Blank returns the index of the blank symbol.
func (v *Vocabulary) Blank() int { return v.blank }

// WordSeparator returns the index of the word-separator symbol.
func (v *Vocabulary) WordSeparator() int { return v.separator }

// Symbol returns the label at idx.
func (v *Vocabulary) Symbol(idx int) string {
	if idx < 0 || idx >= len(v.symbols) {
		return ""
	}
	return v.symbols[idx]
}

// Lookup resolves a single rune to a vocabulary index. Letter labels are
// matched case-insensitively; the blank and separator symbols never match.
func (v *Vocabulary) Lookup(r rune) (int, bool) {
	for _, candidate := range []rune{r, unicode.ToUpper(r), unicode.ToLower(r)} {
		idx, ok := v.index[string(candidate)]
		if !ok {
			continue
		}
		if idx == v.blank || idx == v.separator {
			return 0, false
		}
		return idx, true
	}
	return 0, false
}
