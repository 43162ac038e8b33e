package lyrics

import "strings"

// Default batch sizes. Word-level lines are shorter so the inline tags stay
// readable.
const (
	DefaultLRCWordsPerLine  = 4
	DefaultELRCWordsPerLine = 3
)

// Word is one aligned transcript word. Times are seconds from the start of
// the recording.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Line is a group of words sharing one leading timestamp.
type Line struct {
	Start float64
	Words []Word
}

// Document is an ordered list of lyric lines.
type Document struct {
	Lines []Line
}

// Group batches consecutive words into lines of at most n words. Each line
// starts at its first word's start time.
func Group(words []Word, n int) Document {
	if n <= 0 {
		n = DefaultLRCWordsPerLine
	}
	var doc Document
	for i := 0; i < len(words); i += n {
		end := min(i+n, len(words))
		batch := make([]Word, end-i)
		copy(batch, words[i:end])
		doc.Lines = append(doc.Lines, Line{Start: batch[0].Start, Words: batch})
	}
	return doc
}

// Words returns every word of the document in order.
func (d Document) Words() []Word {
	var out []Word
	for _, line := range d.Lines {
		out = append(out, line.Words...)
	}
	return out
}

// LRC renders the line-level format: [mm:ss.hh]w1 w2 w3
func (d Document) LRC() string {
	var b strings.Builder
	for _, line := range d.Lines {
		if len(line.Words) == 0 {
			continue
		}
		b.WriteString(FormatTime(line.Start))
		for i, w := range line.Words {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ELRC renders the word-level format: [mm:ss.hh]<mm:ss.hh>w1<mm:ss.hh>w2
func (d Document) ELRC() string {
	var b strings.Builder
	for _, line := range d.Lines {
		if len(line.Words) == 0 {
			continue
		}
		b.WriteString(FormatTime(line.Start))
		for _, w := range line.Words {
			b.WriteString(inlineTime(w.Start))
			b.WriteString(w.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderLRC groups words n per line and renders the line-level format.
func RenderLRC(words []Word, n int) string {
	if n <= 0 {
		n = DefaultLRCWordsPerLine
	}
	return Group(words, n).LRC()
}

// RenderELRC groups words n per line and renders the word-level format.
func RenderELRC(words []Word, n int) string {
	if n <= 0 {
		n = DefaultELRCWordsPerLine
	}
	return Group(words, n).ELRC()
}
