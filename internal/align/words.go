package align

import (
	"autolrc/internal/language"
	"autolrc/internal/lyrics"
)

// WordSpans converts a path into timed words. A word starts on the first frame
// emitting one of its tokens and ends after the last frame attributed to its
// token range. Words the path never touches are dropped.
func WordSpans(path Path, words []language.WordSpan, frameDuration float64) []lyrics.Word {
	out := make([]lyrics.Word, 0, len(words))
	for _, w := range words {
		first, last := -1, -1
		for _, p := range path {
			if p.Token < w.First || p.Token > w.Last {
				continue
			}
			if p.Emitted && first < 0 {
				first = p.Frame
			}
			last = p.Frame
		}
		if first < 0 {
			continue
		}
		out = append(out, lyrics.Word{
			Text:  w.Original,
			Start: float64(first) * frameDuration,
			End:   float64(last+1) * frameDuration,
		})
	}
	return out
}

// Words aligns seq against em and returns the timed words.
func Words(em Emissions, seq language.Sequence, blank int, frameDuration float64) ([]lyrics.Word, error) {
	path, err := Align(em, seq.IDs, blank)
	if err != nil {
		return nil, err
	}
	return WordSpans(path, seq.Words, frameDuration), nil
}
