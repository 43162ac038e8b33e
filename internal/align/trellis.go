package align

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyTokens is returned for an empty token sequence.
	ErrEmptyTokens = errors.New("align: token sequence is empty")
	// ErrTooFewFrames is returned when there are fewer frames than tokens, so
	// no path can visit every token.
	ErrTooFewFrames = errors.New("align: fewer frames than tokens")
)

// Emissions is a frames × vocabulary table of log-probabilities.
type Emissions interface {
	Frames() int
	VocabSize() int
	At(frame, token int) float64
}

// Point is one frame of an alignment path. Token is the index into the token
// sequence of the most recently emitted token; Emitted is set on the frame
// that emits it. Frames before the first emission carry Token 0.
type Point struct {
	Frame   int
	Token   int
	Emitted bool
}

// Path holds one Point per frame in frame order.
type Path []Point

// Trellis returns the (frames+1) × (tokens+1) table where cell [t][i] is the
// best log score of emitting the first i tokens within the first t frames.
func Trellis(em Emissions, tokens []int, blank int) ([][]float64, error) {
	if err := validate(em, tokens, blank); err != nil {
		return nil, err
	}
	frames, n := em.Frames(), len(tokens)
	negInf := math.Inf(-1)

	trellis := make([][]float64, frames+1)
	for t := range trellis {
		row := make([]float64, n+1)
		for i := range row {
			row[i] = negInf
		}
		trellis[t] = row
	}
	trellis[0][0] = 0

	for t := 0; t < frames; t++ {
		b := em.At(t, blank)
		trellis[t+1][0] = trellis[t][0] + b
		for i := 0; i < n; i++ {
			stay := trellis[t][i+1] + b
			advance := trellis[t][i] + em.At(t, tokens[i])
			trellis[t+1][i+1] = math.Max(stay, advance)
		}
	}
	return trellis, nil
}

// Backtrack recovers the best path through a table built by Trellis.
func Backtrack(trellis [][]float64, em Emissions, tokens []int, blank int) Path {
	frames, n := len(trellis)-1, len(tokens)
	if frames <= 0 || n == 0 {
		return nil
	}
	path := make(Path, 0, frames)
	i := n
	for t := frames; t > 0; t-- {
		f := t - 1
		stay := trellis[f][i] + em.At(f, blank)
		advance := math.Inf(-1)
		if i > 0 {
			advance = trellis[f][i-1] + em.At(f, tokens[i-1])
		}
		// More tokens left than frames means the token must be emitted here.
		if i > 0 && (better(advance, stay) || i > f) {
			path = append(path, Point{Frame: f, Token: i - 1, Emitted: true})
			i--
			continue
		}
		path = append(path, Point{Frame: f, Token: max(i-1, 0)})
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// better reports whether a beats b by more than accumulated rounding error.
// Scores built from the same terms in a different order count as a tie.
func better(a, b float64) bool {
	if math.IsInf(b, -1) {
		return !math.IsInf(a, -1)
	}
	return a-b > tieTolerance*math.Max(1, math.Abs(b))
}

const tieTolerance = 1e-9

// Align builds the trellis and returns the best path.
func Align(em Emissions, tokens []int, blank int) (Path, error) {
	trellis, err := Trellis(em, tokens, blank)
	if err != nil {
		return nil, err
	}
	return Backtrack(trellis, em, tokens, blank), nil
}

func validate(em Emissions, tokens []int, blank int) error {
	if len(tokens) == 0 {
		return ErrEmptyTokens
	}
	if em == nil || em.Frames() == 0 {
		return fmt.Errorf("align: emission matrix has no frames")
	}
	if em.Frames() < len(tokens) {
		return fmt.Errorf("%w: %d frames for %d tokens", ErrTooFewFrames, em.Frames(), len(tokens))
	}
	vocab := em.VocabSize()
	if blank < 0 || blank >= vocab {
		return fmt.Errorf("align: blank index %d outside vocabulary of %d", blank, vocab)
	}
	for pos, tok := range tokens {
		if tok < 0 || tok >= vocab {
			return fmt.Errorf("align: token %d at position %d outside vocabulary of %d", tok, pos, vocab)
		}
	}
	return nil
}
