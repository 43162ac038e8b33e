package lyrics

import (
	"fmt"
	"math"
	"strings"
)

// Strategy selects how words are timed when no acoustic model is available.
type Strategy string

const (
	StrategyNone  Strategy = "none"
	StrategyEven  Strategy = "even"
	StrategyOnset Strategy = "onset"
)

// ParseStrategy validates a configured strategy name. Empty means none.
func ParseStrategy(value string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(value))); s {
	case "", StrategyNone:
		return StrategyNone, nil
	case StrategyEven, StrategyOnset:
		return s, nil
	default:
		return "", fmt.Errorf("unknown fallback strategy %q (want none, even or onset)", value)
	}
}

// EvenlySpaced gives every word of text an equal share of duration.
func EvenlySpaced(text string, duration float64) []Word {
	fields := strings.Fields(text)
	if len(fields) == 0 || duration <= 0 {
		return nil
	}
	step := duration / float64(len(fields))
	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = Word{Text: f, Start: float64(i) * step, End: float64(i+1) * step}
	}
	return words
}

// OnsetSpaced starts each transcript line on a detected onset. When there are
// fewer onsets than lines the lines are spread evenly up to the last onset,
// or over the whole duration if nothing was detected. Words are spaced evenly
// inside their line.
func OnsetSpaced(text string, onsets []float64, duration float64) Document {
	var lines [][]string
	for _, raw := range strings.Split(text, "\n") {
		if fields := strings.Fields(raw); len(fields) > 0 {
			lines = append(lines, fields)
		}
	}
	if len(lines) == 0 {
		return Document{}
	}

	starts := onsets
	if len(onsets) < len(lines) {
		total := duration
		if len(onsets) > 0 {
			total = onsets[len(onsets)-1]
		}
		starts = linspace(0, total, len(lines))
	}

	doc := Document{Lines: make([]Line, 0, len(lines))}
	for i, fields := range lines {
		start := starts[i]
		end := duration
		if i+1 < len(lines) {
			end = starts[i+1]
		}
		if end < start {
			end = start
		}
		step := (end - start) / float64(len(fields))
		line := Line{Start: start, Words: make([]Word, len(fields))}
		for j, f := range fields {
			line.Words[j] = Word{
				Text:  f,
				Start: start + float64(j)*step,
				End:   start + float64(j+1)*step,
			}
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc
}

func linspace(from, to float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = from
		return out
	}
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Onset detection parameters, in seconds.
const (
	onsetHop    = 0.010
	onsetWindow = 0.040
	onsetWait   = 0.100
	onsetSpan   = 0.100
	onsetDelta  = 0.07
)

// DetectOnsets finds note and syllable onsets in mono samples scaled to
// [-1, 1]. It picks peaks of the positive log-energy difference between
// consecutive frames and returns their times in seconds.
func DetectOnsets(samples []float64, sampleRate int) []float64 {
	if sampleRate <= 0 {
		return nil
	}
	hop := max(1, int(onsetHop*float64(sampleRate)))
	win := max(hop, int(onsetWindow*float64(sampleRate)))
	if len(samples) < win {
		return nil
	}

	frames := (len(samples)-win)/hop + 1
	energy := make([]float64, frames)
	for k := range energy {
		var sum float64
		for _, s := range samples[k*hop : k*hop+win] {
			sum += s * s
		}
		energy[k] = math.Log1p(1000 * sum / float64(win))
	}

	flux := make([]float64, frames)
	peak := 0.0
	for k := 1; k < frames; k++ {
		flux[k] = math.Max(0, energy[k]-energy[k-1])
		peak = math.Max(peak, flux[k])
	}
	if peak == 0 {
		return nil
	}
	for k := range flux {
		flux[k] /= peak
	}

	span := max(1, int(onsetSpan/onsetHop))
	wait := max(1, int(onsetWait/onsetHop))
	var onsets []float64
	last := -wait
	for k := 1; k < frames; k++ {
		lo, hi := max(0, k-span), min(frames, k+span+1)
		localMax, mean := 0.0, 0.0
		for _, v := range flux[lo:hi] {
			localMax = math.Max(localMax, v)
			mean += v
		}
		mean /= float64(hi - lo)
		if flux[k] < localMax || flux[k] < mean+onsetDelta || k-last < wait {
			continue
		}
		onsets = append(onsets, float64(k*hop)/float64(sampleRate))
		last = k
	}
	return onsets
}
