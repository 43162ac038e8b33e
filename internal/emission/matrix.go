package emission

import (
	"errors"
	"fmt"
	"math"
)

// Domain describes how raw acoustic-model scores are expressed.
type Domain string

const (
	DomainLogProbs Domain = "log_probs"
	DomainProbs    Domain = "probs"
	DomainLogits   Domain = "logits"
)

// ErrEmptyMatrix is returned when a matrix would have no frames or no columns.
var ErrEmptyMatrix = errors.New("emission matrix is empty")

// Matrix is an immutable frames × vocabulary table of log-probabilities.
type Matrix struct {
	values [][]float64
	vocab  int
}

// New builds a matrix from raw scores expressed in the given domain.
func New(rows [][]float64, domain Domain) (*Matrix, error) {
	switch domain {
	case DomainLogProbs, "":
		return FromLogProbabilities(rows)
	case DomainProbs:
		return FromProbabilities(rows)
	case DomainLogits:
		return FromLogits(rows)
	default:
		return nil, fmt.Errorf("emission: unsupported domain %q", domain)
	}
}

// FromLogProbabilities copies rows that are already natural-log probabilities.
func FromLogProbabilities(rows [][]float64) (*Matrix, error) {
	return build(rows, func(row []float64, dst []float64) {
		copy(dst, row)
	})
}

// FromProbabilities converts linear probabilities to the log domain. Zero
// probabilities become negative infinity.
func FromProbabilities(rows [][]float64) (*Matrix, error) {
	for i, row := range rows {
		for j, v := range row {
			if v < 0 || math.IsNaN(v) {
				return nil, fmt.Errorf("emission: frame %d token %d: invalid probability %v", i, j, v)
			}
		}
	}
	return build(rows, func(row []float64, dst []float64) {
		for j, v := range row {
			dst[j] = math.Log(v)
		}
	})
}

// FromLogits applies a per-frame log-softmax to unnormalized model outputs.
func FromLogits(rows [][]float64) (*Matrix, error) {
	return build(rows, func(row []float64, dst []float64) {
		peak := math.Inf(-1)
		for _, v := range row {
			if v > peak {
				peak = v
			}
		}
		var sum float64
		for _, v := range row {
			sum += math.Exp(v - peak)
		}
		norm := peak + math.Log(sum)
		for j, v := range row {
			dst[j] = v - norm
		}
	})
}

func build(rows [][]float64, fill func(row []float64, dst []float64)) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMatrix
	}
	width := len(rows[0])
	values := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("emission: frame %d has %d columns, expected %d", i, len(row), width)
		}
		values[i] = make([]float64, width)
		fill(row, values[i])
	}
	return &Matrix{values: values, vocab: width}, nil
}

// Frames returns the number of time frames.
func (m *Matrix) Frames() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}

// VocabSize returns the number of vocabulary columns.
func (m *Matrix) VocabSize() int {
	if m == nil {
		return 0
	}
	return m.vocab
}

// At returns the log-probability of token at frame.
func (m *Matrix) At(frame, token int) float64 {
	return m.values[frame][token]
}

// FrameDuration returns the length of one frame in seconds for a waveform of
// the given sample count and sample rate.
func (m *Matrix) FrameDuration(samples, sampleRate int) float64 {
	frames := m.Frames()
	if frames == 0 || sampleRate <= 0 || samples <= 0 {
		return 0
	}
	return float64(samples) / float64(frames) / float64(sampleRate)
}
