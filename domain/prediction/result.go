package prediction

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// Result is an ordered sequence of scores; the index is the class label.
type Result []float64

// Top returns the label with the highest score. ok is false for an empty
// result.
func (r Result) Top() (label int, score float64, ok bool) {
	if len(r) == 0 {
		return 0, 0, false
	}
	label = floats.MaxIdx(r)
	return label, r[label], true
}

// Summary describes the distribution of a result.
type Summary struct {
	Count int
	Sum   float64
	Max   float64
	Mean  float64
}

// Summary computes count, sum, max and mean of the scores. An empty result
// yields the zero Summary.
func (r Result) Summary() Summary {
	if len(r) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(r)
	sum, _ := data.Sum()
	max, _ := data.Max()
	mean, _ := data.Mean()
	return Summary{Count: len(r), Sum: sum, Max: max, Mean: mean}
}
