// Package prob turns ensemble counts into probabilities and gives a
// three point summary of them.
//
// Rounding takes exact halves away from zero, so a quartile of 0.0625
// is reported as 0.063. Older versions of the program rounded halves to
// even and would print 0.062. Only exact ties differ.
package prob

import (
	"math"
	"slices"
)

const (
	ProbDigits     = 7 // probabilities are rounded to this
	QuantileDigits = 3 // and quantiles to this
)

// Round rounds x to digits after the decimal point, halves away from
// zero.
func Round(x float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(x*p) / p
}

// Calc holds probabilities calculated from counts over n structures.
type Calc struct {
	probs []float64
}

// New divides each count by n. With n of zero, everything is zero.
func New(counts []float64, n int) *Calc {
	probs := make([]float64, len(counts))
	if n > 0 {
		for i, c := range counts {
			probs[i] = Round(c/float64(n), ProbDigits)
		}
	}
	return &Calc{probs: probs}
}

// Probs returns the probabilities in the order of the counts.
func (c *Calc) Probs() []float64 { return c.probs }

// Quantiles returns the quartiles of the probabilities.
func (c *Calc) Quantiles() (q25, q50, q75 float64) { return Quantiles(c.probs) }

// Median of x. x does not have to be sorted and is not changed.
// The median of nothing is zero.
func Median(x []float64) float64 {
	s := slices.Clone(x)
	slices.Sort(s)
	return sortedMedian(s)
}

func sortedMedian(s []float64) float64 {
	l := len(s)
	switch {
	case l == 0:
		return 0
	case l%2 == 1:
		return s[(l+1)/2-1]
	}
	return (s[l/2-1] + s[l/2]) / 2
}

// Quantiles gives the 25, 50 and 75 % points. The middle one is the
// median. The others are the medians of the lower and upper halves,
// where both halves keep any values equal to the median. Results are
// rounded to QuantileDigits.
func Quantiles(x []float64) (q25, q50, q75 float64) {
	if len(x) == 0 {
		return 0, 0, 0
	}
	s := slices.Clone(x)
	slices.Sort(s)
	med := sortedMedian(s)
	var lower, upper []float64
	for _, v := range s {
		if v <= med {
			lower = append(lower, v)
		}
		if v >= med {
			upper = append(upper, v)
		}
	}
	q25, q50, q75 = sortedMedian(lower), med, sortedMedian(upper)
	return Round(q25, QuantileDigits), Round(q50, QuantileDigits), Round(q75, QuantileDigits)
}
