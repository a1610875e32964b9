package calc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic summarizes one sample population
type Statistic struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Summarize returns the statistic of samples. An empty population yields N == 0
// and NaN moments.
func Summarize(samples []float64) Statistic {
	if len(samples) == 0 {
		nan := math.NaN()
		return Statistic{Mean: nan, Std: nan, Min: nan, Max: nan}
	}

	mean, std := stat.MeanStdDev(samples, nil)
	if len(samples) == 1 {
		std = 0
	}

	return Statistic{
		N:    len(samples),
		Mean: mean,
		Std:  std,
		Min:  floats.Min(samples),
		Max:  floats.Max(samples),
	}
}

func (s Statistic) String() string {
	return fmt.Sprintf("n=%d mean=%.4g std=%.4g min=%.4g max=%.4g", s.N, s.Mean, s.Std, s.Min, s.Max)
}
