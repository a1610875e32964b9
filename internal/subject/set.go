package subject

import (
	"github.com/gonum/matrix/mat64"
)

// Set is the loaded condition arrays of one subject.
type Set struct {
	Subject string
	arrays  [4]*mat64.Dense
}

// NewSet builds a Set from arrays already in memory, in Conditions order.
func NewSet(subject string, baseline, video1, video2, video3 *mat64.Dense) *Set {
	return &Set{Subject: subject, arrays: [4]*mat64.Dense{baseline, video1, video2, video3}}
}

// Array returns the [voxel, time] array of cond.
func (s *Set) Array(cond Condition) *mat64.Dense {
	return s.arrays[cond]
}

// Timestamps returns the baseline time dimension.
func (s *Set) Timestamps() int {
	_, cols := s.arrays[Baseline].Dims()
	return cols
}

// Voxels returns the baseline voxel dimension.
func (s *Set) Voxels() int {
	rows, _ := s.arrays[Baseline].Dims()
	return rows
}

// Samples returns the activation of the given voxels at time t under cond.
func (s *Set) Samples(cond Condition, indices []int, t int) []float64 {
	m := s.arrays[cond]
	samples := make([]float64, len(indices))
	for i, voxel := range indices {
		samples[i] = m.At(voxel, t)
	}
	return samples
}
