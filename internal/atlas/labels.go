package atlas

import (
	"sort"
)

// LabelMap holds one region ID per voxel, indexed by voxel.
type LabelMap struct {
	labels []int
}

// NewLabelMap copies labels into an immutable label map.
func NewLabelMap(labels []int) *LabelMap {
	l := make([]int, len(labels))
	copy(l, labels)
	return &LabelMap{labels: l}
}

// Len returns the total voxel count.
func (m *LabelMap) Len() int {
	return len(m.labels)
}

// At returns the region ID of voxel i.
func (m *LabelMap) At(i int) int {
	return m.labels[i]
}

// Count returns how many voxels carry id.
func (m *LabelMap) Count(id int) int {
	n := 0
	for _, label := range m.labels {
		if label == id {
			n++
		}
	}
	return n
}

// Indices returns the ascending voxel indices labelled id. Count and
// plotting both go through this membership test.
func (m *LabelMap) Indices(id int) []int {
	var indices []int
	for i, label := range m.labels {
		if label == id {
			indices = append(indices, i)
		}
	}
	return indices
}

// Census returns the voxel count of every region present.
func (m *LabelMap) Census() map[int]int {
	census := make(map[int]int)
	for _, label := range m.labels {
		census[label]++
	}
	return census
}

// Distinct returns the region IDs present, ascending.
func (m *LabelMap) Distinct() []int {
	census := m.Census()
	ids := make([]int, 0, len(census))
	for id := range census {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Values returns the labels as float64 samples for histogramming.
func (m *LabelMap) Values() []float64 {
	values := make([]float64, len(m.labels))
	for i, label := range m.labels {
		values[i] = float64(label)
	}
	return values
}
