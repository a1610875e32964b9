package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNpytoMat64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline_eLORETA.npy")
	m := mat64.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, Mat64toNpy(path, m))

	got, err := NpytoMat64(path)
	require.NoError(t, err)
	rows, cols := got.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 6.0, got.At(1, 2))
	assert.Equal(t, 2.0, got.At(0, 1))
}

func TestNpytoMat64RejectsVectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.npy")
	require.NoError(t, Labels64toNpy(path, []int{1, 2, 3}))

	_, err := NpytoMat64(path)
	assert.ErrorContains(t, err, "expected 2 dimensions")
}

func TestNpytoMat64MissingFile(t *testing.T) {
	_, err := NpytoMat64(filepath.Join(t.TempDir(), "absent.npy"))
	assert.ErrorContains(t, err, "[NpytoMat64]")
}

func TestNpytoLabels(t *testing.T) {
	dir := t.TempDir()

	ints := filepath.Join(dir, "ints.npy")
	require.NoError(t, Labels64toNpy(ints, []int{3, 0, 102}))
	labels, err := NpytoLabels(ints)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 0, 102}, labels)

	column := filepath.Join(dir, "column.npy")
	require.NoError(t, Mat64toNpy(column, mat64.NewDense(3, 1, []float64{7, 7, 1})))
	labels, err = NpytoLabels(column)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 7, 1}, labels)

	fractional := filepath.Join(dir, "fractional.npy")
	require.NoError(t, Mat64toNpy(fractional, mat64.NewDense(2, 1, []float64{1, 1.5})))
	_, err = NpytoLabels(fractional)
	assert.ErrorContains(t, err, "non-integral label")

	matrix := filepath.Join(dir, "matrix.npy")
	require.NoError(t, Mat64toNpy(matrix, mat64.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = NpytoLabels(matrix)
	assert.ErrorContains(t, err, "expected a 1-D label array")
}

func TestParseCSV(t *testing.T) {
	header, rows, err := ParseCSV(strings.NewReader("\ufeffCerebra_ID , Region_name\n 1, Frontal \n2,Parietal,extra\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Cerebra_ID", "Region_name"}, header)
	assert.Equal(t, [][]string{{"1", "Frontal"}, {"2", "Parietal", "extra"}}, rows)
}

func TestSamplesToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, SamplesToCSV(path, []string{"Baseline", "Video1"}, [][]float64{{0.5, -1}, {2}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Baseline,Video1\n0.5,2\n-1,\n", string(data))

	assert.Error(t, SamplesToCSV(path, []string{"Baseline"}, nil))
}

func TestReadVoxelCoords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greyVoxels.dat")
	require.NoError(t, os.WriteFile(path, []byte("# x,y,z\n11,12,12\n\n 40, 50 ,60\n"), 0o644))

	voxels, err := ReadVoxelCoords(path)
	require.NoError(t, err)
	assert.Equal(t, []Voxel{{11, 12, 12}, {40, 50, 60}}, voxels)

	require.NoError(t, os.WriteFile(path, []byte("1,2\n"), 0o644))
	_, err = ReadVoxelCoords(path)
	assert.ErrorContains(t, err, ":1: expected x,y,z")

	require.NoError(t, os.WriteFile(path, []byte("1,-2,3\n"), 0o644))
	_, err = ReadVoxelCoords(path)
	assert.ErrorContains(t, err, "failed to convert")
}

func TestNiftiLabelsMissingAtlas(t *testing.T) {
	_, err := NiftiLabels(filepath.Join(t.TempDir(), "CerebrA.nii"), []Voxel{{0, 0, 0}})
	assert.ErrorContains(t, err, "[NiftiLabels]")
}

func TestNpyReadersCloseFiles(t *testing.T) {
	if _, err := os.Stat("/proc/self/fd"); err != nil {
		t.Skip("needs /proc/self/fd")
	}
	openFiles := func() int {
		entries, err := os.ReadDir("/proc/self/fd")
		require.NoError(t, err)
		return len(entries)
	}

	dir := t.TempDir()
	array := filepath.Join(dir, "video1_eLORETA.npy")
	require.NoError(t, Mat64toNpy(array, mat64.NewDense(2, 2, []float64{1, 2, 3, 4})))
	labels := filepath.Join(dir, "map_voxel.npy")
	require.NoError(t, Labels64toNpy(labels, []int{1, 2}))
	corrupt := filepath.Join(dir, "corrupt.npy")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a numpy file"), 0o644))

	before := openFiles()
	for i := 0; i < 64; i++ {
		_, err := NpytoMat64(array)
		require.NoError(t, err)
		_, err = NpytoLabels(labels)
		require.NoError(t, err)
		_, err = NpytoMat64(corrupt)
		require.Error(t, err)
	}
	assert.LessOrEqual(t, openFiles(), before+2)
}
