package io

import (
	"fmt"
	"math"
	"os"

	"github.com/gonum/matrix/mat64"
	"github.com/kshedden/gonpy"
)

// Mat64toNpy writes mat64 matrix to Python numpy npy binary file
func Mat64toNpy(path string, matrix *mat64.Dense) error {
	rows, cols := matrix.Dims()
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		data = append(data, matrix.RawRowView(i)...)
	}

	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("[Mat64toNpy] failed to open file: %w", err)
	}
	w.Shape = []int{rows, cols}
	w.Version = 2
	if err := w.WriteFloat64(data); err != nil {
		return fmt.Errorf("[Mat64toNpy] failed to write file: %w", err)
	}

	return nil
}

// Labels64toNpy writes a voxel label map as a one dimensional int64 npy file
func Labels64toNpy(path string, labels []int) error {
	data := make([]int64, len(labels))
	for i, v := range labels {
		data[i] = int64(v)
	}

	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("[Labels64toNpy] failed to open file: %w", err)
	}
	w.Shape = []int{len(labels)}
	w.Version = 2
	if err := w.WriteInt64(data); err != nil {
		return fmt.Errorf("[Labels64toNpy] failed to write file: %w", err)
	}

	return nil
}

// NpytoMat64 reads Python numpy npy binary file as mat64 matrix.
// Fortran ordered files are transposed into row-major layout.
func NpytoMat64(path string) (*mat64.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[NpytoMat64] failed to open file: %w", err)
	}
	defer f.Close()

	r, err := gonpy.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("[NpytoMat64] failed to read header of %s: %w", path, err)
	}

	if len(r.Shape) != 2 {
		return nil, fmt.Errorf("[NpytoMat64] %s: expected 2 dimensions, got shape %v", path, r.Shape)
	}
	rows := r.Shape[0]
	cols := r.Shape[1]
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("[NpytoMat64] %s: empty array of shape %v", path, r.Shape)
	}

	data, err := readFloat64(r)
	if err != nil {
		return nil, fmt.Errorf("[NpytoMat64] failed to read file %s: %w", path, err)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("[NpytoMat64] %s: %d values for shape %v", path, len(data), r.Shape)
	}

	if r.ColumnMajor {
		rowMajor := make([]float64, len(data))
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				rowMajor[i*cols+j] = data[j*rows+i]
			}
		}
		data = rowMajor
	}

	return mat64.NewDense(rows, cols, data), nil
}

// NpytoLabels reads a voxel label map. The array must be one dimensional
// or a single column, and float labels must hold integral values.
func NpytoLabels(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[NpytoLabels] failed to open file: %w", err)
	}
	defer f.Close()

	r, err := gonpy.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("[NpytoLabels] failed to read header of %s: %w", path, err)
	}

	switch {
	case len(r.Shape) == 1:
	case len(r.Shape) == 2 && (r.Shape[1] == 1 || r.Shape[0] == 1):
	default:
		return nil, fmt.Errorf("[NpytoLabels] %s: expected a 1-D label array, got shape %v", path, r.Shape)
	}

	var labels []int
	switch r.Dtype {
	case "i8":
		data, err := r.GetInt64()
		if err != nil {
			return nil, fmt.Errorf("[NpytoLabels] failed to read file %s: %w", path, err)
		}
		labels = make([]int, len(data))
		for i, v := range data {
			labels[i] = int(v)
		}
	case "i4":
		data, err := r.GetInt32()
		if err != nil {
			return nil, fmt.Errorf("[NpytoLabels] failed to read file %s: %w", path, err)
		}
		labels = make([]int, len(data))
		for i, v := range data {
			labels[i] = int(v)
		}
	case "i2":
		data, err := r.GetInt16()
		if err != nil {
			return nil, fmt.Errorf("[NpytoLabels] failed to read file %s: %w", path, err)
		}
		labels = make([]int, len(data))
		for i, v := range data {
			labels[i] = int(v)
		}
	case "u1":
		data, err := r.GetUint8()
		if err != nil {
			return nil, fmt.Errorf("[NpytoLabels] failed to read file %s: %w", path, err)
		}
		labels = make([]int, len(data))
		for i, v := range data {
			labels[i] = int(v)
		}
	case "u2":
		data, err := r.GetUint16()
		if err != nil {
			return nil, fmt.Errorf("[NpytoLabels] failed to read file %s: %w", path, err)
		}
		labels = make([]int, len(data))
		for i, v := range data {
			labels[i] = int(v)
		}
	default:
		data, err := readFloat64(r)
		if err != nil {
			return nil, fmt.Errorf("[NpytoLabels] failed to read file %s: %w", path, err)
		}
		labels = make([]int, len(data))
		for i, v := range data {
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("[NpytoLabels] %s: non-integral label %g at voxel %d", path, v, i)
			}
			labels[i] = int(v)
		}
	}

	return labels, nil
}

func readFloat64(r *gonpy.NpyReader) ([]float64, error) {
	switch r.Dtype {
	case "f8":
		return r.GetFloat64()
	case "f4":
		data, err := r.GetFloat32()
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case "i8":
		data, err := r.GetInt64()
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case "i4":
		data, err := r.GetInt32()
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported dtype %q", r.Dtype)
}
