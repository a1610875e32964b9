package io

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/KyungWonPark/nifti"
)

// Voxel is a zero-based position in the atlas volume
type Voxel struct {
	X uint32
	Y uint32
	Z uint32
}

// ReadVoxelCoords reads one "x,y,z" coordinate per line. Line order is the
// voxel order shared with the activation arrays.
func ReadVoxelCoords(path string) ([]Voxel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[ReadVoxelCoords] failed to open file: %w", err)
	}
	defer f.Close()

	var voxels []Voxel
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		xyz := strings.Split(line, ",")
		if len(xyz) != 3 {
			return nil, fmt.Errorf("[ReadVoxelCoords] %s:%d: expected x,y,z, got %q", path, lineNo, line)
		}
		x, err0 := strconv.ParseUint(strings.TrimSpace(xyz[0]), 10, 32)
		y, err1 := strconv.ParseUint(strings.TrimSpace(xyz[1]), 10, 32)
		z, err2 := strconv.ParseUint(strings.TrimSpace(xyz[2]), 10, 32)
		if err0 != nil || err1 != nil || err2 != nil {
			return nil, fmt.Errorf("[ReadVoxelCoords] %s:%d: failed to convert ascii to integer: %q", path, lineNo, line)
		}

		voxels = append(voxels, Voxel{uint32(x), uint32(y), uint32(z)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("[ReadVoxelCoords] failed to read file: %w", err)
	}

	return voxels, nil
}

// NiftiLabels samples a label atlas volume at each voxel coordinate and
// returns the region IDs in coordinate order
func NiftiLabels(atlasPath string, voxels []Voxel) (labels []int, err error) {
	if _, err := os.Stat(atlasPath); err != nil {
		return nil, fmt.Errorf("[NiftiLabels] failed to open atlas: %w", err)
	}

	// The nifti package panics on coordinates outside the volume.
	defer func() {
		if r := recover(); r != nil {
			labels = nil
			err = fmt.Errorf("[NiftiLabels] failed to sample %s: %v", atlasPath, r)
		}
	}()

	var img nifti.Nifti1Image
	img.LoadImage(atlasPath, true)

	labels = make([]int, len(voxels))
	for i, v := range voxels {
		value := float64(img.GetAt(v.X, v.Y, v.Z, 0))
		if math.IsNaN(value) {
			return nil, fmt.Errorf("[NiftiLabels] %s: no label at voxel %d (%d,%d,%d)", atlasPath, i, v.X, v.Y, v.Z)
		}
		labels[i] = int(math.Round(value))
	}

	return labels, nil
}
