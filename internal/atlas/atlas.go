package atlas

import (
	"fmt"

	"github.com/KyungWonPark/Activation/internal/io"
)

// Atlas pairs the region table with the voxel label map. Both are read
// once at startup and shared read-only by the session.
type Atlas struct {
	Table  *RegionTable
	Labels *LabelMap
}

// New returns an Atlas over table and labels.
func New(table *RegionTable, labels *LabelMap) *Atlas {
	return &Atlas{Table: table, Labels: labels}
}

// CountAndName returns the voxel count of region id and its display name.
// A zero count is a valid answer.
func (a *Atlas) CountAndName(id int) (int, string) {
	return a.Labels.Count(id), a.Table.Lookup(id)
}

// LoadLabelsNpy reads a label map stored as a numpy array.
func LoadLabelsNpy(path string) (*LabelMap, error) {
	labels, err := io.NpytoLabels(path)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label map %s is empty", path)
	}
	return &LabelMap{labels: labels}, nil
}

// LoadLabelsNifti samples a NIfTI label atlas at the coordinates listed in
// coordsPath.
func LoadLabelsNifti(atlasPath, coordsPath string) (*LabelMap, error) {
	voxels, err := io.ReadVoxelCoords(coordsPath)
	if err != nil {
		return nil, err
	}
	if len(voxels) == 0 {
		return nil, fmt.Errorf("voxel coordinate list %s is empty", coordsPath)
	}

	labels, err := io.NiftiLabels(atlasPath, voxels)
	if err != nil {
		return nil, err
	}
	return &LabelMap{labels: labels}, nil
}
