package subject

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KyungWonPark/Activation/internal/io"
)

func writeArray(t *testing.T, l *Loader, subject string, cond Condition, rows, cols int) {
	t.Helper()
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(int(cond)*1000 + i)
	}

	path := l.Path(subject, cond)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, io.Mat64toNpy(path, mat64.NewDense(rows, cols, data)))
}

func writeSubject(t *testing.T, l *Loader, subject string, rows, cols int) {
	t.Helper()
	for _, cond := range Conditions() {
		writeArray(t, l, subject, cond, rows, cols)
	}
}

func TestConditionLabels(t *testing.T) {
	assert.Equal(t, "Baseline", Baseline.String())
	assert.Equal(t, "video3", Video3.File())
	assert.Equal(t, []Condition{Baseline, Video1, Video2, Video3}, Conditions())
	assert.Equal(t, "Condition(7)", Condition(7).String())
}

func TestPath(t *testing.T) {
	l := NewLoader("/data", "")
	assert.Equal(t, filepath.FromSlash("/data/NDARZY502FAG/evaluation/video2_eLORETA.npy"), l.Path("NDARZY502FAG", Video2))

	l = NewLoader("/data", "{condition}/{subject}.npy")
	assert.Equal(t, filepath.FromSlash("/data/baseline/S1.npy"), l.Path("S1", Baseline))
}

func TestLoadAll(t *testing.T) {
	l := NewLoader(t.TempDir(), "")
	writeSubject(t, l, "S1", 3, 4)

	set, err := l.LoadAll("S1", 3)
	require.NoError(t, err)
	assert.Equal(t, "S1", set.Subject)
	assert.Equal(t, 4, set.Timestamps())
	assert.Equal(t, 3, set.Voxels())

	// row 2, column 1 of video1: 1000 + 2*4 + 1
	assert.Equal(t, []float64{1009, 1001}, set.Samples(Video1, []int{2, 0}, 1))
	assert.Equal(t, 11.0, set.Array(Baseline).At(2, 3))
}

func TestLoadAllMissingFile(t *testing.T) {
	l := NewLoader(t.TempDir(), "")

	_, err := l.LoadAll("S1", 3)
	require.Error(t, err)

	var loadErr *DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "S1", loadErr.Subject)
	assert.Equal(t, "Baseline", loadErr.Condition)
	assert.Equal(t, l.Path("S1", Baseline), loadErr.Path)
}

func TestLoadAllShapeMismatch(t *testing.T) {
	l := NewLoader(t.TempDir(), "")

	t.Run("voxels", func(t *testing.T) {
		writeSubject(t, l, "S1", 3, 4)
		_, err := l.LoadAll("S1", 5)

		var loadErr *DataLoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Contains(t, err.Error(), "label map has 5")
	})

	t.Run("timestamps", func(t *testing.T) {
		writeSubject(t, l, "S2", 3, 4)
		writeArray(t, l, "S2", Video2, 3, 6)
		_, err := l.LoadAll("S2", 3)

		var loadErr *DataLoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, "Video2", loadErr.Condition)
		assert.Contains(t, err.Error(), "baseline has 4")
	})
}

func TestLoadCorruptFile(t *testing.T) {
	l := NewLoader(t.TempDir(), "")
	path := l.Path("S1", Baseline)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not a numpy file"), 0o644))

	_, err := l.Load("S1", Baseline)

	var loadErr *DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Error(t, loadErr.Unwrap())
}

func TestCheckID(t *testing.T) {
	for _, id := range []string{"NDARZY502FAG", "sub-01", "S_1"} {
		assert.NoError(t, CheckID(id), id)
	}
	// IDs that would share a plot file name with "a_b" once rewritten
	for _, id := range []string{"a b", "a.b", "a/b", "é"} {
		assert.Error(t, CheckID(id), id)
	}
}

func TestLoadRejectsSubjectIDs(t *testing.T) {
	l := NewLoader(t.TempDir(), "")
	for _, id := range []string{"", "../etc", "a/b", `a\b`, "a b", "a.b", "S1\n"} {
		_, err := l.Load(id, Baseline)

		var loadErr *DataLoadError
		require.True(t, errors.As(err, &loadErr), "subject %q", id)
		assert.Empty(t, loadErr.Path)
	}
}
