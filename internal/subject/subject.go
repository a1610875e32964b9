// Package subject loads the per-condition activation arrays of one subject.
package subject

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gonum/matrix/mat64"

	"github.com/KyungWonPark/Activation/internal/io"
)

// Condition is one of the video-viewing states activation was recorded under.
type Condition int

const (
	Baseline Condition = iota
	Video1
	Video2
	Video3
)

var conditionLabels = [...]string{"Baseline", "Video1", "Video2", "Video3"}

// Conditions returns every condition in display order.
func Conditions() []Condition {
	return []Condition{Baseline, Video1, Video2, Video3}
}

// String returns the display label, e.g. "Video1".
func (c Condition) String() string {
	if c < Baseline || c > Video3 {
		return fmt.Sprintf("Condition(%d)", int(c))
	}
	return conditionLabels[c]
}

// File returns the token used in file names, e.g. "video1".
func (c Condition) File() string {
	return strings.ToLower(c.String())
}

// DefaultTemplate is the activation file layout relative to the data directory.
const DefaultTemplate = "{subject}/evaluation/{condition}_eLORETA.npy"

// DataLoadError reports a subject whose arrays cannot be used.
type DataLoadError struct {
	Subject   string
	Condition string
	Path      string
	Err       error
}

func (e *DataLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("subject %q: %v", e.Subject, e.Err)
	}
	return fmt.Sprintf("subject %q %s (%s): %v", e.Subject, e.Condition, e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// Loader reads activation arrays from DataDir following Template.
type Loader struct {
	DataDir  string
	Template string
}

// NewLoader returns a Loader; an empty template selects DefaultTemplate.
func NewLoader(dataDir, template string) *Loader {
	if template == "" {
		template = DefaultTemplate
	}
	return &Loader{DataDir: dataDir, Template: template}
}

// Path returns the activation file of subject under cond.
func (l *Loader) Path(subject string, cond Condition) string {
	r := strings.NewReplacer("{subject}", subject, "{condition}", cond.File())
	return filepath.Join(l.DataDir, filepath.FromSlash(r.Replace(l.Template)))
}

// CheckID accepts subject IDs made of ASCII letters, digits, '-' and '_'.
// IDs are used verbatim in data paths and plot file names.
func CheckID(subject string) error {
	if subject == "" {
		return fmt.Errorf("empty subject ID")
	}
	for _, r := range subject {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("invalid subject ID %q: only letters, digits, '-' and '_' are allowed", subject)
		}
	}
	return nil
}

// Load reads one [voxel, time] array.
func (l *Loader) Load(subject string, cond Condition) (*mat64.Dense, error) {
	if err := CheckID(subject); err != nil {
		return nil, &DataLoadError{Subject: subject, Condition: cond.String(), Err: err}
	}

	path := l.Path(subject, cond)
	m, err := io.NpytoMat64(path)
	if err != nil {
		return nil, &DataLoadError{Subject: subject, Condition: cond.String(), Path: path, Err: err}
	}
	return m, nil
}

// LoadAll reads every condition of subject. Each array must have voxels
// rows and as many columns as the baseline.
func (l *Loader) LoadAll(subject string, voxels int) (*Set, error) {
	set := &Set{Subject: subject}
	for _, cond := range Conditions() {
		m, err := l.Load(subject, cond)
		if err != nil {
			return nil, err
		}

		rows, cols := m.Dims()
		if rows != voxels {
			return nil, &DataLoadError{
				Subject:   subject,
				Condition: cond.String(),
				Path:      l.Path(subject, cond),
				Err:       fmt.Errorf("array has %d voxels, label map has %d", rows, voxels),
			}
		}
		if cond != Baseline {
			if _, baseCols := set.arrays[Baseline].Dims(); cols != baseCols {
				return nil, &DataLoadError{
					Subject:   subject,
					Condition: cond.String(),
					Path:      l.Path(subject, cond),
					Err:       fmt.Errorf("array has %d timestamps, baseline has %d", cols, baseCols),
				}
			}
		}
		set.arrays[cond] = m
	}

	return set, nil
}
