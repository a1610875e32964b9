// Package viz renders activation and region-size histograms as PNG files.
package viz

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KyungWonPark/Activation/internal/atlas"
	"github.com/KyungWonPark/Activation/internal/io"
	"github.com/KyungWonPark/Activation/internal/subject"
)

// Bins is the bin count of every activation histogram.
const Bins = 100

// SizesFile is the file name of the region-size histogram.
const SizesFile = "region-sizes.png"

// Overlay colours per condition, half transparent.
var conditionColors = [...]color.NRGBA{
	{R: 31, G: 119, B: 180, A: 128},
	{R: 255, G: 127, B: 14, A: 128},
	{R: 44, G: 160, B: 44, A: 128},
	{R: 214, G: 39, B: 40, A: 128},
}

var royalBlue = color.NRGBA{R: 65, G: 105, B: 225, A: 178}

// Artifact is one rendered histogram.
type Artifact struct {
	Path string
	// Samples plotted per condition; nil for the region-size census.
	Samples map[subject.Condition][]float64
}

// Renderer draws histograms into OutputDir. Region membership comes from
// Labels, the same map region queries count against.
type Renderer struct {
	Labels    *atlas.LabelMap
	OutputDir string
	ExportCSV bool
	Logger    *slog.Logger
}

// NewRenderer returns a Renderer writing into outputDir.
func NewRenderer(labels *atlas.LabelMap, outputDir string, exportCSV bool, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{Labels: labels, OutputDir: outputDir, ExportCSV: exportCSV, Logger: logger}
}

// RegionActivation overlays, per condition, the histogram of region's voxel
// activations at time t.
func (r *Renderer) RegionActivation(t, region int, set *subject.Set) (*Artifact, error) {
	if err := subject.CheckID(set.Subject); err != nil {
		return nil, err
	}
	indices := r.Labels.Indices(region)
	if len(indices) == 0 {
		return nil, fmt.Errorf("region %d has no voxels", region)
	}
	if t < 0 || t >= set.Timestamps() {
		return nil, fmt.Errorf("time %d outside [0, %d)", t, set.Timestamps())
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Voxel Activation Distribution for Region %d at Time %d", region, t)
	p.X.Label.Text = "Voxel Activation Value"
	p.Y.Label.Text = "Frequency"
	p.Legend.Top = true

	art := &Artifact{Samples: make(map[subject.Condition][]float64, 4)}
	header := make([]string, 0, 4)
	columns := make([][]float64, 0, 4)
	for _, cond := range subject.Conditions() {
		samples := set.Samples(cond, indices, t)
		if floats.HasNaN(samples) {
			return nil, fmt.Errorf("histogram of %s: NaN activation at time %d", cond, t)
		}
		art.Samples[cond] = samples

		h, err := plotter.NewHist(plotter.Values(samples), Bins)
		if err != nil {
			return nil, fmt.Errorf("histogram of %s: %w", cond, err)
		}
		h.FillColor = conditionColors[cond]
		h.LineStyle.Width = 0
		p.Add(h)

		label := fmt.Sprintf("%s - Time %d", cond, t)
		p.Legend.Add(label, h)
		header = append(header, label)
		columns = append(columns, samples)
	}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	base := fmt.Sprintf("%s_region-%d_t%d", set.Subject, region, t)
	art.Path = filepath.Join(r.OutputDir, base+".png")
	if err := p.Save(12*vg.Inch, 5*vg.Inch, art.Path); err != nil {
		return nil, fmt.Errorf("save %s: %w", art.Path, err)
	}
	r.Logger.Debug("rendered region activation", "path", art.Path, "subject", set.Subject, "region", region, "time", t, "voxels", len(indices))

	if r.ExportCSV {
		csvPath := filepath.Join(r.OutputDir, base+".csv")
		// The PNG is already written; a failed export does not fail the render.
		if err := io.SamplesToCSV(csvPath, header, columns); err != nil {
			r.Logger.Warn("sample export failed", "path", csvPath, "error", err)
		} else {
			r.Logger.Debug("exported samples", "path", csvPath)
		}
	}

	return art, nil
}

// RegionSizes draws one histogram of the label map values with one bin per
// distinct region, a census of region sizes.
func (r *Renderer) RegionSizes() (*Artifact, error) {
	bins := len(r.Labels.Distinct())
	if bins == 0 {
		return nil, fmt.Errorf("label map is empty")
	}

	p := plot.New()
	p.Title.Text = "Number of Voxels per Cortical Region"
	p.X.Label.Text = "Cortical Regions"
	p.Y.Label.Text = "Number of Voxels"

	h, err := plotter.NewHist(plotter.Values(r.Labels.Values()), bins)
	if err != nil {
		return nil, fmt.Errorf("histogram of region sizes: %w", err)
	}
	h.FillColor = royalBlue
	h.LineStyle.Width = 0
	p.Add(h)

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(r.OutputDir, SizesFile)
	if err := p.Save(20*vg.Inch, 5*vg.Inch, path); err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}
	r.Logger.Debug("rendered region sizes", "path", path, "regions", bins)

	return &Artifact{Path: path}, nil
}
