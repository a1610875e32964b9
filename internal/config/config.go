// Package config resolves the inspection tool's data locations from
// defaults, an optional YAML file and ACTIVATION_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KyungWonPark/Activation/internal/subject"
)

// Config locates the static atlas files, the subject arrays and the
// directory histograms are written to.
type Config struct {
	DataDir      string `yaml:"data_dir" env:"DATA_DIR"`
	PathTemplate string `yaml:"path_template" env:"PATH_TEMPLATE"`
	RegionTable  string `yaml:"region_table" env:"REGION_TABLE"`
	// LabelMap is a .npy label array; Atlas with VoxelCoords is the NIfTI alternative.
	LabelMap    string `yaml:"label_map" env:"LABEL_MAP"`
	Atlas       string `yaml:"atlas" env:"ATLAS"`
	VoxelCoords string `yaml:"voxel_coords" env:"VOXEL_COORDS"`
	OutputDir   string `yaml:"output_dir" env:"OUTPUT_DIR"`
	ExportCSV   bool   `yaml:"export_csv" env:"EXPORT_CSV"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
}

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ACTIVATION_"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:      ".",
		PathTemplate: subject.DefaultTemplate,
		OutputDir:    "plots",
		LogLevel:     "info",
	}
}

// Load layers path (if non-empty) and the environment over Default.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate reports missing sources.
func (c Config) Validate() error {
	var errs []error
	if c.RegionTable == "" {
		errs = append(errs, errors.New("region table is required"))
	}

	switch {
	case c.LabelMap != "" && c.Atlas != "":
		errs = append(errs, errors.New("label map and atlas are mutually exclusive"))
	case c.LabelMap == "" && c.Atlas == "":
		errs = append(errs, errors.New("a label map or an atlas is required"))
	case c.Atlas != "" && c.VoxelCoords == "":
		errs = append(errs, errors.New("atlas requires a voxel coordinate list"))
	}

	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	return errors.Join(errs...)
}
