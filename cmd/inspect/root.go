package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KyungWonPark/Activation/internal/atlas"
	"github.com/KyungWonPark/Activation/internal/config"
	"github.com/KyungWonPark/Activation/internal/session"
	"github.com/KyungWonPark/Activation/internal/subject"
	"github.com/KyungWonPark/Activation/internal/viz"
)

type options struct {
	configPath string
	verbose    bool
	flags      config.Config
}

// newRootCommand wires the interactive session and the census commands.
func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect voxel activation per brain region",
		Long: "inspect loads the baseline and video1-3 activation arrays of a subject and renders\n" +
			"histograms of a Cerebra region's voxel activations at a chosen time index.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts, stderr)
			if err != nil {
				return err
			}

			loader := subject.NewLoader(env.cfg.DataDir, env.cfg.PathTemplate)
			ctrl := session.New(env.atlas, loader, env.renderer, stdout, env.logger)
			return ctrl.Run(stdin)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")
	f.StringVar(&opts.flags.DataDir, "data-dir", "", "directory holding the subject folders")
	f.StringVar(&opts.flags.PathTemplate, "path-template", "", "activation file path relative to the data directory")
	f.StringVar(&opts.flags.RegionTable, "region-table", "", "CSV with Cerebra_ID and Region_name columns")
	f.StringVar(&opts.flags.LabelMap, "label-map", "", "npy array with one Cerebra ID per voxel")
	f.StringVar(&opts.flags.Atlas, "atlas", "", "NIfTI label atlas (with --voxel-coords)")
	f.StringVar(&opts.flags.VoxelCoords, "voxel-coords", "", "x,y,z voxel coordinate list matching the array rows")
	f.StringVarP(&opts.flags.OutputDir, "output-dir", "o", "", "directory histograms are written to")
	f.BoolVar(&opts.flags.ExportCSV, "export-csv", false, "write plotted samples as CSV beside each histogram")

	cmd.AddCommand(newRegionsCommand(opts, stdout, stderr))
	cmd.AddCommand(newSizesCommand(opts, stdout, stderr))

	return cmd
}

type environment struct {
	cfg      config.Config
	logger   *slog.Logger
	atlas    *atlas.Atlas
	renderer *viz.Renderer
}

// setup resolves the configuration and loads the atlas. Any error here is
// fatal for the process.
func setup(cmd *cobra.Command, opts *options, stderr io.Writer) (*environment, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, opts.verbose, stderr)
	if err != nil {
		return nil, err
	}

	logger.Info("loading region table", "path", cfg.RegionTable)
	table, err := atlas.ReadRegionTable(cfg.RegionTable)
	if err != nil {
		return nil, err
	}

	var labels *atlas.LabelMap
	if cfg.Atlas != "" {
		logger.Info("sampling label atlas", "atlas", cfg.Atlas, "coords", cfg.VoxelCoords)
		labels, err = atlas.LoadLabelsNifti(cfg.Atlas, cfg.VoxelCoords)
	} else {
		logger.Info("loading label map", "path", cfg.LabelMap)
		labels, err = atlas.LoadLabelsNpy(cfg.LabelMap)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("atlas ready", "regions", table.Len(), "voxels", labels.Len())

	return &environment{
		cfg:      cfg,
		logger:   logger,
		atlas:    atlas.New(table, labels),
		renderer: viz.NewRenderer(labels, cfg.OutputDir, cfg.ExportCSV, logger),
	}, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	f := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	override("data-dir", &cfg.DataDir, opts.flags.DataDir)
	override("path-template", &cfg.PathTemplate, opts.flags.PathTemplate)
	override("region-table", &cfg.RegionTable, opts.flags.RegionTable)
	override("label-map", &cfg.LabelMap, opts.flags.LabelMap)
	override("atlas", &cfg.Atlas, opts.flags.Atlas)
	override("voxel-coords", &cfg.VoxelCoords, opts.flags.VoxelCoords)
	override("output-dir", &cfg.OutputDir, opts.flags.OutputDir)
	if f.Changed("export-csv") {
		cfg.ExportCSV = opts.flags.ExportCSV
	}
}

func newLogger(level string, verbose bool, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}
