package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RyanBlaney/sonido-features/extraction"
	"github.com/RyanBlaney/sonido-features/extraction/config"
	"github.com/RyanBlaney/sonido-features/logging"
	"github.com/RyanBlaney/sonido-features/transcode"
	"github.com/spf13/cobra"
)

type extractOptions struct {
	configPath       string
	format           string
	output           string
	windowSize       int
	overlap          int
	features         []string
	statistics       []string
	firstDerivative  bool
	secondDerivative bool
	workers          int
	lagPolicy        string
	logLevel         string
	maxDuration      time.Duration
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [flags] FILE...",
		Short: "Extract features from WAV, MP3 or Ogg Vorbis files",
		Long: "Extract the selected features from every input file and write one row per file.\n" +
			"Files that cannot be decoded or processed produce a row of missing values.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if opts.output != "" && opts.output != "-" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runExtract(ctx, cfg, opts, args, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file (default ./featurex.yaml if present)")
	flags.StringVarP(&opts.format, "format", "f", "csv", "Output format: csv or json")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file, stdout when empty")
	flags.IntVarP(&opts.windowSize, "window-size", "w", config.DefaultWindowSize, "Samples per analysis window")
	flags.IntVar(&opts.overlap, "overlap", config.DefaultWindowOverlap, "Percent overlap between windows (0-99)")
	flags.StringArrayVarP(&opts.features, "feature", "F", nil, "Feature to extract, repeatable; see 'featurex kinds'")
	flags.StringArrayVarP(&opts.statistics, "stat", "s", nil, "Statistic to aggregate with, repeatable (default Mean)")
	flags.BoolVar(&opts.firstDerivative, "first-derivative", false, "Also aggregate the first derivative of each feature")
	flags.BoolVar(&opts.secondDerivative, "second-derivative", false, "Also aggregate the second derivative of each feature")
	flags.IntVarP(&opts.workers, "workers", "j", 1, "Files processed concurrently")
	flags.StringVar(&opts.lagPolicy, "lag-policy", config.DefaultLagPolicy, "Behavior when a window lacks history: strict or skip")
	flags.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.DurationVar(&opts.maxDuration, "max-duration", 0, "Only analyze the first part of each file, e.g. 30s")

	return cmd
}

// resolve loads the configuration file and applies the flags that were set explicitly
func (o *extractOptions) resolve(cmd *cobra.Command) (*config.PipelineConfig, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("window-size") {
		cfg.WindowSize = o.windowSize
	}
	if flags.Changed("overlap") {
		cfg.WindowOverlap = o.overlap
	}
	if flags.Changed("feature") {
		cfg.Features = make([]config.FeatureConfig, len(o.features))
		for i, name := range o.features {
			cfg.Features[i] = config.FeatureConfig{Name: name}
		}
	}
	if flags.Changed("stat") {
		cfg.Statistics = o.statistics
	}
	if flags.Changed("first-derivative") {
		cfg.FirstDerivative = o.firstDerivative
	}
	if flags.Changed("second-derivative") {
		cfg.SecondDerivative = o.secondDerivative
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("lag-policy") {
		cfg.LagPolicy = o.lagPolicy
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Features) == 0 {
		return nil, fmt.Errorf("no features selected, use --feature or the features key of the config file")
	}
	if o.format != "csv" && o.format != "json" {
		return nil, fmt.Errorf("unknown output format %q", o.format)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(level)
	return cfg, nil
}

func runExtract(ctx context.Context, cfg *config.PipelineConfig, opts *extractOptions, files []string, out io.Writer) error {
	logger := logging.WithFields(logging.Fields{
		"component": "featurex",
		"function":  "runExtract",
	})

	pipeline, err := extraction.FromConfig(extraction.NewDefaultCatalog(), cfg)
	if err != nil {
		return err
	}

	decoder := transcode.NewDecoder(&transcode.DecoderConfig{MaxDuration: opts.maxDuration})
	rows := make([]extraction.Row, len(files))
	for i, path := range files {
		rows[i] = extraction.Row{ID: path, Load: fileLoader(decoder, path)}
	}

	results, runErr := extraction.NewBatch(pipeline, cfg.Workers).Run(ctx, rows)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.Warn("Some files produced missing values", logging.Fields{
			"failed": failed,
			"total":  len(results),
		})
	}

	if runErr != nil {
		return runErr
	}

	switch opts.format {
	case "json":
		return writeJSON(out, pipeline.Layout(), results)
	default:
		return writeCSV(out, pipeline.Layout(), results)
	}
}

// fileLoader decodes path into a mono sample buffer
func fileLoader(decoder *transcode.Decoder, path string) extraction.Loader {
	return func(ctx context.Context) (*extraction.SampleBuffer, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := decoder.DecodeFile(path)
		if err != nil {
			return nil, err
		}
		return extraction.NewSampleBuffer(data.PCM, 1, float64(data.SampleRate), data.BitDepth)
	}
}
