package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"histeq/internal/codec"
	"histeq/internal/config"
	"histeq/internal/logger"
	"histeq/internal/opencv/imgcodecs"
	"histeq/internal/pipeline"
	"histeq/internal/timing"
)

const (
	AppName    = "histeq"
	AppVersion = "1.0.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// flagValues holds raw flag values; only flags the user set override the
// config file.
type flagValues struct {
	configPath        string
	output            string
	sequentialPrefix  string
	parallelPrefix    string
	workers           int
	bins              int
	rounding          string
	parallelHistogram bool
	backend           string
	quality           int
	logLevel          string
	console           bool
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	defaults := config.Default()
	values := &flagValues{}

	cmd := &cobra.Command{
		Use:     AppName + " [flags] [input]",
		Short:   "Histogram equalization with sequential and parallel passes",
		Long:    "Equalizes the luminance histogram of an image twice, once on a single goroutine and once\nacross row-partitioned workers, writes both results and prints how long each took.",
		Version: AppVersion,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, values, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVarP(&values.configPath, "config", "c", "", "TOML or YAML config file")
	flags.StringVarP(&values.output, "output", "o", defaults.Output, "output file name; prefixes are applied to its base name")
	flags.StringVar(&values.sequentialPrefix, "sequential-prefix", defaults.SequentialPrefix, "prefix of the sequential result")
	flags.StringVar(&values.parallelPrefix, "parallel-prefix", defaults.ParallelPrefix, "prefix of the parallel result")
	flags.IntVarP(&values.workers, "workers", "w", defaults.Workers, "parallel workers (0 = one per CPU)")
	flags.IntVar(&values.bins, "bins", defaults.Bins, "histogram bins (2-256)")
	flags.StringVar(&values.rounding, "rounding", defaults.Rounding, "remap rounding: truncate or nearest")
	flags.BoolVar(&values.parallelHistogram, "parallel-histogram", defaults.ParallelHistogram, "build the histogram across workers as well")
	flags.StringVar(&values.backend, "backend", defaults.Backend, "image codec backend: stdlib or opencv")
	flags.IntVarP(&values.quality, "quality", "q", defaults.JPEGQuality, "JPEG quality (1-100)")
	flags.StringVar(&values.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&values.console, "console", defaults.Console, "human-readable logs instead of JSON")

	return cmd
}

func resolveConfig(cmd *cobra.Command, values *flagValues, args []string) (*config.Config, error) {
	cfg := config.Default()
	if values.configPath != "" {
		loaded, err := config.Load(values.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if flags.Changed("output") {
		cfg.Output = values.output
	}
	if flags.Changed("sequential-prefix") {
		cfg.SequentialPrefix = values.sequentialPrefix
	}
	if flags.Changed("parallel-prefix") {
		cfg.ParallelPrefix = values.parallelPrefix
	}
	if flags.Changed("workers") {
		cfg.Workers = values.workers
	}
	if flags.Changed("bins") {
		cfg.Bins = values.bins
	}
	if flags.Changed("rounding") {
		cfg.Rounding = values.rounding
	}
	if flags.Changed("parallel-histogram") {
		cfg.ParallelHistogram = values.parallelHistogram
	}
	if flags.Changed("backend") {
		cfg.Backend = values.backend
	}
	if flags.Changed("quality") {
		cfg.JPEGQuality = values.quality
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = values.logLevel
	}
	if flags.Changed("console") {
		cfg.Console = values.console
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCodec(cfg *config.Config) pipeline.Codec {
	if cfg.Backend == config.BackendOpenCV {
		return imgcodecs.New(cfg.JPEGQuality)
	}
	return codec.New(cfg.JPEGQuality)
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	appLogger, err := logger.New(logger.Options{Level: cfg.LogLevel, Console: cfg.Console})
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	workers := cfg.EffectiveWorkers()
	sequentialPath, parallelPath := cfg.OutputPaths()

	appLogger.Info("CLI", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"input":      cfg.Input,
		"workers":    workers,
		"backend":    cfg.Backend,
	})

	tracker := timing.NewTracker(appLogger)
	runner := pipeline.NewRunner(newCodec(cfg), appLogger, tracker)

	report, err := runner.Run(ctx, pipeline.Job{
		Input:          cfg.Input,
		SequentialPath: sequentialPath,
		ParallelPath:   parallelPath,
		Workers:        workers,
		Options:        opts,
	})
	if err != nil {
		return err
	}

	printReport(stdout, report)
	return nil
}

func printReport(w io.Writer, report *pipeline.Report) {
	fmt.Fprintf(w, "Single-threaded execution time: %d ms\n", report.SequentialTime.Milliseconds())
	fmt.Fprintf(w, "Multi-threaded execution time: %d ms\n", report.ParallelTime.Milliseconds())
}
