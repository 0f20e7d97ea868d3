package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"hotelprep/pkg/config"
	"hotelprep/pkg/data"
	"hotelprep/pkg/logger"
	"hotelprep/pkg/persist"
	"hotelprep/pkg/pipeline"
	"hotelprep/pkg/report"
)

//
// Prepares ../hotel_bookings.csv for training and writes everything to
// ./hotel_bookings_preprocessed. Paths and split settings come from the
// environment (HOTELPREP_INPUT_PATH, HOTELPREP_OUTPUT_DIR,
// HOTELPREP_SPLIT_TEST_SIZE, ...); the only flags control logging.
//
// Example:
//   go run ./cmd/examples/HotelBookingPrep --log-level debug
//

func newRootCmd(fs afero.Fs, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hotelprep",
		Short:         "Clean, encode, split and scale the hotel bookings dataset",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("log-json") {
				cfg.Log.JSON, _ = cmd.Flags().GetBool("log-json")
			}
			log := logger.New(&logger.Config{
				Level:      logger.Level(cfg.Log.Level),
				Output:     cmd.ErrOrStderr(),
				JSON:       cfg.Log.JSON,
				TimeFormat: "15:04:05",
			})
			return run(cfg, fs, out, log)
		},
	}
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
	cmd.Flags().Bool("log-json", false, "emit logs as JSON")
	return cmd
}

func run(cfg *config.Config, fs afero.Fs, out io.Writer, log logger.Logger) error {
	ok, err := data.Exists(fs, cfg.Input.Path)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "[ERROR] File not found: %s\n", cfg.Input.Path)
		fmt.Fprintln(out, "[INFO] Please ensure hotel_bookings.csv is in the correct location")
		return nil
	}

	store := persist.NewStore(fs, cfg.Output.Dir, log)
	p := pipeline.New(pipeline.Options{
		Target:         cfg.Pipeline.Target,
		OutlierColumns: cfg.Pipeline.OutlierColumns,
		TestSize:       cfg.Split.TestSize,
		RandomState:    cfg.Split.RandomState,
	}, nil, log)

	split, err := p.PrepareForTraining(fs, cfg.Input.Path, store)
	if err != nil {
		return err
	}
	summary := report.Summarize(split)

	if cfg.Output.Plot {
		if err := saveChart(store, split.Target, summary); err != nil {
			log.Warn("class distribution chart not saved", "err", err)
		}
	}
	if b := cfg.Baseline; b.Enabled {
		res, err := report.Baseline(split, report.BaselineOptions{
			Epochs:       b.Epochs,
			LearningRate: b.LearningRate,
			BatchSize:    b.BatchSize,
			Seed:         cfg.Split.RandomState,
		})
		if err != nil {
			log.Warn("baseline check failed", "err", err)
		} else {
			summary.Baseline = res
		}
	}

	fmt.Fprintf(out, "[SUCCESS] Processed data saved to %s/\n", store.Dir())
	summary.Print(out)
	return nil
}

func saveChart(store *persist.Store, target string, s report.Summary) error {
	f, err := store.Create(report.ChartFile)
	if err != nil {
		return err
	}
	if err := report.PlotClassDistribution(f, target, s.TrainDist, s.TestDist); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	if err := newRootCmd(afero.NewOsFs(), os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Preprocessing failed: %v\n", err)
		os.Exit(1)
	}
}
