package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/config"
	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/tracker"
)

var (
	flagUser    string
	flagConfig  string
	flagVerbose bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sj",
	Short: "Sojournii - weekly work-hour tracking",
	Long: `sj logs where and how long you worked each day, sums it up per
Monday-to-Sunday week in your own timezone and compares the week with your
contracted hours. Data lives in ~/.sojournii/ unless configured otherwise.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, tracker.ErrInvalidInput) || errors.Is(err, storage.ErrNotFound) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "User ID to act as (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.sojournii/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(retroCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(outlookCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if flagUser != "" {
		cfg.UserID = flagUser
	}
	logger.Debug("config loaded", "user", cfg.UserID, "backend", cfg.Storage.Backend)
	return nil
}

// openTracker opens the configured store. Callers must Close the store.
func openTracker(ctx context.Context) (*tracker.Tracker, error) {
	h, m, err := timecalc.ParseHoursMinutes(cfg.Contract)
	if err != nil {
		return nil, fmt.Errorf("config contract %q: %w", cfg.Contract, err)
	}
	dir := cfg.Storage.Dir
	if dir == "" {
		if dir, err = storage.BaseDir(); err != nil {
			return nil, err
		}
	}
	st, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.Storage.Backend,
		Dir:         dir,
		DatabaseURL: cfg.Storage.DatabaseURL,
	})
	if err != nil {
		return nil, err
	}
	return tracker.New(st, logger, tracker.WithDefaults(tracker.Defaults{
		Timezone: cfg.Timezone,
		Contract: model.ContractBaseline{WeeklyHours: h, WeeklyMinutes: m},
	})), nil
}

// withTracker adapts fn into a cobra RunE with an open tracker.
func withTracker(fn func(ctx context.Context, tr *tracker.Tracker, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tr, err := openTracker(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := tr.Store().Close(); err != nil {
				logger.Warn("closing store", "error", err)
			}
		}()
		return fn(ctx, tr, args)
	}
}

// dateArg returns args[0] or today's date in the user's timezone.
func dateArg(ctx context.Context, tr *tracker.Tracker, args []string) (string, error) {
	if len(args) > 0 && args[0] != "today" {
		return args[0], nil
	}
	return tr.Today(ctx, cfg.UserID)
}
