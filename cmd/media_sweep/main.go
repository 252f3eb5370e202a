package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"amphomeus/internal/config"
	"amphomeus/internal/database"
	"amphomeus/internal/modules/sweep"
	"amphomeus/internal/pkg/logger"
	"amphomeus/internal/pkg/mediastore"
	"amphomeus/internal/repository"
)

var (
	dryRun bool
	grace  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "media_sweep",
	Short: "Delete stored media that no journal references",
	Long: `Lists every object under the media folder and deletes the ones that no
media row references and that are older than the grace period.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer zl.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := database.Connect(cfg.DatabaseURL, zl)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}

		media, err := mediastore.New(ctx, cfg.Media, zl.Named("mediastore"))
		if err != nil {
			return fmt.Errorf("media store init failed: %w", err)
		}

		if !cmd.Flags().Changed("grace") {
			grace = cfg.SweepGracePeriod
		}

		store := repository.NewStore(db)
		report, err := sweep.New(media, store.Media, zl.Named("sweep")).
			Run(ctx, sweep.Options{GracePeriod: grace, DryRun: dryRun})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Scanned %d objects, %d referenced, %d within grace period.\n",
			report.Scanned, report.Referenced, report.TooRecent)
		if dryRun {
			fmt.Fprintf(out, "Would delete %d orphaned objects:\n", len(report.Orphaned))
			for _, key := range report.Orphaned {
				fmt.Fprintf(out, "  %s\n", key)
			}
			return nil
		}
		fmt.Fprintf(out, "Deleted %d orphaned objects.\n", len(report.Deleted))
		if len(report.Failed) > 0 {
			return fmt.Errorf("failed to delete %d objects", len(report.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report what would be deleted")
	rootCmd.Flags().DurationVar(&grace, "grace", 24*time.Hour, "Minimum object age before deletion (default from SWEEP_GRACE_PERIOD)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
