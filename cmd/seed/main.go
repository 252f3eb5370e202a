package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"amphomeus/internal/config"
	"amphomeus/internal/database"
	"amphomeus/internal/domain"
	"amphomeus/internal/modules/journal"
	"amphomeus/internal/pkg/logger"
	"amphomeus/internal/pkg/utils"
	"amphomeus/internal/repository"
)

var reset bool

type demoJournal struct {
	title    string
	content  string
	location string
	date     string
	tags     []string
}

var demoJournals = []demoJournal{
	{
		title:    "Beach Day",
		content:  "Swam until the sun went down.",
		location: "Santa Monica",
		date:     "2024-07-04",
		tags:     []string{"beach", "summer", "friends"},
	},
	{
		title:    "Mountain hike",
		content:  "Reached the ridge before noon.",
		location: "Yosemite",
		date:     "2024-07-10",
		tags:     []string{"outdoors", "summer"},
	},
	{
		title:    "Winter notes",
		content:  "First snow of the year.",
		date:     "2024-12-24",
		tags:     []string{"winter", "home"},
	},
	{
		title: "Untagged evening",
		date:  "2025-01-15",
	},
}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo journals",
	Args:  cobra.NoArgs,
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

		ctx := cmd.Context()

		db, err := database.Connect(cfg.DatabaseURL, zl)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}

		store := repository.NewStore(db)

		if reset {
			zl.Info("cleaning old data")
			// Child tables first.
			for _, model := range []any{&domain.Media{}, &domain.JournalTag{}, &domain.Journal{}, &domain.Tag{}} {
				if err := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("reset: %w", err)
				}
			}
		}

		svc := journal.NewService(store, nil, nil, zl)
		for _, d := range demoJournals {
			in, err := d.input()
			if err != nil {
				return err
			}
			j, err := svc.Create(ctx, in)
			if err != nil {
				return fmt.Errorf("create %q: %w", d.title, err)
			}
			zl.Info("journal created", zap.String("id", j.ID), zap.String("title", j.Title), zap.Int("tags", len(j.Tags)))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d journals.\n", len(demoJournals))
		return nil
	},
}

func (d demoJournal) input() (journal.CreateInput, error) {
	date, err := utils.ParseDate(d.date)
	if err != nil {
		return journal.CreateInput{}, fmt.Errorf("demo date %q: %w", d.date, err)
	}
	in := journal.CreateInput{
		Title: d.title,
		Date:  &date,
		Tags:  d.tags,
	}
	if d.content != "" {
		in.Content = &d.content
	}
	if d.location != "" {
		in.Location = &d.location
	}
	return in, nil
}

func init() {
	rootCmd.Flags().BoolVar(&reset, "reset", false, "Delete every journal, media row and tag first")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
