package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/veralis-ai/concierge-engine/internal/knowledge"
)

func newSeedCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load knowledge records into the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), seedFile)
		},
	}
	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed YAML file (defaults to the built-in corpus)")
	return cmd
}

func runSeed(ctx context.Context, seedFile string) error {
	if cfg.Knowledge.Driver == "memory" {
		return fmt.Errorf("knowledge driver is 'memory'; configure sqlite or postgres to seed")
	}

	records := knowledge.DefaultSeed()
	if seedFile == "" {
		seedFile = cfg.Knowledge.SeedPath
	}
	if seedFile != "" {
		loaded, err := knowledge.LoadSeedFile(seedFile)
		if err != nil {
			return err
		}
		records = loaded
	}

	db, err := sql.Open(cfg.SQLDriver(), cfg.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repo := knowledge.NewRepository(db, cfg.Knowledge.Driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetDescription("Seeding knowledge base"),
		progressbar.OptionShowCount(),
	)
	for i := range records {
		if err := repo.Upsert(ctx, &records[i]); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	fmt.Printf("\nSeeded %d records into %s\n", len(records), cfg.Knowledge.Driver)
	return nil
}
