package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/core/db"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample demographic rules and question variations",
	Long:  `Seeds the UAE demographic rule set and the standard question variations. Safe to run repeatedly: existing rules and variations are skipped.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	queries, err := db.LoadQueries(conn)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout*10)
	defer cancel()

	result, err := store.Seed(ctx, store.NewRuleStore(queries, logger), store.NewVariationStore(queries, logger))
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Printf("rules: %d created, %d skipped\n", result.RulesCreated, result.RulesSkipped)
	fmt.Printf("variations: %d created, %d skipped\n", result.VariationsCreated, result.VariationsSkipped)
	return nil
}
