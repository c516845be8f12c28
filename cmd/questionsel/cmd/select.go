package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/core/cache"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/core/config"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/core/db"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/rules"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/selection"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/store"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/variations"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select a question set for a demographic profile",
	Long: `Reads a demographic profile as JSON (from --profile or stdin) and prints
the selected question set. Example:

  echo '{"age": 28, "emirate": "Dubai", "islamic_finance_preference": true}' | questionsel select --strategy demographic`,
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().String("profile", "", "demographic profile JSON (reads stdin when omitted)")
	selectCmd.Flags().Int64("company", 0, "company id scoping variations and question config")
	selectCmd.Flags().String("language", "", "question language (en, ar)")
	selectCmd.Flags().String("strategy", "", "selection strategy (default, demographic, company, hybrid)")
	selectCmd.Flags().Bool("force-refresh", false, "bypass the result cache")
}

func readProfile(cmd *cobra.Command) (types.Profile, error) {
	raw, _ := cmd.Flags().GetString("profile")
	if raw == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile from stdin: %w", err)
		}
		raw = string(data)
	}

	var profile types.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("invalid profile JSON: %w", err)
	}
	return profile, nil
}

// newResultCache picks Redis when configured, the in-process cache otherwise.
func newResultCache(cfg *config.EngineConfig) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), nil
	}
	return cache.NewRedis(cfg.RedisAddr, config.RedisPassword(), cfg.RedisDB)
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	profile, err := readProfile(cmd)
	if err != nil {
		return err
	}

	companyID, _ := cmd.Flags().GetInt64("company")
	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = cfg.DefaultLanguage
	}
	strategyName, _ := cmd.Flags().GetString("strategy")
	if strategyName == "" {
		strategyName = cfg.DefaultStrategy
	}
	strategy, err := selection.ParseStrategy(strategyName)
	if err != nil {
		return err
	}
	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	queries, err := db.LoadQueries(conn)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	resultCache, err := newResultCache(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect cache: %w", err)
	}

	ruleStore := store.NewRuleStore(queries, logger)
	variationStore := store.NewVariationStore(queries, logger)

	engine := rules.NewEngine(ruleStore, nil, cfg.RuleCacheTTL, logger)
	service := variations.NewService(variationStore, nil, logger)
	orchestrator := selection.NewOrchestrator(engine, service, ruleStore, resultCache, nil,
		selection.NewMetrics(nil), logger, cfg.SelectionCacheTTL, cfg.StoreTimeout)

	result := orchestrator.GetQuestionsForProfile(context.Background(), profile, companyID, language, strategy, forceRefresh)

	logger.Info("question set selected",
		zap.String("strategy", string(result.StrategyUsed)),
		zap.Int("total_questions", result.Metadata.TotalQuestions),
		zap.Int("variations_used", len(result.VariationsUsed)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
