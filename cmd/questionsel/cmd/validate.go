package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/rules"
)

var validateRuleCmd = &cobra.Command{
	Use:   "validate-rule [file]",
	Short: "Validate a demographic rule payload without persisting it",
	Long: `Checks a rule's condition tree and actions against the question catalog
and the allowed demographic fields. Reads the payload from the given file,
or from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidateRule,
}

func init() {
	rootCmd.AddCommand(validateRuleCmd)
}

func runValidateRule(cmd *cobra.Command, args []string) error {
	var payload []byte
	var err error
	if len(args) == 1 {
		payload, err = os.ReadFile(args[0])
	} else {
		payload, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read rule payload: %w", err)
	}

	// Validation needs no store: build an engine over the static catalog.
	engine := rules.NewEngine(nil, nil, 0, nil)
	result := engine.ValidateRule(payload)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("rule is invalid")
	}
	return nil
}
