package selection

import (
	"time"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/catalog"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// SelectionResult is a fully assembled question set for one profile. The
// whole value is serialized into the result cache, so every field must
// round-trip through JSON.
type SelectionResult struct {
	Questions      []catalog.QuestionDefinition `json:"questions"`
	VariationsUsed map[string]types.VariationID `json:"variations_used"`
	Metadata       Metadata                     `json:"selection_metadata"`
	CacheKey       string                       `json:"cache_key"`
	GeneratedAt    time.Time                    `json:"generated_at"`
	StrategyUsed   Strategy                     `json:"strategy_used"`
}

// Metadata carries audit context about how the set was assembled.
type Metadata struct {
	Language       string   `json:"language"`
	TotalQuestions int      `json:"total_questions"`
	CompanyID      int64    `json:"company_id,omitempty"`
	AppliedRules   []string `json:"applied_rules,omitempty"`
	Excluded       []string `json:"excluded_questions,omitempty"`
	Added          []string `json:"added_questions,omitempty"`
	ProfileHash    string   `json:"profile_hash,omitempty"`
}

// questionFromVariation renders a variation as a catalog question, keeping
// the base id and structural metadata so downstream scoring is unaffected.
func questionFromVariation(base *catalog.QuestionDefinition, v *types.QuestionVariation) catalog.QuestionDefinition {
	return catalog.QuestionDefinition{
		ID:          base.ID,
		Number:      base.Number,
		Text:        v.Text,
		Type:        base.Type,
		Options:     v.Options,
		Required:    base.Required,
		Factor:      catalog.Factor(v.Factor),
		Weight:      v.Weight,
		Conditional: base.Conditional,
	}
}
