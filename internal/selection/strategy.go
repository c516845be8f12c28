package selection

import "fmt"

// Strategy selects how a question set is assembled for a profile.
type Strategy string

const (
	// StrategyDefault serves the static catalog untouched.
	StrategyDefault Strategy = "default"
	// StrategyDemographic applies demographic rules and per-profile variations.
	StrategyDemographic Strategy = "demographic"
	// StrategyCompany substitutes company-scoped variations over a
	// company-configured base set, without demographic rules.
	StrategyCompany Strategy = "company"
	// StrategyHybrid runs the demographic strategy and then lets
	// company-scoped variations override per question. Production default.
	StrategyHybrid Strategy = "hybrid"
)

// ParseStrategy converts a config or request string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyDefault, StrategyDemographic, StrategyCompany, StrategyHybrid:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown selection strategy %q", s)
	}
}
