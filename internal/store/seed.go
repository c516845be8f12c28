package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// SeedResult reports what a seeding run created and what already existed.
type SeedResult struct {
	RulesCreated      int
	RulesSkipped      int
	VariationsCreated int
	VariationsSkipped int
}

// Seed loads the sample UAE demographic rules and question variations into
// the stores. Seeding is idempotent: entries that already exist are skipped,
// so it is safe to run against a populated database.
func Seed(ctx context.Context, rules *RuleStore, variations *VariationStore) (SeedResult, error) {
	var result SeedResult

	for _, rule := range sampleRules() {
		err := rules.CreateRule(ctx, rule)
		switch {
		case err == nil:
			result.RulesCreated++
		case errors.Is(err, types.ErrRuleExists):
			result.RulesSkipped++
		default:
			return result, fmt.Errorf("seed rule %q: %w", rule.Name, err)
		}
	}

	for _, v := range sampleVariations() {
		err := variations.Create(ctx, v)
		switch {
		case err == nil:
			result.VariationsCreated++
		case errors.Is(err, types.ErrVariationExists):
			result.VariationsSkipped++
		default:
			return result, fmt.Errorf("seed variation %s/%s: %w", v.BaseQuestionID, v.VariationName, err)
		}
	}

	return result, nil
}

// sampleRules returns demographic rules for the UAE financial health
// assessment, covering the main respondent segments: citizens preferring
// Islamic finance, expatriates, high earners, young professionals, major
// emirate residents, and parents.
func sampleRules() []types.Rule {
	return []types.Rule{
		{
			RuleID:      types.NewRuleID(),
			Name:        "UAE Citizens - Islamic Finance Focus",
			Description: "Show Islamic finance questions to UAE citizens who prefer Sharia-compliant products",
			Priority:    10,
			Conditions: json.RawMessage(`{
				"and": [
					{"nationality": {"eq": "UAE"}},
					{"islamic_finance_preference": {"eq": true}}
				]
			}`),
			Actions: types.RuleActions{
				IncludeQuestions: []string{"q1_income_stability_islamic", "q9_savings_optimization_islamic"},
				AddQuestions:     []string{"q17_zakat_planning", "q18_islamic_investment"},
			},
			IsActive: true,
		},
		{
			RuleID:      types.NewRuleID(),
			Name:        "Parents - Children Education Planning",
			Description: "Enhanced children planning questions for parents",
			Priority:    15,
			Conditions:  json.RawMessage(`{"children": {"eq": "Yes"}}`),
			Actions: types.RuleActions{
				IncludeQuestions: []string{"q16_children_planning_enhanced"},
			},
			IsActive: true,
		},
		{
			RuleID:      types.NewRuleID(),
			Name:        "Expatriates - International Banking",
			Description: "Focus on international banking and remittance questions for expatriates",
			Priority:    20,
			Conditions: json.RawMessage(`{
				"and": [
					{"nationality": {"ne": "UAE"}},
					{"years_in_uae": {"gte": 1}}
				]
			}`),
			Actions: types.RuleActions{
				IncludeQuestions: []string{"q1_income_stability_expat", "q2_income_sources_expat"},
				AddQuestions:     []string{"q19_remittance_planning", "q20_visa_financial_planning"},
			},
			IsActive: true,
		},
		{
			RuleID:      types.NewRuleID(),
			Name:        "High Income Earners - Investment Focus",
			Description: "Advanced investment questions for high-income individuals",
			Priority:    30,
			Conditions: json.RawMessage(`{
				"or": [
					{"monthly_income": {"in": ["50000-100000", "100000+"]}},
					{"investment_experience": {"in": ["Advanced", "Expert"]}}
				]
			}`),
			Actions: types.RuleActions{
				IncludeQuestions: []string{"q9_savings_optimization_advanced"},
			},
			IsActive: true,
		},
		{
			RuleID:      types.NewRuleID(),
			Name:        "Young Professionals - Career Start",
			Description: "Focus on basic financial planning for young professionals",
			Priority:    40,
			Conditions: json.RawMessage(`{
				"and": [
					{"age": {"lte": 30}},
					{"employment_status": {"eq": "Employed"}},
					{"years_in_uae": {"lte": 5}}
				]
			}`),
			Actions: types.RuleActions{
				IncludeQuestions: []string{"q7_savings_rate_starter", "q8_emergency_fund_basic"},
				ExcludeQuestions: []string{"q13_retirement_planning"},
			},
			IsActive: true,
		},
		{
			RuleID:      types.NewRuleID(),
			Name:        "Dubai/Abu Dhabi Residents - Premium Services",
			Description: "Premium banking questions for major emirate residents",
			Priority:    50,
			Conditions: json.RawMessage(`{
				"and": [
					{"emirate": {"in": ["Dubai", "Abu Dhabi"]}},
					{"monthly_income": {"gte": "20000"}}
				]
			}`),
			Actions: types.RuleActions{
				IncludeQuestions: []string{"q12_credit_score_premium"},
			},
			IsActive: true,
		},
	}
}

func likertOptions(labels ...string) []types.Option {
	options := make([]types.Option, len(labels))
	for i, label := range labels {
		options[i] = types.Option{Value: 5 - i, Label: label}
	}
	return options
}

// sampleVariations returns question variations targeting the same segments
// the sample rules address, plus standard Arabic renderings.
func sampleVariations() []types.QuestionVariation {
	return []types.QuestionVariation{
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q1_income_stability",
			VariationName:  "islamic_version",
			Language:       "en",
			Text:           "My halal income is stable and predictable each month.",
			Options:        likertOptions("Strongly Agree", "Agree", "Neutral", "Disagree", "Strongly Disagree"),
			DemographicRules: json.RawMessage(`{
				"and": [
					{"nationality": {"eq": "UAE"}},
					{"islamic_finance_preference": {"eq": true}}
				]
			}`),
			Factor:   "income_stream",
			Weight:   10,
			IsActive: true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q1_income_stability",
			VariationName:  "expat_version",
			Language:       "en",
			Text:           "My income is stable and predictable each month, considering currency fluctuations.",
			Options: likertOptions(
				"Very stable, no currency concerns",
				"Mostly stable with minor fluctuations",
				"Somewhat affected by currency changes",
				"Frequently affected by currency changes",
				"Highly unstable due to currency issues"),
			DemographicRules: json.RawMessage(`{"nationality": {"ne": "UAE"}}`),
			Factor:           "income_stream",
			Weight:           10,
			IsActive:         true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q2_income_sources",
			VariationName:  "expat_version",
			Language:       "en",
			Text:           "I have multiple income sources, including potential income from my home country.",
			Options: likertOptions(
				"Multiple sources in UAE and home country",
				"Multiple sources primarily in UAE",
				"UAE salary plus home country investments",
				"UAE salary plus occasional home income",
				"Only UAE salary"),
			DemographicRules: json.RawMessage(`{"nationality": {"ne": "UAE"}}`),
			Factor:           "income_stream",
			Weight:           10,
			IsActive:         true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q7_savings_rate",
			VariationName:  "starter_version",
			Language:       "en",
			Text:           "I save from my income every month, even if it's a small amount.",
			Options: likertOptions(
				"10% or more",
				"5-10%",
				"2-5%",
				"Less than 2%",
				"0% - I spend everything"),
			DemographicRules: json.RawMessage(`{
				"and": [
					{"age": {"lte": 30}},
					{"years_in_uae": {"lte": 5}}
				]
			}`),
			Factor:   "savings_habit",
			Weight:   5,
			IsActive: true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q8_emergency_fund",
			VariationName:  "basic_version",
			Language:       "en",
			Text:           "I have money set aside for unexpected expenses.",
			Options: likertOptions(
				"3+ months of expenses",
				"1-3 months of expenses",
				"Some savings for emergencies",
				"Very little emergency money",
				"No emergency savings"),
			DemographicRules: json.RawMessage(`{
				"and": [
					{"age": {"lte": 30}},
					{"employment_status": {"eq": "Employed"}}
				]
			}`),
			Factor:   "savings_habit",
			Weight:   5,
			IsActive: true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q9_savings_optimization",
			VariationName:  "islamic_version",
			Language:       "en",
			Text:           "I keep my savings in Sharia-compliant, return-generating accounts or investments.",
			Options: likertOptions(
				"Islamic investments with consistent returns",
				"Islamic savings with good returns",
				"Islamic savings account with minimal returns",
				"Regular savings account (working on Islamic options)",
				"Cash or non-Islamic accounts"),
			DemographicRules: json.RawMessage(`{"islamic_finance_preference": {"eq": true}}`),
			Factor:           "savings_habit",
			Weight:           5,
			IsActive:         true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q9_savings_optimization",
			VariationName:  "advanced_version",
			Language:       "en",
			Text:           "I actively optimize my investment portfolio for maximum risk-adjusted returns.",
			Options: likertOptions(
				"Sophisticated portfolio with regular rebalancing",
				"Diversified investments with periodic review",
				"Basic investment portfolio",
				"Simple savings with some investments",
				"Only basic savings accounts"),
			DemographicRules: json.RawMessage(`{
				"or": [
					{"monthly_income": {"in": ["50000-100000", "100000+"]}},
					{"investment_experience": {"in": ["Advanced", "Expert"]}}
				]
			}`),
			Factor:   "savings_habit",
			Weight:   5,
			IsActive: true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q12_credit_score",
			VariationName:  "premium_version",
			Language:       "en",
			Text:           "I actively manage my credit score and use premium banking services to optimize it.",
			Options: likertOptions(
				"Excellent score with premium banking relationship",
				"Good score with regular monitoring",
				"Fair score with basic monitoring",
				"Limited understanding but working to improve",
				"No active credit score management"),
			DemographicRules: json.RawMessage(`{
				"and": [
					{"emirate": {"in": ["Dubai", "Abu Dhabi"]}},
					{"monthly_income": {"gte": "20000"}}
				]
			}`),
			Factor:   "debt_management",
			Weight:   5,
			IsActive: true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q16_children_planning",
			VariationName:  "enhanced_version",
			Language:       "en",
			Text:           "I have comprehensive financial planning for my children's education, healthcare, and future.",
			Options: likertOptions(
				"Complete planning with education insurance and investments",
				"Good planning covering education and basic needs",
				"Basic education savings and insurance",
				"Some savings but limited planning",
				"No specific children financial planning"),
			DemographicRules: json.RawMessage(`{"children": {"eq": "Yes"}}`),
			Factor:           "future_planning",
			Weight:           5,
			IsActive:         true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q1_income_stability",
			VariationName:  "standard_arabic",
			Language:       "ar",
			Text:           "دخلي مستقر ويمكن التنبؤ به كل شهر.",
			Options:        likertOptions("أوافق بشدة", "أوافق", "محايد", "لا أوافق", "لا أوافق بشدة"),
			Factor:         "income_stream",
			Weight:         10,
			IsActive:       true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q7_savings_rate",
			VariationName:  "standard_arabic",
			Language:       "ar",
			Text:           "أدخر من دخلي كل شهر.",
			Options:        likertOptions("20% أو أكثر", "أقل من 20%", "أقل من 10%", "5% أو أقل", "0%"),
			Factor:         "savings_habit",
			Weight:         5,
			IsActive:       true,
		},
		{
			VariationID:    types.NewVariationID(),
			BaseQuestionID: "q9_savings_optimization",
			VariationName:  "islamic_arabic",
			Language:       "ar",
			Text:           "أحتفظ بمدخراتي في حسابات أو استثمارات متوافقة مع الشريعة الإسلامية.",
			Options: likertOptions(
				"استثمارات إسلامية مع عوائد ثابتة",
				"مدخرات إسلامية مع عوائد جيدة",
				"حساب توفير إسلامي مع عوائد قليلة",
				"حساب توفير عادي (أعمل على الخيارات الإسلامية)",
				"نقد أو حسابات غير إسلامية"),
			DemographicRules: json.RawMessage(`{"islamic_finance_preference": {"eq": true}}`),
			Factor:           "savings_habit",
			Weight:           5,
			IsActive:         true,
		},
	}
}
