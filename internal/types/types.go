// Package types provides domain models shared across the question selection
// engine components.
//
// Zero-dependency design: types.go and errors.go use only encoding/json so the
// package can be imported from every layer without dragging in storage or
// transport dependencies. ID utilities in ids.go import uuid but are isolated
// for selective inclusion.
package types

import "encoding/json"

// Profile is an immutable snapshot of a respondent's demographic attributes
// for the duration of one evaluation. Only allow-listed fields participate in
// rule evaluation and cache-key derivation; everything else is ignored.
type Profile map[string]any

// AllowedFields is the allow-list of demographic fields usable in rule
// conditions and profile hashing.
var AllowedFields = map[string]struct{}{
	"age":                        {},
	"nationality":                {},
	"emirate":                    {},
	"employment_status":          {},
	"monthly_income":             {},
	"education_level":            {},
	"years_in_uae":               {},
	"family_status":              {},
	"housing_status":             {},
	"banking_relationship":       {},
	"investment_experience":      {},
	"islamic_finance_preference": {},
	"household_size":             {},
	"children":                   {},
	"industry":                   {},
	"position":                   {},
}

// ProtectedFields are demographic fields that may be discriminatory.
// Usable in rules but always trigger a compliance warning at validation time,
// never a hard block.
var ProtectedFields = map[string]struct{}{
	"gender":      {},
	"nationality": {},
	"religion":    {},
	"race":        {},
	"ethnicity":   {},
}

// Sanitize returns a copy of the profile restricted to allow-listed fields.
// Nil values are dropped so a field set to nil behaves like a missing field.
func (p Profile) Sanitize() Profile {
	out := make(Profile, len(p))
	for field, value := range p {
		if _, ok := AllowedFields[field]; !ok {
			continue
		}
		if value == nil {
			continue
		}
		out[field] = value
	}
	return out
}

// RuleActions holds the three action lists a matching rule applies.
// IncludeQuestions entries are variation-name hints consumed by the variation
// catalog; they never mutate the selected-question set. ExcludeQuestions and
// AddQuestions are plain set difference/union over question ids.
type RuleActions struct {
	IncludeQuestions []string `json:"include_questions,omitempty"`
	ExcludeQuestions []string `json:"exclude_questions,omitempty"`
	AddQuestions     []string `json:"add_questions,omitempty"`
}

// IsEmpty reports whether no action list carries entries.
func (a RuleActions) IsEmpty() bool {
	return len(a.IncludeQuestions) == 0 && len(a.ExcludeQuestions) == 0 && len(a.AddQuestions) == 0
}

// Rule is the persisted shape of a demographic rule. Conditions are kept as
// raw JSON for wire compatibility; internal/conditions parses them into a
// typed tree before evaluation.
type Rule struct {
	RuleID      RuleID          `json:"rule_id" db:"rule_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Priority    int             `json:"priority" db:"priority"`
	Conditions  json.RawMessage `json:"conditions" db:"conditions"`
	Actions     RuleActions     `json:"actions"`
	IsActive    bool            `json:"is_active" db:"is_active"`
}

// RuleMatch is the outcome of evaluating a single rule against a profile.
// Actions is zeroed when Matched is false.
type RuleMatch struct {
	RuleID   RuleID      `json:"rule_id"`
	RuleName string      `json:"rule_name"`
	Matched  bool        `json:"matched"`
	Actions  RuleActions `json:"actions"`
	Priority int         `json:"priority"`
}

// Option is a single answer option on a likert-scale question.
// Value is the scored position (1..5); Label may be localized freely.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// QuestionVariation is an alternate, demographically or company targeted
// rendering of a base question. Its option value set must equal the base
// question's value set; text and labels may differ.
type QuestionVariation struct {
	VariationID      VariationID     `json:"variation_id" db:"variation_id"`
	BaseQuestionID   string          `json:"base_question_id" db:"base_question_id"`
	VariationName    string          `json:"variation_name" db:"variation_name"`
	Language         string          `json:"language" db:"language"`
	Text             string          `json:"text" db:"text"`
	Options          []Option        `json:"options"`
	DemographicRules json.RawMessage `json:"demographic_rules,omitempty"`
	CompanyIDs       []int64         `json:"company_ids,omitempty"`
	Factor           string          `json:"factor" db:"factor"`
	Weight           int             `json:"weight" db:"weight"`
	IsActive         bool            `json:"is_active" db:"is_active"`
}

// AppliesToCompany reports whether the variation is visible to the given
// company. Unscoped variations (no company ids) apply everywhere.
func (v *QuestionVariation) AppliesToCompany(companyID int64) bool {
	if len(v.CompanyIDs) == 0 {
		return true
	}
	for _, id := range v.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

// ValidationResult reports structural validation of an admin-authored rule
// payload. Warnings never block persistence; errors do.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// VariationValidationResult reports validation of a question variation against
// its base question. ConsistencyScore is in [0,1]; structural warnings reduce
// it without invalidating the variation.
type VariationValidationResult struct {
	Valid            bool     `json:"valid"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
	ConsistencyScore float64  `json:"consistency_score"`
}

// SelectionSummary is the outcome of applying matched rules to a base
// question set. Selected holds final membership; Excluded and Added record
// which ids each kind of action touched.
type SelectionSummary struct {
	Selected     []string    `json:"selected"`
	Excluded     []string    `json:"excluded"`
	Added        []string    `json:"added"`
	AppliedRules []RuleMatch `json:"applied_rules"`
	ProfileHash  string      `json:"profile_hash"`
}
