package rules

import (
	"encoding/json"
	"fmt"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/conditions"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// rulePayload is the admin-facing wire shape of a rule submission. Actions
// stay raw so unknown action keys surface as validation errors instead of
// being dropped by typed decoding.
type rulePayload struct {
	Conditions json.RawMessage `json:"conditions"`
	Actions    json.RawMessage `json:"actions"`
}

var knownActions = map[string]struct{}{
	"include_questions": {},
	"exclude_questions": {},
	"add_questions":     {},
}

// ValidateRule checks an admin-authored rule payload for structural
// correctness and compliance concerns. Errors block persistence; warnings
// (protected demographic fields) never do. Validation failures here never
// affect runtime evaluation of already-persisted rules.
func (e *Engine) ValidateRule(payload json.RawMessage) types.ValidationResult {
	result := types.ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	var rule rulePayload
	if err := json.Unmarshal(payload, &rule); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("rule payload is not a JSON object: %v", err))
		return result
	}

	if len(rule.Conditions) == 0 {
		result.Errors = append(result.Errors, "rule must have a 'conditions' object")
	} else {
		result.Errors = append(result.Errors, e.validateConditions(rule.Conditions)...)
		result.Warnings = append(result.Warnings, protectedFieldWarnings(rule.Conditions)...)
	}

	if len(rule.Actions) == 0 {
		result.Errors = append(result.Errors, "rule must have an 'actions' object")
	} else {
		result.Errors = append(result.Errors, e.validateActions(rule.Actions)...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// validateConditions parses the condition tree and checks that every
// referenced field is usable in rules. Protected fields are usable (with a
// warning emitted elsewhere); anything outside both sets is an error.
func (e *Engine) validateConditions(raw json.RawMessage) []string {
	node, err := conditions.Parse(raw)
	if err != nil {
		return []string{fmt.Sprintf("invalid conditions: %v", err)}
	}

	var errs []string
	for _, field := range conditions.Fields(node) {
		_, allowed := types.AllowedFields[field]
		_, protected := types.ProtectedFields[field]
		if !allowed && !protected {
			errs = append(errs, fmt.Sprintf("field %q is not allowed in rules", field))
		}
	}
	return errs
}

// validateActions checks the action object: only the three known keys, each
// holding a list of question ids present in the static catalog. Unknown ids
// are an error here but are silently skipped at evaluation time.
func (e *Engine) validateActions(raw json.RawMessage) []string {
	var actions map[string]any
	if err := json.Unmarshal(raw, &actions); err != nil {
		return []string{fmt.Sprintf("actions must be an object: %v", err)}
	}

	var errs []string
	for action, value := range actions {
		if _, ok := knownActions[action]; !ok {
			errs = append(errs, fmt.Sprintf("unknown action %q", action))
			continue
		}

		list, ok := value.([]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("action %q must contain a list of question ids", action))
			continue
		}

		for _, entry := range list {
			id, ok := entry.(string)
			if !ok {
				errs = append(errs, fmt.Sprintf("question id in %q must be a string", action))
				continue
			}
			if !e.lookup.HasQuestion(id) {
				errs = append(errs, fmt.Sprintf("question id %q in %q does not exist", id, action))
			}
		}
	}
	return errs
}

// protectedFieldWarnings walks the raw condition object for protected
// demographic fields. The walk is independent of parsing so compliance
// concerns surface even when the tree is otherwise malformed.
func protectedFieldWarnings(raw json.RawMessage) []string {
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil
	}

	var warnings []string
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			for key, sub := range t {
				if _, ok := types.ProtectedFields[key]; ok {
					warnings = append(warnings,
						fmt.Sprintf("field %q may be discriminatory; ensure compliance with local regulations", key))
				}
				walk(sub)
			}
		case []any:
			for _, sub := range t {
				walk(sub)
			}
		}
	}
	walk(tree)
	return warnings
}
