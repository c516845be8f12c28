package rules

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func validationEngine() *Engine {
	return newTestEngine(&fakeSource{}, time.Minute)
}

func TestValidateRuleValidPayload(t *testing.T) {
	engine := validationEngine()

	result := engine.ValidateRule(json.RawMessage(`{
		"conditions": {"and": [{"age": {"gte": 18}}, {"emirate": {"in": ["Dubai", "Abu Dhabi"]}}]},
		"actions": {"add_questions": ["q17_zakat_planning"], "exclude_questions": ["q13_retirement_planning"]}
	}`))

	if !result.Valid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestValidateRuleErrors(t *testing.T) {
	engine := validationEngine()

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "missing conditions",
			payload: `{"actions": {"add_questions": ["q17_zakat_planning"]}}`,
			wantErr: "conditions",
		},
		{
			name:    "missing actions",
			payload: `{"conditions": {"age": {"gte": 18}}}`,
			wantErr: "actions",
		},
		{
			name:    "unknown operator",
			payload: `{"conditions": {"age": {"between": [18, 30]}}, "actions": {"add_questions": []}}`,
			wantErr: "invalid conditions",
		},
		{
			name:    "disallowed field",
			payload: `{"conditions": {"shoe_size": {"gte": 40}}, "actions": {"add_questions": []}}`,
			wantErr: `field "shoe_size" is not allowed`,
		},
		{
			name:    "unknown action key",
			payload: `{"conditions": {"age": {"gte": 18}}, "actions": {"reorder_questions": ["q1_income_stability"]}}`,
			wantErr: `unknown action "reorder_questions"`,
		},
		{
			name:    "action value not a list",
			payload: `{"conditions": {"age": {"gte": 18}}, "actions": {"add_questions": "q17_zakat_planning"}}`,
			wantErr: "must contain a list",
		},
		{
			name:    "unknown question id",
			payload: `{"conditions": {"age": {"gte": 18}}, "actions": {"add_questions": ["q99_missing"]}}`,
			wantErr: `question id "q99_missing"`,
		},
		{
			name:    "non-string question id",
			payload: `{"conditions": {"age": {"gte": 18}}, "actions": {"add_questions": [42]}}`,
			wantErr: "must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.ValidateRule(json.RawMessage(tt.payload))
			if result.Valid {
				t.Fatal("expected invalid result")
			}
			if !anyContains(result.Errors, tt.wantErr) {
				t.Errorf("errors %v missing %q", result.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateRuleProtectedFieldWarnsOnly(t *testing.T) {
	engine := validationEngine()

	result := engine.ValidateRule(json.RawMessage(`{
		"conditions": {"and": [{"gender": {"eq": "female"}}, {"age": {"gte": 18}}]},
		"actions": {"add_questions": ["q17_zakat_planning"]}
	}`))

	if !result.Valid {
		t.Fatalf("protected fields must warn, not block: %v", result.Errors)
	}
	if !anyContains(result.Warnings, "gender") {
		t.Errorf("expected discrimination warning for gender, got %v", result.Warnings)
	}
}

func TestValidateRuleNestedProtectedFieldWarns(t *testing.T) {
	engine := validationEngine()

	result := engine.ValidateRule(json.RawMessage(`{
		"conditions": {"not": {"or": [{"religion": {"eq": "x"}}, {"age": {"lt": 18}}]}},
		"actions": {"add_questions": []}
	}`))

	if !anyContains(result.Warnings, "religion") {
		t.Errorf("expected warning for nested protected field, got %v", result.Warnings)
	}
}

func anyContains(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
