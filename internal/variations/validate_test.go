package variations

import (
	"math"
	"strings"
	"testing"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/catalog"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

func baseQuestion(t *testing.T, id string) *catalog.QuestionDefinition {
	t.Helper()
	q := catalog.Default.QuestionByID(id)
	if q == nil {
		t.Fatalf("question %s missing from catalog", id)
	}
	return q
}

func agreementOptions() []types.Option {
	return []types.Option{
		{Value: 5, Label: "Strongly Agree"},
		{Value: 4, Label: "Agree"},
		{Value: 3, Label: "Neutral"},
		{Value: 2, Label: "Disagree"},
		{Value: 1, Label: "Strongly Disagree"},
	}
}

func TestValidateIdenticalVariation(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	result := Validate(base, base.Text, agreementOptions(), "en")
	if !result.Valid {
		t.Fatalf("identical variation must be valid, errors: %v", result.Errors)
	}
	if result.ConsistencyScore != 1.0 {
		t.Errorf("identical variation score = %v, want 1.0", result.ConsistencyScore)
	}
}

func TestValidateTooFewOptions(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	// Well-written text cannot compensate for a structural mismatch
	result := Validate(base, base.Text, []types.Option{
		{Value: 5, Label: "Strongly Agree"},
		{Value: 4, Label: "Agree"},
	}, "en")

	if result.Valid {
		t.Fatal("2 options against a 5-option base must be invalid")
	}
	if !anyContains(result.Errors, "number of options") {
		t.Errorf("expected option-count error, got %v", result.Errors)
	}
	if !anyContains(result.Errors, "must match base question values") {
		t.Errorf("expected value-set error, got %v", result.Errors)
	}

	// Both structural penalties apply: 1.0 - 0.3 - 0.4
	if math.Abs(result.ConsistencyScore-0.3) > 1e-9 {
		t.Errorf("score = %v, want 0.3", result.ConsistencyScore)
	}
}

func TestValidateValueSetMismatchSameCardinality(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	options := agreementOptions()
	options[4] = types.Option{Value: 0, Label: "Strongly Disagree"}

	result := Validate(base, base.Text, options, "en")
	if result.Valid {
		t.Fatal("same count but different values must be invalid")
	}
	if !anyContains(result.Errors, "must match base question values") {
		t.Errorf("expected value-set error, got %v", result.Errors)
	}
}

func TestValidateEmptyTextAndOptions(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	result := Validate(base, "   ", nil, "en")
	if result.Valid {
		t.Fatal("empty text and options must be invalid")
	}
	if !anyContains(result.Errors, "text cannot be empty") {
		t.Errorf("expected empty-text error, got %v", result.Errors)
	}
	if !anyContains(result.Errors, "non-empty list") {
		t.Errorf("expected empty-options error, got %v", result.Errors)
	}
}

func TestValidateEmptyOptionLabel(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	options := agreementOptions()
	options[2].Label = ""

	result := Validate(base, base.Text, options, "en")
	if result.Valid {
		t.Fatal("empty label must be invalid")
	}
	if !anyContains(result.Errors, "label must be a non-empty string") {
		t.Errorf("expected label error, got %v", result.Errors)
	}
}

func TestValidateArabicVariation(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	arabicOptions := []types.Option{
		{Value: 5, Label: "أوافق بشدة"},
		{Value: 4, Label: "أوافق"},
		{Value: 3, Label: "محايد"},
		{Value: 2, Label: "لا أوافق"},
		{Value: 1, Label: "لا أوافق بشدة"},
	}

	result := Validate(base, "دخلي مستقر ويمكن التنبؤ به كل شهر.", arabicOptions, "ar")
	if !result.Valid {
		t.Fatalf("Arabic variation should be valid, errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("proper Arabic script should not warn: %v", result.Warnings)
	}
	// Fixed Arabic similarity baseline
	if math.Abs(result.ConsistencyScore-0.8) > 1e-9 {
		t.Errorf("score = %v, want 0.8", result.ConsistencyScore)
	}
}

func TestValidateArabicLanguageWithLatinText(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	result := Validate(base, base.Text, agreementOptions(), "ar")
	if !result.Valid {
		t.Fatalf("missing Arabic script warns, never invalidates: %v", result.Errors)
	}
	if !anyContains(result.Warnings, "Arabic variation should contain Arabic text") {
		t.Errorf("expected Arabic text warning, got %v", result.Warnings)
	}
	if !anyContains(result.Warnings, "Arabic option labels") {
		t.Errorf("expected Arabic label warning, got %v", result.Warnings)
	}

	// 1.0 - 0.1 - 5*0.05, times the 0.8 Arabic baseline
	want := (1.0 - 0.1 - 5*0.05) * 0.8
	if math.Abs(result.ConsistencyScore-want) > 1e-9 {
		t.Errorf("score = %v, want %v", result.ConsistencyScore, want)
	}
}

func TestValidateLowSimilarityWarns(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	result := Validate(base, "Completely unrelated sentence about weather patterns.", agreementOptions(), "en")
	if !result.Valid {
		t.Fatalf("low similarity warns, never invalidates: %v", result.Errors)
	}
	if !anyContains(result.Warnings, "low semantic consistency") {
		t.Errorf("expected similarity warning, got %v", result.Warnings)
	}
}

func TestValidateScoreClamped(t *testing.T) {
	base := baseQuestion(t, "q1_income_stability")

	// Pile up every penalty: wrong count, wrong values, Arabic language
	// with Latin-only text and labels.
	result := Validate(base, "Unrelated text entirely.", []types.Option{
		{Value: 9, Label: "Yes"},
		{Value: 8, Label: "No"},
	}, "ar")

	if result.ConsistencyScore < 0 || result.ConsistencyScore > 1 {
		t.Errorf("score %v outside [0,1]", result.ConsistencyScore)
	}
}

func TestContainsArabic(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"دخلي مستقر", true},
		{"mixed نص text", true},
		{"plain english", false},
		{"", false},
		{"20% أو أكثر", true},
	}
	for _, tt := range tests {
		if got := containsArabic(tt.text); got != tt.want {
			t.Errorf("containsArabic(%q) = %v, want %v", tt.text, got, tt.want)
		}
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
