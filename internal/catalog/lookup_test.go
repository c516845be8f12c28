package catalog

import "testing"

func TestDefaultLookupResolvesCoreAndExtended(t *testing.T) {
	ids := Default.AllQuestionIDs()
	if len(ids) != 16 {
		t.Fatalf("core catalog has %d questions, want 16", len(ids))
	}
	if ids[0] != "q1_income_stability" || ids[15] != "q16_children_planning" {
		t.Errorf("unexpected presentation order: first %q, last %q", ids[0], ids[15])
	}

	// Extended questions resolve by id but never enter the core set.
	if !Default.HasQuestion("q17_zakat_planning") {
		t.Error("extended question q17_zakat_planning should resolve")
	}
	for _, id := range ids {
		if id == "q17_zakat_planning" {
			t.Error("extended question leaked into the core id list")
		}
	}

	if Default.HasQuestion("q99_unknown") {
		t.Error("unknown id should not resolve")
	}
}

func TestLookupByNumberAndFactor(t *testing.T) {
	q := Default.QuestionByNumber(8)
	if q == nil || q.ID != "q8_emergency_fund" {
		t.Fatalf("QuestionByNumber(8) = %+v, want q8_emergency_fund", q)
	}

	savings := Default.QuestionsByFactor(FactorSavingsHabit)
	if len(savings) != 3 {
		t.Fatalf("savings_habit has %d questions, want 3", len(savings))
	}
	for _, q := range savings {
		if q.Factor != FactorSavingsHabit {
			t.Errorf("question %s carries factor %s", q.ID, q.Factor)
		}
	}
}

func TestCoreWeightsSumToHundred(t *testing.T) {
	total := 0
	for _, q := range Questions {
		total += q.Weight
	}
	if total != 100 {
		t.Errorf("core question weights sum to %d, want 100", total)
	}
}

func TestPillarsCoverEveryCoreQuestion(t *testing.T) {
	covered := make(map[string]bool)
	baseTotal := 0
	for factor, pillar := range Pillars {
		baseTotal += pillar.BaseWeight
		for _, id := range pillar.QuestionIDs {
			q := Default.QuestionByID(id)
			if q == nil {
				t.Errorf("pillar %s references unknown question %s", factor, id)
				continue
			}
			if q.Factor != factor {
				t.Errorf("pillar %s claims %s, which carries factor %s", factor, id, q.Factor)
			}
			covered[id] = true
		}
	}
	for _, id := range Default.AllQuestionIDs() {
		if !covered[id] {
			t.Errorf("core question %s belongs to no pillar", id)
		}
	}
	if baseTotal != 100 {
		t.Errorf("pillar base weights sum to %d, want 100", baseTotal)
	}
}

func TestConditionalQuestions(t *testing.T) {
	if !Default.IsConditional("q16_children_planning") {
		t.Error("q16_children_planning should be conditional")
	}
	if Default.IsConditional("q1_income_stability") {
		t.Error("q1_income_stability should not be conditional")
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		id    string
		value int
		want  bool
	}{
		{"q1_income_stability", 1, true},
		{"q1_income_stability", 5, true},
		{"q1_income_stability", 0, false},
		{"q1_income_stability", 6, false},
		{"q99_unknown", 3, false},
	}
	for _, tt := range tests {
		if got := Default.ValidateResponse(tt.id, tt.value); got != tt.want {
			t.Errorf("ValidateResponse(%s, %d) = %v, want %v", tt.id, tt.value, got, tt.want)
		}
	}
}

func TestLikertOptionValueSets(t *testing.T) {
	for _, q := range Questions {
		if q.Type != "likert" {
			continue
		}
		if len(q.Options) != 5 {
			t.Errorf("%s has %d options, want 5", q.ID, len(q.Options))
			continue
		}
		values := q.OptionValues()
		for v := 1; v <= 5; v++ {
			if _, ok := values[v]; !ok {
				t.Errorf("%s is missing option value %d", q.ID, v)
			}
		}
	}
}
