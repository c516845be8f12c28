package variations

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/store"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// fakeSource is an in-memory VariationSource preserving insertion order.
type fakeSource struct {
	variations []types.QuestionVariation
	getCalls   int
}

func (f *fakeSource) Query(_ context.Context, q store.VariationQuery) ([]types.QuestionVariation, error) {
	var out []types.QuestionVariation
	for _, v := range f.variations {
		if v.Language != q.Language {
			continue
		}
		if q.BaseQuestionID != "" && v.BaseQuestionID != q.BaseQuestionID {
			continue
		}
		if q.ActiveOnly && !v.IsActive {
			continue
		}
		if q.CompanyID != 0 && !scoped(v, q.CompanyID) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeSource) Get(_ context.Context, id types.VariationID) (types.QuestionVariation, error) {
	f.getCalls++
	for _, v := range f.variations {
		if v.VariationID == id {
			return v, nil
		}
	}
	return types.QuestionVariation{}, types.ErrVariationNotFound
}

func (f *fakeSource) Create(_ context.Context, v types.QuestionVariation) error {
	f.variations = append(f.variations, v)
	return nil
}

func (f *fakeSource) SetActive(_ context.Context, id types.VariationID, active bool) error {
	for i := range f.variations {
		if f.variations[i].VariationID == id {
			f.variations[i].IsActive = active
			return nil
		}
	}
	return types.ErrVariationNotFound
}

func (f *fakeSource) Delete(_ context.Context, id types.VariationID) error {
	for i := range f.variations {
		if f.variations[i].VariationID == id {
			f.variations = append(f.variations[:i], f.variations[i+1:]...)
			return nil
		}
	}
	return types.ErrVariationNotFound
}

func scoped(v types.QuestionVariation, companyID int64) bool {
	for _, id := range v.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

func variation(question, name string, opts ...func(*types.QuestionVariation)) types.QuestionVariation {
	v := types.QuestionVariation{
		VariationID:    types.NewVariationID(),
		BaseQuestionID: question,
		VariationName:  name,
		Language:       "en",
		Text:           "My income is stable and predictable each month.",
		Options:        agreementOptions(),
		Factor:         "income_stream",
		Weight:         10,
		IsActive:       true,
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

func withRules(rules string) func(*types.QuestionVariation) {
	return func(v *types.QuestionVariation) { v.DemographicRules = json.RawMessage(rules) }
}

func withCompanies(ids ...int64) func(*types.QuestionVariation) {
	return func(v *types.QuestionVariation) { v.CompanyIDs = ids }
}

func TestBestForProfileCompanyContext(t *testing.T) {
	source := &fakeSource{variations: []types.QuestionVariation{
		variation("q1_income_stability", "demographic_match", withRules(`{"age": {"lte": 30}}`)),
		variation("q1_income_stability", "company_scoped", withCompanies(7)),
	}}
	service := NewService(source, nil, nil)

	// With a company context only explicitly scoped candidates compete
	best, err := service.BestForProfile(context.Background(), "q1_income_stability",
		types.Profile{"age": 25}, "en", 7, nil)
	if err != nil {
		t.Fatalf("BestForProfile failed: %v", err)
	}
	if best == nil || best.VariationName != "company_scoped" {
		t.Errorf("expected company_scoped to win for company 7, got %+v", best)
	}

	// Without one, the demographic match (+10 +40) beats the scoped
	// candidate, which earns no company bonus (+0 +20)
	best, err = service.BestForProfile(context.Background(), "q1_income_stability",
		types.Profile{"age": 25}, "en", 0, nil)
	if err != nil {
		t.Fatalf("BestForProfile failed: %v", err)
	}
	if best == nil || best.VariationName != "demographic_match" {
		t.Errorf("expected demographic_match to win without company, got %+v", best)
	}
}

func TestBestForProfileMismatchesExcluded(t *testing.T) {
	source := &fakeSource{variations: []types.QuestionVariation{
		variation("q1_income_stability", "wrong_demographics", withRules(`{"age": {"gte": 60}}`)),
	}}
	service := NewService(source, nil, nil)

	best, err := service.BestForProfile(context.Background(), "q1_income_stability",
		types.Profile{"age": 25}, "en", 0, nil)
	if err != nil {
		t.Fatalf("BestForProfile failed: %v", err)
	}
	if best != nil {
		t.Errorf("demographic mismatch must exclude, got %s", best.VariationName)
	}

	// A company context with no scoped candidates yields nothing
	source.variations = append(source.variations, variation("q1_income_stability", "other_company", withCompanies(99)))
	best, err = service.BestForProfile(context.Background(), "q1_income_stability",
		types.Profile{"age": 25}, "en", 7, nil)
	if err != nil {
		t.Fatalf("BestForProfile failed: %v", err)
	}
	if best != nil {
		t.Errorf("company 7 has no scoped candidates, got %s", best.VariationName)
	}
}

func TestBestForProfileStableTieBreak(t *testing.T) {
	source := &fakeSource{variations: []types.QuestionVariation{
		variation("q1_income_stability", "first"),
		variation("q1_income_stability", "second"),
	}}
	service := NewService(source, nil, nil)

	// Identical scores on every call keep the earliest in creation order
	for i := 0; i < 10; i++ {
		best, err := service.BestForProfile(context.Background(), "q1_income_stability",
			types.Profile{"age": 25}, "en", 0, nil)
		if err != nil {
			t.Fatalf("BestForProfile failed: %v", err)
		}
		if best == nil || best.VariationName != "first" {
			t.Fatalf("tie-break not stable on call %d: %+v", i, best)
		}
	}
}

func TestBestForProfileHintPreference(t *testing.T) {
	source := &fakeSource{variations: []types.QuestionVariation{
		variation("q1_income_stability", "standard"),
		variation("q1_income_stability", "islamic_version"),
	}}
	service := NewService(source, nil, nil)

	best, err := service.BestForProfile(context.Background(), "q1_income_stability",
		types.Profile{"age": 25}, "en", 0, []string{"q1_income_stability_islamic"})
	if err != nil {
		t.Fatalf("BestForProfile failed: %v", err)
	}
	if best == nil || best.VariationName != "islamic_version" {
		t.Errorf("hint should prefer islamic_version, got %+v", best)
	}

	// A hint never rescues an excluded candidate
	source.variations[1].DemographicRules = json.RawMessage(`{"age": {"gte": 60}}`)
	best, err = service.BestForProfile(context.Background(), "q1_income_stability",
		types.Profile{"age": 25}, "en", 0, []string{"q1_income_stability_islamic"})
	if err != nil {
		t.Fatalf("BestForProfile failed: %v", err)
	}
	if best == nil || best.VariationName != "standard" {
		t.Errorf("excluded candidate must stay excluded despite hint, got %+v", best)
	}
}

func TestCreateRejectsInvalidVariation(t *testing.T) {
	source := &fakeSource{}
	service := NewService(source, nil, nil)

	v := variation("q1_income_stability", "broken")
	v.Options = v.Options[:2]

	result, err := service.Create(context.Background(), v)
	if !errors.Is(err, types.ErrVariationInvalid) {
		t.Fatalf("expected ErrVariationInvalid, got %v", err)
	}
	if result.Valid {
		t.Error("validation result should be invalid")
	}
	if len(source.variations) != 0 {
		t.Error("invalid variation must not be persisted")
	}
}

func TestCreateUnknownBaseQuestion(t *testing.T) {
	service := NewService(&fakeSource{}, nil, nil)

	_, err := service.Create(context.Background(), variation("q99_missing", "x"))
	if !errors.Is(err, types.ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestNormalizeResponseScore(t *testing.T) {
	perfect := variation("q1_income_stability", "perfect")
	degraded := variation("q1_income_stability", "degraded")
	degraded.Options = degraded.Options[:2]

	source := &fakeSource{variations: []types.QuestionVariation{perfect, degraded}}
	service := NewService(source, nil, nil)
	ctx := context.Background()

	// Consistency 1.0 passes the raw value through
	if got := service.NormalizeResponseScore(ctx, 4, perfect.VariationID, "q1_income_stability"); got != 4.0 {
		t.Errorf("perfect variation: got %v, want 4.0", got)
	}

	// Consistency 0.3 (count and value-set penalties): 3 + (0.3-1)*0.1
	got := service.NormalizeResponseScore(ctx, 3, degraded.VariationID, "q1_income_stability")
	if math.Abs(got-2.93) > 1e-9 {
		t.Errorf("degraded variation: got %v, want 2.93", got)
	}

	// Clamped to the 1..5 scale
	if got := service.NormalizeResponseScore(ctx, 1, degraded.VariationID, "q1_income_stability"); got != 1.0 {
		t.Errorf("clamp low: got %v, want 1.0", got)
	}

	// Unknown variation falls back to raw
	if got := service.NormalizeResponseScore(ctx, 2, types.NewVariationID(), "q1_income_stability"); got != 2.0 {
		t.Errorf("unknown variation: got %v, want 2.0", got)
	}

	// Variation belonging to a different question falls back to raw
	if got := service.NormalizeResponseScore(ctx, 2, perfect.VariationID, "q7_savings_rate"); got != 2.0 {
		t.Errorf("mismatched base question: got %v, want 2.0", got)
	}
}

func TestNormalizeResponseScoreCachesConsistency(t *testing.T) {
	v := variation("q1_income_stability", "cached")
	source := &fakeSource{variations: []types.QuestionVariation{v}}
	service := NewService(source, nil, nil)
	ctx := context.Background()

	service.NormalizeResponseScore(ctx, 3, v.VariationID, "q1_income_stability")
	service.NormalizeResponseScore(ctx, 4, v.VariationID, "q1_income_stability")
	if source.getCalls != 1 {
		t.Errorf("consistency should be computed once, store hit %d times", source.getCalls)
	}

	service.ClearCache()
	service.NormalizeResponseScore(ctx, 3, v.VariationID, "q1_income_stability")
	if source.getCalls != 2 {
		t.Errorf("ClearCache should force recomputation, store hit %d times", source.getCalls)
	}
}
