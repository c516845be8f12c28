/*
Package variations manages question variations: filtered catalog reads,
structural and semantic validation against base questions, per-profile
candidate scoring, and response-score normalization.

Scoring is intentionally simple and deterministic. Candidates are ranked by
fixed bonuses for company and demographic targeting; ties keep the earliest
candidate in creation order. The tie-break is acknowledged as arbitrary and
must stay that way so repeated selections are reproducible.
*/
package variations

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/catalog"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/conditions"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/store"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// Candidate scoring bonuses. Company targeting outranks demographic
// targeting, which outranks an admin preference hint; a mismatch on either
// targeting axis excludes the candidate entirely.
const (
	companyMatchBonus     = 50.0
	demographicMatchBonus = 40.0
	hintBonus             = 30.0
	noDemographicsBonus   = 20.0
	unscopedBonus         = 10.0
)

// consistencyCacheSize bounds the per-variation consistency score cache.
// Scores are recomputed only after eviction or an explicit ClearCache.
const consistencyCacheSize = 1024

// VariationSource is the persistence surface the service needs.
type VariationSource interface {
	Query(ctx context.Context, q store.VariationQuery) ([]types.QuestionVariation, error)
	Get(ctx context.Context, id types.VariationID) (types.QuestionVariation, error)
	Create(ctx context.Context, v types.QuestionVariation) error
	SetActive(ctx context.Context, id types.VariationID, active bool) error
	Delete(ctx context.Context, id types.VariationID) error
}

// Service is the variation catalog and consistency scorer.
type Service struct {
	source VariationSource
	lookup *catalog.Lookup
	eval   *conditions.Evaluator
	log    *zap.Logger
	scores *lru.Cache[types.VariationID, consistencyEntry]
}

// consistencyEntry keeps the owning base question alongside the score so a
// cache hit still detects a mismatched variation/question pairing.
type consistencyEntry struct {
	baseQuestionID string
	score          float64
}

// NewService creates a variation service.
func NewService(source VariationSource, lookup *catalog.Lookup, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if lookup == nil {
		lookup = catalog.Default
	}
	scores, _ := lru.New[types.VariationID, consistencyEntry](consistencyCacheSize)
	return &Service{
		source: source,
		lookup: lookup,
		eval:   conditions.NewEvaluator(log),
		log:    log,
		scores: scores,
	}
}

// Query lists variations matching the filters, in stable creation order.
func (s *Service) Query(ctx context.Context, q store.VariationQuery) ([]types.QuestionVariation, error) {
	return s.source.Query(ctx, q)
}

// BestForProfile picks the highest-scoring active variation of a question
// for the given profile, or nil when no candidate applies.
//
// Hints are preferred variation names carried over from matched rule
// actions, in the form "<base_question_id>_<variation_name...>"; a hinted
// candidate gets a preference bonus but a hint never rescues a candidate
// excluded by company or demographic mismatch.
func (s *Service) BestForProfile(ctx context.Context, questionID string, profile types.Profile, language string, companyID int64, hints []string) (*types.QuestionVariation, error) {
	// A company context narrows candidates to explicitly scoped variations;
	// without one, every active variation competes (including ones scoped
	// to some company, which then simply earn no company bonus).
	candidates, err := s.source.Query(ctx, store.VariationQuery{
		Language:       language,
		BaseQuestionID: questionID,
		CompanyID:      companyID,
		ActiveOnly:     true,
	})
	if err != nil {
		return nil, err
	}

	sanitized := profile.Sanitize()

	var best *types.QuestionVariation
	bestScore := 0.0
	for i := range candidates {
		candidate := &candidates[i]
		score := s.scoreCandidate(candidate, sanitized, companyID)
		if score <= 0 {
			continue
		}
		if hintMatches(candidate, hints) {
			score += hintBonus
		}
		// Strictly greater keeps the earliest candidate on ties.
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, nil
}

func (s *Service) scoreCandidate(v *types.QuestionVariation, profile types.Profile, companyID int64) float64 {
	score := 0.0

	if companyID != 0 && len(v.CompanyIDs) > 0 {
		if !v.AppliesToCompany(companyID) {
			return 0
		}
		score += companyMatchBonus
	} else if len(v.CompanyIDs) == 0 {
		score += unscopedBonus
	}

	if len(v.DemographicRules) > 0 {
		node, err := conditions.Parse(v.DemographicRules)
		if err != nil {
			s.log.Warn("variation has malformed demographic rules",
				zap.String("variation_id", string(v.VariationID)),
				zap.Error(err))
			return 0
		}
		if !s.eval.Evaluate(node, profile) {
			return 0
		}
		score += demographicMatchBonus
	} else {
		score += noDemographicsBonus
	}

	return score
}

func hintMatches(v *types.QuestionVariation, hints []string) bool {
	qualified := v.BaseQuestionID + "_" + v.VariationName
	for _, hint := range hints {
		if hint == "" {
			continue
		}
		if strings.HasPrefix(qualified, hint) {
			return true
		}
	}
	return false
}

// ValidateAgainstBase validates a variation payload against its base
// question from the catalog.
func (s *Service) ValidateAgainstBase(baseQuestionID, text string, options []types.Option, language string) (types.VariationValidationResult, error) {
	base := s.lookup.QuestionByID(baseQuestionID)
	if base == nil {
		return types.VariationValidationResult{}, fmt.Errorf("%w: %s", types.ErrQuestionNotFound, baseQuestionID)
	}
	return Validate(base, text, options, language), nil
}

// Create validates the variation against its base question and persists it.
// Hard validation errors reject the creation; warnings do not.
func (s *Service) Create(ctx context.Context, v types.QuestionVariation) (types.VariationValidationResult, error) {
	result, err := s.ValidateAgainstBase(v.BaseQuestionID, v.Text, v.Options, v.Language)
	if err != nil {
		return result, err
	}
	if !result.Valid {
		return result, fmt.Errorf("%w: %s", types.ErrVariationInvalid, strings.Join(result.Errors, "; "))
	}

	if err := s.source.Create(ctx, v); err != nil {
		return result, err
	}
	s.scores.Remove(v.VariationID)
	return result, nil
}

// SetActive toggles a variation and drops its cached consistency score.
func (s *Service) SetActive(ctx context.Context, id types.VariationID, active bool) error {
	if err := s.source.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.scores.Remove(id)
	return nil
}

// Delete removes a variation and drops its cached consistency score.
func (s *Service) Delete(ctx context.Context, id types.VariationID) error {
	if err := s.source.Delete(ctx, id); err != nil {
		return err
	}
	s.scores.Remove(id)
	return nil
}

// NormalizeResponseScore converts a raw 1-5 answer given on a variation to
// the base question's scale: raw + (consistency - 1) * 0.1, clamped to
// [1,5]. Variations with consistency of at least 0.9 pass the raw value
// through unchanged. Any internal failure falls back to the raw value so a
// scoring pipeline never breaks on a missing variation.
func (s *Service) NormalizeResponseScore(ctx context.Context, raw int, variationID types.VariationID, baseQuestionID string) float64 {
	value := float64(raw)

	consistency, err := s.consistencyFor(ctx, variationID, baseQuestionID)
	if err != nil {
		s.log.Warn("falling back to raw response value",
			zap.String("variation_id", string(variationID)),
			zap.String("base_question_id", baseQuestionID),
			zap.Error(err))
		return value
	}

	if consistency < 0.9 {
		value += (consistency - 1.0) * 0.1
	}

	if value < 1 {
		return 1
	}
	if value > 5 {
		return 5
	}
	return value
}

// consistencyFor returns the variation's consistency score against its base
// question, cached per variation id.
func (s *Service) consistencyFor(ctx context.Context, id types.VariationID, baseQuestionID string) (float64, error) {
	if entry, ok := s.scores.Get(id); ok {
		if entry.baseQuestionID != baseQuestionID {
			return 0, fmt.Errorf("variation %s does not belong to question %s", id, baseQuestionID)
		}
		return entry.score, nil
	}

	v, err := s.source.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if v.BaseQuestionID != baseQuestionID {
		return 0, fmt.Errorf("variation %s does not belong to question %s", id, baseQuestionID)
	}

	result, err := s.ValidateAgainstBase(v.BaseQuestionID, v.Text, v.Options, v.Language)
	if err != nil {
		return 0, err
	}

	s.scores.Add(id, consistencyEntry{baseQuestionID: v.BaseQuestionID, score: result.ConsistencyScore})
	return result.ConsistencyScore, nil
}

// ClearCache drops all cached consistency scores. Admin tooling calls this
// after bulk variation mutations.
func (s *Service) ClearCache() {
	s.scores.Purge()
}
