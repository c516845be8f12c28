package selection

/*
 * Question-set orchestration.
 *
 * The Orchestrator is the single entry point the API layer calls to obtain
 * a question set for a respondent. It ties the rule engine, the variation
 * service, and the per-company question configuration together behind one
 * cached operation, GetQuestionsForProfile.
 *
 * Failure posture: a selection must never fail the caller. Any internal
 * error - rule store down, variation query failing, company config
 * unreadable - is logged with enough context to debug, counted as a
 * fallback, and answered with the static default catalog. The cache is
 * best-effort on both read and write.
 */

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/catalog"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/core/cache"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/rules"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/store"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/variations"
)

const (
	defaultResultTTL = time.Hour
	defaultIOTimeout = 5 * time.Second
)

// CompanySource yields the configured base question set for a company.
// A nil slice means the company has no configuration and uses the catalog
// default. *store.RuleStore satisfies this.
type CompanySource interface {
	CompanyQuestions(ctx context.Context, companyID int64) ([]string, error)
}

// Orchestrator assembles question sets per profile, company, language, and
// strategy, with a shared result cache in front.
type Orchestrator struct {
	rules      *rules.Engine
	variations *variations.Service
	companies  CompanySource
	cache      cache.Cache
	lookup     *catalog.Lookup
	metrics    *Metrics
	log        *zap.Logger

	resultTTL time.Duration
	ioTimeout time.Duration
}

// NewOrchestrator wires the selection pipeline. resultTTL bounds how long a
// computed set is served from cache; ioTimeout bounds each store or cache
// round trip. Zero durations select the defaults (1h, 5s). A nil lookup
// uses the full static catalog; nil metrics and log fall back to no-op
// implementations.
func NewOrchestrator(engine *rules.Engine, svc *variations.Service, companies CompanySource, c cache.Cache, lookup *catalog.Lookup, metrics *Metrics, log *zap.Logger, resultTTL, ioTimeout time.Duration) *Orchestrator {
	if lookup == nil {
		lookup = catalog.Default
	}
	if resultTTL <= 0 {
		resultTTL = defaultResultTTL
	}
	if ioTimeout <= 0 {
		ioTimeout = defaultIOTimeout
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		rules:      engine,
		variations: svc,
		companies:  companies,
		cache:      c,
		lookup:     lookup,
		metrics:    metrics,
		log:        log,
		resultTTL:  resultTTL,
		ioTimeout:  ioTimeout,
	}
}

// GetQuestionsForProfile returns the question set for one respondent. The
// result is cached per (profile digest, company, language, strategy);
// forceRefresh bypasses the cached copy and recomputes. The returned set is
// never empty: when assembly fails, the caller gets the default catalog and
// the failure shows up in logs and the fallback counter.
func (o *Orchestrator) GetQuestionsForProfile(ctx context.Context, profile types.Profile, companyID int64, language string, strategy Strategy, forceRefresh bool) *SelectionResult {
	if language == "" {
		language = "en"
	}
	key := cacheKey(profile, companyID, language, strategy)

	if !forceRefresh {
		if result := o.cachedResult(ctx, key); result != nil {
			o.metrics.recordHit()
			return result
		}
	}
	o.metrics.recordMiss()

	start := time.Now()
	result, err := o.compute(ctx, profile, companyID, language, strategy)
	if err != nil {
		o.log.Error("question selection failed, serving default set",
			zap.String("profile_hash", rules.HashProfile(profile)),
			zap.Int64("company_id", companyID),
			zap.String("language", language),
			zap.String("strategy", string(strategy)),
			zap.Error(err))
		o.metrics.recordFallback()

		fallback := o.defaultQuestions(language)
		fallback.GeneratedAt = time.Now().UTC()
		o.metrics.recordSelection(time.Since(start))
		return fallback
	}

	result.CacheKey = key
	result.GeneratedAt = time.Now().UTC()
	o.storeResult(ctx, key, result)
	o.metrics.recordSelection(time.Since(start))
	return result
}

// cachedResult returns the decoded cached selection for key, or nil. Cache
// failures and undecodable entries degrade to a recompute.
func (o *Orchestrator) cachedResult(ctx context.Context, key string) *SelectionResult {
	cctx, cancel := context.WithTimeout(ctx, o.ioTimeout)
	defer cancel()

	payload, err := o.cache.Get(cctx, key)
	if err != nil {
		if !errors.Is(err, types.ErrCacheMiss) {
			o.log.Warn("selection cache read failed",
				zap.String("cache_key", key),
				zap.Error(err))
		}
		return nil
	}

	var result SelectionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		o.log.Warn("discarding undecodable cached selection",
			zap.String("cache_key", key),
			zap.Error(err))
		return nil
	}
	return &result
}

// storeResult writes a freshly computed selection to the cache. Failed
// results are never cached; a write failure only costs a recompute later.
func (o *Orchestrator) storeResult(ctx context.Context, key string, result *SelectionResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		o.log.Warn("selection result not serializable",
			zap.String("cache_key", key),
			zap.Error(err))
		return
	}

	cctx, cancel := context.WithTimeout(ctx, o.ioTimeout)
	defer cancel()

	if err := o.cache.SetEx(cctx, key, o.resultTTL, string(payload)); err != nil {
		o.log.Warn("selection cache write failed",
			zap.String("cache_key", key),
			zap.Error(err))
	}
}

func (o *Orchestrator) compute(ctx context.Context, profile types.Profile, companyID int64, language string, strategy Strategy) (*SelectionResult, error) {
	switch strategy {
	case StrategyDemographic:
		return o.demographicQuestions(ctx, profile, language)
	case StrategyCompany:
		return o.companyQuestions(ctx, companyID, language)
	case StrategyHybrid:
		return o.hybridQuestions(ctx, profile, companyID, language)
	default:
		return o.defaultQuestions(language), nil
	}
}

// defaultQuestions serves the static core catalog in presentation order.
// It touches no store, so it doubles as the failure fallback.
func (o *Orchestrator) defaultQuestions(language string) *SelectionResult {
	ids := o.lookup.AllQuestionIDs()
	questions := make([]catalog.QuestionDefinition, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, *o.lookup.QuestionByID(id))
	}
	return &SelectionResult{
		Questions:      questions,
		VariationsUsed: map[string]types.VariationID{},
		Metadata: Metadata{
			Language:       language,
			TotalQuestions: len(questions),
		},
		StrategyUsed: StrategyDefault,
	}
}

// demographicQuestions runs the rule engine over the profile and renders
// each surviving question through its best-scoring variation, if any. An
// empty post-rule selection falls back to the full core set rather than
// serving a respondent nothing.
func (o *Orchestrator) demographicQuestions(ctx context.Context, profile types.Profile, language string) (*SelectionResult, error) {
	sctx, cancel := context.WithTimeout(ctx, o.ioTimeout)
	summary, err := o.rules.SelectQuestions(sctx, profile, nil)
	cancel()
	if err != nil {
		return nil, err
	}

	selected := summary.Selected
	if len(selected) == 0 {
		selected = o.lookup.AllQuestionIDs()
	}
	hints := variationHints(summary.AppliedRules)

	questions := make([]catalog.QuestionDefinition, 0, len(selected))
	used := map[string]types.VariationID{}
	for _, id := range selected {
		base := o.lookup.QuestionByID(id)
		if base == nil {
			continue
		}
		vctx, cancel := context.WithTimeout(ctx, o.ioTimeout)
		v, err := o.variations.BestForProfile(vctx, id, profile, language, 0, hints)
		cancel()
		if err != nil {
			return nil, err
		}
		if v != nil {
			questions = append(questions, questionFromVariation(base, v))
			used[id] = v.VariationID
		} else {
			questions = append(questions, *base)
		}
	}

	return &SelectionResult{
		Questions:      questions,
		VariationsUsed: used,
		Metadata: Metadata{
			Language:       language,
			TotalQuestions: len(questions),
			AppliedRules:   ruleNames(summary.AppliedRules),
			Excluded:       summary.Excluded,
			Added:          summary.Added,
			ProfileHash:    summary.ProfileHash,
		},
		StrategyUsed: StrategyDemographic,
	}, nil
}

// companyQuestions serves the company-configured base set with the first
// active company-scoped variation substituted per question. Without a
// company there is nothing to scope to, so the default set is served.
func (o *Orchestrator) companyQuestions(ctx context.Context, companyID int64, language string) (*SelectionResult, error) {
	if companyID == 0 {
		return o.defaultQuestions(language), nil
	}

	sctx, cancel := context.WithTimeout(ctx, o.ioTimeout)
	configured, err := o.companies.CompanyQuestions(sctx, companyID)
	cancel()
	if err != nil {
		return nil, err
	}

	ids := configured
	if ids == nil {
		ids = o.lookup.AllQuestionIDs()
	}

	questions := make([]catalog.QuestionDefinition, 0, len(ids))
	used := map[string]types.VariationID{}
	for _, id := range ids {
		base := o.lookup.QuestionByID(id)
		if base == nil {
			o.log.Warn("company config references unknown question, skipping",
				zap.Int64("company_id", companyID),
				zap.String("question_id", id))
			continue
		}
		v, err := o.companyVariation(ctx, id, companyID, language)
		if err != nil {
			return nil, err
		}
		if v != nil {
			questions = append(questions, questionFromVariation(base, v))
			used[id] = v.VariationID
		} else {
			questions = append(questions, *base)
		}
	}

	return &SelectionResult{
		Questions:      questions,
		VariationsUsed: used,
		Metadata: Metadata{
			Language:       language,
			TotalQuestions: len(questions),
			CompanyID:      companyID,
		},
		StrategyUsed: StrategyCompany,
	}, nil
}

// hybridQuestions layers company-scoped variations over the demographic
// result: rules decide which questions appear, the company decides how its
// questions read. Without a company the demographic result stands as-is.
func (o *Orchestrator) hybridQuestions(ctx context.Context, profile types.Profile, companyID int64, language string) (*SelectionResult, error) {
	result, err := o.demographicQuestions(ctx, profile, language)
	if err != nil {
		return nil, err
	}
	result.StrategyUsed = StrategyHybrid
	if companyID == 0 {
		return result, nil
	}

	for i := range result.Questions {
		id := result.Questions[i].ID
		v, err := o.companyVariation(ctx, id, companyID, language)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result.Questions[i] = questionFromVariation(o.lookup.QuestionByID(id), v)
			result.VariationsUsed[id] = v.VariationID
		}
	}
	result.Metadata.CompanyID = companyID
	return result, nil
}

// companyVariation returns the first active variation explicitly scoped to
// the company for a question, or nil when the company has none.
func (o *Orchestrator) companyVariation(ctx context.Context, questionID string, companyID int64, language string) (*types.QuestionVariation, error) {
	sctx, cancel := context.WithTimeout(ctx, o.ioTimeout)
	defer cancel()

	vs, err := o.variations.Query(sctx, store.VariationQuery{
		Language:       language,
		BaseQuestionID: questionID,
		CompanyID:      companyID,
		ActiveOnly:     true,
	})
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, nil
	}
	return &vs[0], nil
}

// ClearCache removes cached selection results matching pattern. An empty
// pattern clears every selection entry; rule and consistency caches are
// owned by their packages and untouched here. Returns the number of entries
// removed.
func (o *Orchestrator) ClearCache(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		pattern = cacheKeyPrefix + ":*"
	}
	keys, err := o.cache.Keys(ctx, pattern)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := o.cache.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Analytics reports the selection counters accumulated since startup.
func (o *Orchestrator) Analytics() Analytics {
	return o.metrics.Snapshot()
}

// variationHints collects the include_questions of every matched rule.
// They steer variation choice downstream and never alter the question set.
func variationHints(matches []types.RuleMatch) []string {
	var hints []string
	for _, m := range matches {
		hints = append(hints, m.Actions.IncludeQuestions...)
	}
	return hints
}

func ruleNames(matches []types.RuleMatch) []string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.RuleName)
	}
	return names
}
