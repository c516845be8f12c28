package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/core/db"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// VariationStore persists question variations.
type VariationStore struct {
	queries *db.Queries
	log     *zap.Logger
}

// NewVariationStore creates a variation store backed by the given query layer.
func NewVariationStore(queries *db.Queries, log *zap.Logger) *VariationStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &VariationStore{queries: queries, log: log}
}

// VariationQuery narrows a variation listing. Language is required; the
// remaining fields are optional filters. The company filter is strict: it
// keeps only variations explicitly scoped to that company, never unscoped
// ones. It happens in Go because company_ids is a JSON column.
type VariationQuery struct {
	Language       string
	BaseQuestionID string
	CompanyID      int64 // 0 means no company filter
	ActiveOnly     bool
}

type variationRow struct {
	VariationID      string `db:"variation_id"`
	BaseQuestionID   string `db:"base_question_id"`
	VariationName    string `db:"variation_name"`
	Language         string `db:"language"`
	Text             string `db:"text"`
	Options          string `db:"options"`
	DemographicRules string `db:"demographic_rules"`
	CompanyIDs       string `db:"company_ids"`
	Factor           string `db:"factor"`
	Weight           int    `db:"weight"`
	IsActive         bool   `db:"is_active"`
	CreatedAt        string `db:"created_at"`
}

func (r variationRow) toVariation() (types.QuestionVariation, error) {
	var options []types.Option
	if err := json.Unmarshal([]byte(r.Options), &options); err != nil {
		return types.QuestionVariation{}, fmt.Errorf("variation %s has malformed options: %w", r.VariationID, err)
	}

	var companyIDs []int64
	if r.CompanyIDs != "" {
		if err := json.Unmarshal([]byte(r.CompanyIDs), &companyIDs); err != nil {
			return types.QuestionVariation{}, fmt.Errorf("variation %s has malformed company_ids: %w", r.VariationID, err)
		}
	}

	var demographicRules json.RawMessage
	if r.DemographicRules != "" && r.DemographicRules != "{}" {
		demographicRules = json.RawMessage(r.DemographicRules)
	}

	return types.QuestionVariation{
		VariationID:      types.VariationID(r.VariationID),
		BaseQuestionID:   r.BaseQuestionID,
		VariationName:    r.VariationName,
		Language:         r.Language,
		Text:             r.Text,
		Options:          options,
		DemographicRules: demographicRules,
		CompanyIDs:       companyIDs,
		Factor:           r.Factor,
		Weight:           r.Weight,
		IsActive:         r.IsActive,
	}, nil
}

// Query lists variations matching the given filters in stable creation order.
func (s *VariationStore) Query(ctx context.Context, q VariationQuery) ([]types.QuestionVariation, error) {
	name, args := queryFor(q)

	var rows []variationRow
	if err := s.queries.Select(ctx, name, &rows, args...); err != nil {
		return nil, fmt.Errorf("%w: list variations: %v", types.ErrStoreUnavailable, err)
	}

	variations := make([]types.QuestionVariation, 0, len(rows))
	for _, row := range rows {
		v, err := row.toVariation()
		if err != nil {
			s.log.Warn("skipping unreadable variation", zap.String("variation_id", row.VariationID), zap.Error(err))
			continue
		}
		if q.CompanyID != 0 && !scopedToCompany(&v, q.CompanyID) {
			continue
		}
		variations = append(variations, v)
	}
	return variations, nil
}

func scopedToCompany(v *types.QuestionVariation, companyID int64) bool {
	for _, id := range v.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

func queryFor(q VariationQuery) (string, []any) {
	switch {
	case q.BaseQuestionID != "" && q.ActiveOnly:
		return "list-active-variations-for-question", []any{q.Language, q.BaseQuestionID}
	case q.BaseQuestionID != "":
		return "list-variations-for-question", []any{q.Language, q.BaseQuestionID}
	case q.ActiveOnly:
		return "list-active-variations", []any{q.Language}
	default:
		return "list-variations", []any{q.Language}
	}
}

// Get retrieves a single variation by id.
func (s *VariationStore) Get(ctx context.Context, id types.VariationID) (types.QuestionVariation, error) {
	var row variationRow
	if err := s.queries.Get(ctx, "get-variation", &row, string(id)); err != nil {
		if db.IsNoRows(err) {
			return types.QuestionVariation{}, types.ErrVariationNotFound
		}
		return types.QuestionVariation{}, fmt.Errorf("%w: get variation: %v", types.ErrStoreUnavailable, err)
	}
	return row.toVariation()
}

// Create persists a new variation. The (base question, name, language) triple
// must be unique; the caller is expected to have validated the variation
// against its base question beforehand.
func (s *VariationStore) Create(ctx context.Context, v types.QuestionVariation) error {
	var count int
	err := s.queries.Get(ctx, "count-variations-by-name", &count, v.BaseQuestionID, v.VariationName, v.Language)
	if err != nil {
		return fmt.Errorf("%w: check variation name: %v", types.ErrStoreUnavailable, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s/%s (%s)", types.ErrVariationExists, v.BaseQuestionID, v.VariationName, v.Language)
	}

	options, err := json.Marshal(v.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	companyIDs := []byte("[]")
	if len(v.CompanyIDs) > 0 {
		if companyIDs, err = json.Marshal(v.CompanyIDs); err != nil {
			return fmt.Errorf("marshal company_ids: %w", err)
		}
	}

	demographicRules := v.DemographicRules
	if len(demographicRules) == 0 {
		demographicRules = json.RawMessage("{}")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.queries.Exec(ctx, "insert-variation",
		string(v.VariationID), v.BaseQuestionID, v.VariationName, v.Language, v.Text,
		string(options), string(demographicRules), string(companyIDs),
		v.Factor, v.Weight, v.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("%w: insert variation: %v", types.ErrStoreUnavailable, err)
	}

	s.log.Info("variation created",
		zap.String("variation_id", string(v.VariationID)),
		zap.String("base_question_id", v.BaseQuestionID),
		zap.String("variation_name", v.VariationName),
		zap.String("language", v.Language))
	return nil
}

// SetActive activates or deactivates a variation.
func (s *VariationStore) SetActive(ctx context.Context, id types.VariationID, active bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.queries.Exec(ctx, "set-variation-active", active, now, string(id))
	if err != nil {
		return fmt.Errorf("%w: set variation active: %v", types.ErrStoreUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrVariationNotFound
	}
	return nil
}

// Delete removes a variation permanently. Prefer SetActive for routine
// retirement; delete exists for cleaning up seeding mistakes.
func (s *VariationStore) Delete(ctx context.Context, id types.VariationID) error {
	res, err := s.queries.Exec(ctx, "delete-variation", string(id))
	if err != nil {
		return fmt.Errorf("%w: delete variation: %v", types.ErrStoreUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrVariationNotFound
	}
	return nil
}
