/*
Package store persists demographic rules, question variations, and per-company
question configuration behind the named-query layer in internal/core/db.

JSON columns (conditions, actions, options, demographic_rules, company_ids)
are stored as TEXT and round-tripped through encoding/json here, keeping the
schema identical on SQLite and PostgreSQL. Row structs are private; callers
only ever see the domain types.
*/
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

// RuleStore persists demographic rules and company question configuration.
type RuleStore struct {
	queries *db.Queries
	log     *zap.Logger
}

// NewRuleStore creates a rule store backed by the given query layer.
func NewRuleStore(queries *db.Queries, log *zap.Logger) *RuleStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RuleStore{queries: queries, log: log}
}

type ruleRow struct {
	RuleID      string `db:"rule_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Priority    int    `db:"priority"`
	Conditions  string `db:"conditions"`
	Actions     string `db:"actions"`
	IsActive    bool   `db:"is_active"`
	CreatedAt   string `db:"created_at"`
}

func (r ruleRow) toRule() (types.Rule, error) {
	var actions types.RuleActions
	if err := json.Unmarshal([]byte(r.Actions), &actions); err != nil {
		return types.Rule{}, fmt.Errorf("rule %s has malformed actions: %w", r.RuleID, err)
	}
	return types.Rule{
		RuleID:      types.RuleID(r.RuleID),
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		Conditions:  json.RawMessage(r.Conditions),
		Actions:     actions,
		IsActive:    r.IsActive,
	}, nil
}

// ListActiveRules returns all active rules ordered by ascending priority.
// Ties break on creation time so evaluation order is stable across restarts.
func (s *RuleStore) ListActiveRules(ctx context.Context) ([]types.Rule, error) {
	var rows []ruleRow
	if err := s.queries.Select(ctx, "list-active-rules", &rows); err != nil {
		return nil, fmt.Errorf("%w: list active rules: %v", types.ErrStoreUnavailable, err)
	}

	rules := make([]types.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := row.toRule()
		if err != nil {
			// A single corrupt row must not take down rule evaluation.
			s.log.Warn("skipping unreadable rule", zap.String("rule_id", row.RuleID), zap.Error(err))
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// CreateRule persists a new rule. Rule names are unique; the caller is
// expected to have validated conditions and actions beforehand.
func (s *RuleStore) CreateRule(ctx context.Context, rule types.Rule) error {
	var count int
	if err := s.queries.Get(ctx, "count-rules-by-name", &count, rule.Name); err != nil {
		return fmt.Errorf("%w: check rule name: %v", types.ErrStoreUnavailable, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", types.ErrRuleExists, rule.Name)
	}

	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	conditions := rule.Conditions
	if len(conditions) == 0 {
		conditions = json.RawMessage("{}")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.queries.Exec(ctx, "insert-rule",
		string(rule.RuleID), rule.Name, rule.Description, rule.Priority,
		string(conditions), string(actions), rule.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("%w: insert rule: %v", types.ErrStoreUnavailable, err)
	}

	s.log.Info("rule created",
		zap.String("rule_id", string(rule.RuleID)),
		zap.String("name", rule.Name),
		zap.Int("priority", rule.Priority))
	return nil
}

// SetRuleActive activates or deactivates a rule without deleting its history.
func (s *RuleStore) SetRuleActive(ctx context.Context, id types.RuleID, active bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.queries.Exec(ctx, "set-rule-active", active, now, string(id))
	if err != nil {
		return fmt.Errorf("%w: set rule active: %v", types.ErrStoreUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("rule %s not found", id)
	}
	return nil
}

// CompanyQuestions returns the base question set configured for a company.
// A nil slice means no configuration exists and the catalog default applies.
func (s *RuleStore) CompanyQuestions(ctx context.Context, companyID int64) ([]string, error) {
	var raw string
	err := s.queries.Get(ctx, "get-company-config", &raw, companyID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get company config: %v", types.ErrStoreUnavailable, err)
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("company %d has malformed question config: %w", companyID, err)
	}
	return questions, nil
}

// SetCompanyQuestions stores or replaces a company's base question set.
func (s *RuleStore) SetCompanyQuestions(ctx context.Context, companyID int64, questions []string) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal company questions: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.queries.Exec(ctx, "upsert-company-config", companyID, string(raw), now); err != nil {
		return fmt.Errorf("%w: upsert company config: %v", types.ErrStoreUnavailable, err)
	}
	return nil
}
