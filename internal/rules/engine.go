/*
Package rules implements the demographic rule engine: loading and caching
active rules, evaluating their condition trees against respondent profiles,
and applying matched actions to question sets.

Rules are admin-authored and change rarely, so the engine keeps the active
rule list in process for a short TTL instead of hitting the store on every
evaluation. When the store becomes unreachable after the TTL expires, the
engine keeps serving the last good snapshot: stale rules beat no rules for
a survey that must keep rendering.
*/
package rules

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/catalog"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/conditions"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// RuleSource yields the active rule set, ordered by ascending priority.
type RuleSource interface {
	ListActiveRules(ctx context.Context) ([]types.Rule, error)
}

// compiledRule pairs a rule with its condition tree, parsed once when the
// snapshot is fetched. A nil node marks a rule whose conditions failed to
// parse; it stays in the snapshot as permanently non-matching.
type compiledRule struct {
	rule types.Rule
	node *conditions.Node
}

// Engine evaluates demographic rules against profiles.
type Engine struct {
	source  RuleSource
	lookup  *catalog.Lookup
	eval    *conditions.Evaluator
	log     *zap.Logger
	ttl     time.Duration

	mu        sync.Mutex
	cached    []compiledRule
	fetchedAt time.Time
}

// NewEngine creates a rule engine. ttl bounds how long a fetched rule list
// is reused before the source is consulted again.
func NewEngine(source RuleSource, lookup *catalog.Lookup, ttl time.Duration, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if lookup == nil {
		lookup = catalog.Default
	}
	return &Engine{
		source: source,
		lookup: lookup,
		eval:   conditions.NewEvaluator(log),
		log:    log,
		ttl:    ttl,
	}
}

// snapshot returns the compiled active rule set, served from the in-process
// cache when fresh. Condition trees are parsed exactly once per fetch, not
// per evaluation. A store failure after the snapshot expired serves the
// stale snapshot instead of failing; only a failure with no snapshot at all
// errors.
func (e *Engine) snapshot(ctx context.Context) ([]compiledRule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cached != nil && time.Since(e.fetchedAt) < e.ttl {
		return e.cached, nil
	}

	rules, err := e.source.ListActiveRules(ctx)
	if err != nil {
		if e.cached != nil {
			e.log.Warn("rule store unavailable, serving stale rule snapshot",
				zap.Error(err),
				zap.Duration("age", time.Since(e.fetchedAt)))
			return e.cached, nil
		}
		return nil, err
	}

	// Store order is already ascending priority; re-sort defensively so a
	// misbehaving source cannot break the sequential-application contract.
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		node, err := conditions.Parse(rule.Conditions)
		if err != nil {
			e.log.Warn("rule has malformed conditions, treating as non-matching",
				zap.String("rule_id", string(rule.RuleID)),
				zap.String("rule_name", rule.Name),
				zap.Error(err))
			node = nil
		}
		compiled = append(compiled, compiledRule{rule: rule, node: node})
	}

	e.cached = compiled
	e.fetchedAt = time.Now()
	return e.cached, nil
}

// ActiveRules returns the active rule set in ascending priority order,
// backed by the same TTL snapshot EvaluateRules uses.
func (e *Engine) ActiveRules(ctx context.Context) ([]types.Rule, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]types.Rule, 0, len(snap))
	for _, c := range snap {
		rules = append(rules, c.rule)
	}
	return rules, nil
}

// ClearCache drops the rule snapshot. Admin tooling calls this after any
// rule mutation; without it, staleness is bounded by the TTL.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cached = nil
	e.fetchedAt = time.Time{}
}

// EvaluateRules evaluates every active rule against the profile and returns
// one match record per rule, in ascending priority order. A rule whose
// condition tree could not be parsed (logged once at snapshot time) is
// treated as non-matching; the remaining rules evaluate unaffected.
// Non-matching rules carry empty actions.
func (e *Engine) EvaluateRules(ctx context.Context, profile types.Profile) ([]types.RuleMatch, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sanitized := profile.Sanitize()

	matches := make([]types.RuleMatch, 0, len(snap))
	for _, c := range snap {
		match := types.RuleMatch{
			RuleID:   c.rule.RuleID,
			RuleName: c.rule.Name,
			Priority: c.rule.Priority,
		}
		if c.node != nil && e.eval.Evaluate(c.node, sanitized) {
			match.Matched = true
			match.Actions = c.rule.Actions
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// SelectQuestions applies all matching rules to a base question set and
// returns the resulting selection. base defaults to the full static catalog
// when nil.
//
// Rules apply sequentially in ascending priority order with plain set
// semantics: exclusions remove, additions append if absent, and a later rule
// can undo an earlier one. Removing an absent id or adding a present one is
// a silent no-op. include_questions never mutate the set; they are variation
// hints consumed downstream.
func (e *Engine) SelectQuestions(ctx context.Context, profile types.Profile, base []string) (types.SelectionSummary, error) {
	matches, err := e.EvaluateRules(ctx, profile)
	if err != nil {
		return types.SelectionSummary{}, err
	}

	if base == nil {
		base = e.lookup.AllQuestionIDs()
	}

	// selected records every id that was ever part of the set, in first-seen
	// order; member tracks current membership. Keeping the two apart lets a
	// later rule re-add an excluded id without duplicating its slot.
	selected := make([]string, 0, len(base))
	member := make(map[string]bool, len(base))
	listed := make(map[string]bool, len(base))
	for _, id := range base {
		if listed[id] {
			continue
		}
		listed[id] = true
		member[id] = true
		selected = append(selected, id)
	}

	summary := types.SelectionSummary{
		Excluded:    []string{},
		Added:       []string{},
		ProfileHash: HashProfile(profile),
	}

	for _, match := range matches {
		if !match.Matched {
			continue
		}
		summary.AppliedRules = append(summary.AppliedRules, match)

		for _, id := range match.Actions.ExcludeQuestions {
			if !member[id] {
				continue
			}
			member[id] = false
			summary.Excluded = append(summary.Excluded, id)
		}

		for _, id := range match.Actions.AddQuestions {
			// Ids unknown to the catalog are rejected at validation time
			// and silently skipped here.
			if member[id] || !e.lookup.HasQuestion(id) {
				continue
			}
			member[id] = true
			if !listed[id] {
				listed[id] = true
				selected = append(selected, id)
			}
			summary.Added = append(summary.Added, id)
		}
	}

	summary.Selected = make([]string, 0, len(selected))
	for _, id := range selected {
		if member[id] {
			summary.Selected = append(summary.Selected, id)
		}
	}
	return summary, nil
}

// HashProfile returns a deterministic digest of the allow-listed profile
// fields, suitable for cache keys and audit trails. Fields are sorted and
// rendered with explicit separators so distinct profiles cannot collide on
// concatenation.
func HashProfile(profile types.Profile) string {
	sanitized := profile.Sanitize()

	fields := make([]string, 0, len(sanitized))
	for field := range sanitized {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	h := sha256.New()
	for _, field := range fields {
		fmt.Fprintf(h, "%s=%v;", field, sanitized[field])
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
