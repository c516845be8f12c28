package conditions

import (
	"go.uber.org/zap"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

/*
 * Condition tree evaluation.
 *
 * Evaluates a typed Node against a profile snapshot with standard
 * short-circuit semantics. Evaluation is a pure function of the tree and the
 * profile; the only side effect is a warning log on degraded comparisons.
 *
 * Fail-closed design:
 *   - An empty And (or Or) node is false - no vacuous matches
 *   - A missing profile field is false, never an error
 *   - An incomparable operand pair is false and logged
 *   - A tree deeper than MaxConditionDepth stops evaluating and is false
 *
 * The depth guard repeats here even though Parse enforces the same limit,
 * because trees can also be constructed programmatically in tests and
 * internal callers.
 */

// Evaluator evaluates condition trees against demographic profiles.
type Evaluator struct {
	log *zap.Logger
}

// NewEvaluator creates an evaluator. A nil logger falls back to a no-op.
func NewEvaluator(log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{log: log}
}

// Evaluate reports whether the profile satisfies the condition tree.
// Nil trees are false.
func (e *Evaluator) Evaluate(node *Node, profile types.Profile) bool {
	return e.evaluate(node, profile, 1)
}

func (e *Evaluator) evaluate(node *Node, profile types.Profile, depth int) bool {
	if node == nil {
		return false
	}
	if depth > types.MaxConditionDepth {
		e.log.Warn("condition tree exceeds maximum depth, treated as non-matching",
			zap.Int("max_depth", types.MaxConditionDepth))
		return false
	}

	switch node.Kind {
	case KindAnd:
		if len(node.Children) == 0 {
			return false
		}
		for i := range node.Children {
			if !e.evaluate(&node.Children[i], profile, depth+1) {
				return false
			}
		}
		return true

	case KindOr:
		for i := range node.Children {
			if e.evaluate(&node.Children[i], profile, depth+1) {
				return true
			}
		}
		return false

	case KindNot:
		return !e.evaluate(node.Child, profile, depth+1)

	case KindField:
		return e.evaluateField(node, profile)

	default:
		return false
	}
}

// evaluateField checks every operator pair on one field (implicit AND).
// A field absent from the profile never matches.
func (e *Evaluator) evaluateField(node *Node, profile types.Profile) bool {
	value, ok := profile[node.Field]
	if !ok {
		return false
	}

	for _, check := range node.Checks {
		matched, comparable := Compare(check.Operator, value, check.Value)
		if !comparable {
			e.log.Warn("incomparable condition operands, treated as non-matching",
				zap.String("field", node.Field),
				zap.String("operator", check.Operator.String()))
			return false
		}
		if !matched {
			return false
		}
	}
	return true
}
