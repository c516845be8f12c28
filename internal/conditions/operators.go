package conditions

import (
	"strconv"
	"strings"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

/*
 * Operator comparison logic.
 *
 * Implements 11 comparison operators with type-aware comparison rules.
 * Profile values arrive as JSON-decoded scalars (string, float64, bool, int);
 * comparisons never panic on a type mismatch, they report false.
 *
 * Operators:
 *   - eq/ne: Equality with numeric tolerance (float64/int/int64 mixing)
 *   - gt/gte/lt/lte: Numeric when both sides coerce, lexical for two strings
 *   - in/not_in: Membership with equality semantics over a JSON list
 *   - contains/starts_with/ends_with: Substring checks over stringified values
 *
 * Membership edge case: in with a non-list expected value is false, not_in
 * with a non-list expected value is true. Asymmetric on purpose - a malformed
 * exclusion list should not suddenly exclude everyone.
 *
 * Why function-based: 11 operators via switch statement are cleaner than 11
 * interface implementations with minimal behavior variation.
 */

// Operator enumerates the supported field comparison operators.
type Operator int

const (
	OpUnspecified Operator = iota
	OpEq
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpNotIn
	OpContains
	OpStartsWith
	OpEndsWith
)

// operatorNames maps wire-format operator strings to enum values.
var operatorNames = map[string]Operator{
	"eq":          OpEq,
	"ne":          OpNe,
	"gt":          OpGt,
	"gte":         OpGte,
	"lt":          OpLt,
	"lte":         OpLte,
	"in":          OpIn,
	"not_in":      OpNotIn,
	"contains":    OpContains,
	"starts_with": OpStartsWith,
	"ends_with":   OpEndsWith,
}

// ParseOperator converts a wire-format operator string to its enum value.
// Unknown operators are a parse-time error, never a silent runtime false.
func ParseOperator(s string) (Operator, error) {
	op, ok := operatorNames[s]
	if !ok {
		return OpUnspecified, types.ErrUnknownOperator
	}
	return op, nil
}

// String returns the wire-format name of the operator.
func (op Operator) String() string {
	for name, v := range operatorNames {
		if v == op {
			return name
		}
	}
	return "unspecified"
}

// Compare applies the operator to a profile field value and an expected value.
// Returns (matched, ok); ok is false when the operand types make the
// comparison meaningless, which callers log and treat as non-matching.
func Compare(op Operator, value, expected any) (bool, bool) {
	switch op {
	case OpEq:
		return compareEqual(value, expected), true
	case OpNe:
		return !compareEqual(value, expected), true
	case OpGt:
		cmp, ok := compareOrdered(value, expected)
		return cmp > 0, ok
	case OpGte:
		cmp, ok := compareOrdered(value, expected)
		return cmp >= 0, ok
	case OpLt:
		cmp, ok := compareOrdered(value, expected)
		return cmp < 0, ok
	case OpLte:
		cmp, ok := compareOrdered(value, expected)
		return cmp <= 0, ok
	case OpIn:
		return compareIn(value, expected), true
	case OpNotIn:
		return compareNotIn(value, expected), true
	case OpContains:
		return strings.Contains(asString(value), asString(expected)), true
	case OpStartsWith:
		return strings.HasPrefix(asString(value), asString(expected)), true
	case OpEndsWith:
		return strings.HasSuffix(asString(value), asString(expected)), true
	default:
		return false, false
	}
}

// compareEqual performs equality comparison with numeric type coercion.
// Handles float64/int/int64 mixing from JSON unmarshaling.
func compareEqual(a, b any) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	return a == b
}

// compareOrdered performs three-way comparison (-1/0/1). Numeric when both
// sides coerce to numbers, lexical when both are strings; ok=false otherwise.
func compareOrdered(a, b any) (int, bool) {
	if na, nb, ok := asNumbers(a, b); ok {
		switch {
		case na < nb:
			return -1, true
		case na > nb:
			return 1, true
		default:
			return 0, true
		}
	}
	sa, oka := a.(string)
	sb, okb := b.(string)
	if oka && okb {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

// asNumbers attempts to convert both values to float64 for numeric comparison.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

// toFloat64 converts value to float64 if it's a numeric type.
// Handles float64, int, int64 from JSON unmarshaling and Go callers.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asString renders a scalar value for substring comparison.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		if s {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return ""
	}
}

// compareIn checks membership in a JSON list with equality semantics.
// Non-list expected values never match.
func compareIn(value, expected any) bool {
	arr, ok := expected.([]any)
	if !ok {
		return false
	}
	for _, elem := range arr {
		if compareEqual(value, elem) {
			return true
		}
	}
	return false
}

// compareNotIn is the negation of compareIn for well-formed lists.
// A non-list expected value matches everything (see package comment).
func compareNotIn(value, expected any) bool {
	arr, ok := expected.([]any)
	if !ok {
		return true
	}
	for _, elem := range arr {
		if compareEqual(value, elem) {
			return false
		}
	}
	return true
}
