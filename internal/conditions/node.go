// Package conditions implements the recursive boolean condition trees used by
// demographic rules and variation targeting.
package conditions

/*
 * Condition tree domain types.
 *
 * A condition tree is a tagged variant: And/Or combine child trees, Not
 * negates a single child, and Field applies one or more operator checks to a
 * named profile field. Trees arrive as nested JSON from the admin layer
 * ({"and": [...]}, {"or": [...]}, {"not": {...}}, {"field": {"op": value}})
 * and are parsed exactly once into this typed form before evaluation.
 *
 * Why a tagged variant: The wire format is stringly-typed and re-walking it
 * on every evaluation couples correctness to map iteration details. Parsing
 * up front gives an exhaustive switch over node kinds, makes unknown
 * operators a parse-time error, and enables the nesting depth guard.
 */

// Kind discriminates the variants of a condition Node.
type Kind int

const (
	KindAnd Kind = iota
	KindOr
	KindNot
	KindField
)

// Check is a single operator comparison on a field value.
// Multiple checks on one Field node are implicitly ANDed.
type Check struct {
	Operator Operator
	Value    any // expected comparison value ([]any for in/not_in)
}

// Node is one vertex of a condition tree.
// Children is populated for And/Or, Child for Not, Field+Checks for Field.
type Node struct {
	Kind     Kind
	Children []Node
	Child    *Node
	Field    string
	Checks   []Check
}

// Fields returns the distinct field names referenced anywhere in the tree,
// in first-seen order. Used for protected-field compliance warnings.
func Fields(node *Node) []string {
	var out []string
	seen := make(map[string]struct{})
	collectFields(node, seen, &out)
	return out
}

func collectFields(node *Node, seen map[string]struct{}, out *[]string) {
	if node == nil {
		return
	}
	switch node.Kind {
	case KindField:
		if _, ok := seen[node.Field]; !ok {
			seen[node.Field] = struct{}{}
			*out = append(*out, node.Field)
		}
	case KindNot:
		collectFields(node.Child, seen, out)
	default:
		for i := range node.Children {
			collectFields(&node.Children[i], seen, out)
		}
	}
}

// Depth returns the maximum nesting depth of the tree. A single Field node
// has depth 1.
func Depth(node *Node) int {
	if node == nil {
		return 0
	}
	max := 0
	switch node.Kind {
	case KindNot:
		max = Depth(node.Child)
	default:
		for i := range node.Children {
			if d := Depth(&node.Children[i]); d > max {
				max = d
			}
		}
	}
	return max + 1
}
