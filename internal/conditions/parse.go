package conditions

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

/*
 * Condition tree parsing.
 *
 * Converts the nested JSON wire format into a typed Node tree, validating
 * structure once at parse time:
 *   - "and"/"or" keys must hold lists of sub-trees
 *   - "not" must hold a single sub-tree
 *   - any other key is a field name mapping to {operator: value} pairs
 *   - unknown operators fail the parse (never a silent runtime false)
 *   - nesting beyond MaxConditionDepth fails the parse
 *
 * Logical-key precedence: when a tree mixes a logical key with field keys,
 * "and" wins over "or" wins over "not" and the remaining keys are ignored,
 * matching the established wire semantics admin tooling depends on.
 *
 * Determinism: a tree with several field keys becomes an And node whose
 * children are ordered by sorted field name, so identical JSON always yields
 * an identical tree regardless of map iteration order.
 */

// Parse converts a raw JSON condition tree into a typed Node.
// Returns ErrMalformedCondition for structural problems, ErrUnknownOperator
// for unrecognized operators, and ErrConditionTooDeep past the depth limit.
func Parse(raw json.RawMessage) (*Node, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty conditions", types.ErrMalformedCondition)
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedCondition, err)
	}

	return parseTree(tree, 1)
}

// parseTree recursively converts one JSON object into a Node.
func parseTree(tree map[string]any, depth int) (*Node, error) {
	if depth > types.MaxConditionDepth {
		return nil, types.ErrConditionTooDeep
	}

	if sub, ok := tree["and"]; ok {
		children, err := parseList(sub, "and", depth)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindAnd, Children: children}, nil
	}

	if sub, ok := tree["or"]; ok {
		children, err := parseList(sub, "or", depth)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindOr, Children: children}, nil
	}

	if sub, ok := tree["not"]; ok {
		inner, ok := sub.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: 'not' must contain an object", types.ErrMalformedCondition)
		}
		child, err := parseTree(inner, depth+1)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindNot, Child: child}, nil
	}

	// Field conditions: every remaining key names a profile field.
	// Sorted key order keeps the tree shape deterministic.
	fields := make([]string, 0, len(tree))
	for field := range tree {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	nodes := make([]Node, 0, len(fields))
	for _, field := range fields {
		checks, err := parseChecks(field, tree[field])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{Kind: KindField, Field: field, Checks: checks})
	}

	if len(nodes) == 1 {
		return &nodes[0], nil
	}
	return &Node{Kind: KindAnd, Children: nodes}, nil
}

// parseList converts the payload of an and/or key into child nodes.
func parseList(sub any, key string, depth int) ([]Node, error) {
	list, ok := sub.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' must contain a list", types.ErrMalformedCondition, key)
	}

	children := make([]Node, 0, len(list))
	for i, elem := range list {
		inner, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' element %d must be an object", types.ErrMalformedCondition, key, i)
		}
		child, err := parseTree(inner, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, *child)
	}
	return children, nil
}

// parseChecks converts one field's {operator: value} object into Checks,
// ordered by sorted operator name for determinism.
func parseChecks(field string, sub any) ([]Check, error) {
	pairs, ok := sub.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: condition for field %q must be an object", types.ErrMalformedCondition, field)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: condition for field %q has no operators", types.ErrMalformedCondition, field)
	}

	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make([]Check, 0, len(names))
	for _, name := range names {
		op, err := ParseOperator(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q on field %q", types.ErrUnknownOperator, name, field)
		}
		checks = append(checks, Check{Operator: op, Value: pairs[name]})
	}
	return checks, nil
}
