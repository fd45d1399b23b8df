package mysql

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/seaquel-labs/sqlkit/pkg/schema"
)

// parseExplainJSON rebuilds the plan tree from an EXPLAIN FORMAT=JSON
// document. MySQL nests operators under well-known keys of the
// query_block object rather than a uniform children array, so the walk
// is key-driven.
func parseExplainJSON(doc string) (*schema.ExplainNode, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("parsing explain JSON: %w", err)
	}
	qb, ok := raw["query_block"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("explain JSON missing query_block")
	}
	root := convertBlock("query_block", qb)
	return root, nil
}

// Keys of a plan object that hold nested plan objects or arrays of them.
var nestedKeys = []string{
	"nested_loop",
	"ordering_operation",
	"grouping_operation",
	"duplicates_removal",
	"table",
	"materialized_from_subquery",
	"query_block",
	"union_result",
	"query_specifications",
	"attached_subqueries",
	"optimized_away_subqueries",
	"buffer_result",
	"windowing",
}

func convertBlock(name string, obj map[string]any) *schema.ExplainNode {
	node := &schema.ExplainNode{Type: name}

	if tn, ok := obj["table_name"].(string); ok {
		node.Label = tn
		if at, ok := obj["access_type"].(string); ok {
			node.Type = at
		}
		if key, ok := obj["key"].(string); ok && key != "" {
			node.Label = fmt.Sprintf("%s USING %s", tn, key)
		}
	}
	if ci, ok := obj["cost_info"].(map[string]any); ok {
		for _, key := range []string{"query_cost", "read_cost", "prefix_cost"} {
			if c := floatField(ci[key]); c != nil {
				node.Cost = c
				break
			}
		}
	}
	if r := floatField(obj["rows_examined_per_scan"]); r != nil {
		node.Rows = r
	} else if r := floatField(obj["rows_produced_per_join"]); r != nil {
		node.Rows = r
	}

	for _, key := range nestedKeys {
		switch v := obj[key].(type) {
		case map[string]any:
			node.Children = append(node.Children, convertBlock(key, v))
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					node.Children = append(node.Children, convertBlock(key, m))
				}
			}
		}
	}
	return node
}

// floatField coerces the JSON value into a float pointer. MySQL emits
// cost figures as strings.
func floatField(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return schema.FloatRef(x)
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%f", &f); err == nil {
			return schema.FloatRef(f)
		}
	}
	return nil
}

// treeLineRe matches one EXPLAIN ANALYZE line: indentation, the arrow
// marker and the operator description with optional cost/rows and
// actual annotations.
var (
	treeLineRe   = regexp.MustCompile(`^(\s*)->\s+(.*)$`)
	treeCostRe   = regexp.MustCompile(`\(cost=([0-9.]+)(?:\.\.[0-9.]+)?\s+rows=([0-9.eE+]+)\)`)
	treeActualRe = regexp.MustCompile(`\(actual time=([0-9.]+)\.\.([0-9.]+)\s+rows=([0-9.eE+]+)\s+loops=[0-9.]+\)`)
)

// parseTreeText rebuilds the plan tree from EXPLAIN ANALYZE output,
// where nesting is conveyed purely by indentation depth.
func parseTreeText(doc string) (*schema.ExplainNode, error) {
	type frame struct {
		indent int
		node   *schema.ExplainNode
	}

	var root *schema.ExplainNode
	var stack []frame

	for _, line := range strings.Split(doc, "\n") {
		m := treeLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent := len(m[1])
		node := parseTreeLine(m[2])

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			if root == nil {
				root = node
			} else {
				// Multiple top-level operators; keep the first as root.
				root.Children = append(root.Children, node)
			}
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, frame{indent: indent, node: node})
	}

	if root == nil {
		return nil, fmt.Errorf("no plan operators in explain output")
	}
	return root, nil
}

func parseTreeLine(text string) *schema.ExplainNode {
	node := &schema.ExplainNode{}

	if m := treeActualRe.FindStringSubmatch(text); m != nil {
		node.ActualTime = floatField(m[2])
		node.ActualRows = floatField(m[3])
	}
	if m := treeCostRe.FindStringSubmatch(text); m != nil {
		node.Cost = floatField(m[1])
		node.Rows = floatField(m[2])
	}

	// The operator description runs up to the first annotation group.
	desc := text
	if i := strings.Index(desc, "  (cost="); i >= 0 {
		desc = desc[:i]
	} else if i := strings.Index(desc, " (cost="); i >= 0 {
		desc = desc[:i]
	}
	if i := strings.Index(desc, " (actual time="); i >= 0 {
		desc = desc[:i]
	}
	desc = strings.TrimSpace(desc)

	if typ, label, found := strings.Cut(desc, " on "); found {
		node.Type = typ
		node.Label = label
	} else if typ, label, found := strings.Cut(desc, ": "); found {
		node.Type = typ
		node.Label = label
	} else {
		node.Type = desc
	}
	return node
}
