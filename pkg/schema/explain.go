package schema

// ExplainNode is one node of an execution-plan tree. The tree shape and
// which statistics are populated depend on the engine: cost and row
// estimates where the planner reports them, actual figures only when the
// plan was gathered with analyze and the engine supports it.
type ExplainNode struct {
	Type       string         `json:"type"`                  // operator name, e.g. "Seq Scan", "SCAN", "Nested Loop"
	Label      string         `json:"label,omitempty"`       // relation, index, or condition text
	Cost       *float64       `json:"cost,omitempty"`
	Rows       *float64       `json:"rows,omitempty"`
	ActualTime *float64       `json:"actual_time,omitempty"`
	ActualRows *float64       `json:"actual_rows,omitempty"`
	Children   []*ExplainNode `json:"children,omitempty"`
}

// Walk calls fn for the node and every descendant, depth first. fn
// receives the node and its depth relative to the receiver.
func (n *ExplainNode) Walk(fn func(node *ExplainNode, depth int)) {
	n.walk(fn, 0)
}

func (n *ExplainNode) walk(fn func(*ExplainNode, int), depth int) {
	if n == nil {
		return
	}
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// FloatRef is a convenience for building plan nodes from parsed values.
func FloatRef(f float64) *float64 { return &f }
