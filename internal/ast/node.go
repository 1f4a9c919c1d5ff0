package ast

import "fmt"

// Span is a position in source text. Line and Column are 1-based; a zero
// Line means the node carries no position of its own.
type Span struct {
	File   string
	Line   int
	Column int
}

func (s Span) IsZero() bool { return s.Line == 0 }

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// ErrorRecord describes a syntax error recovered by the parser.
type ErrorRecord struct {
	Span    Span
	Message string
}

func (e ErrorRecord) String() string {
	return e.Span.String() + ": " + e.Message
}

// Node is one AST node. The meaning of Name, Value and the child positions
// depends on Kind; use the accessors below instead of indexing Children.
type Node struct {
	Kind     Kind
	Name     string
	Value    any
	Op       Operator
	Children []*Node
	Span     Span

	record          *ErrorRecord
	parent          *Node
	hasErrorChild   bool
	subTreeHasError bool
}

func NewNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	n.Add(children...)
	return n
}

// Add appends children and links their parent. Nil children are kept as
// positional placeholders (e.g. a function without return type).
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			n.Children = append(n.Children, nil)
			continue
		}
		c.parent = n
		n.Children = append(n.Children, c)
		if c.Kind == KindError || c.record != nil {
			n.hasErrorChild = true
			n.propagateSubTreeError()
		} else if c.subTreeHasError {
			n.propagateSubTreeError()
		}
	}
	return n
}

func (n *Node) Parent() *Node { return n.parent }

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// SourceSpan returns the node's span, inherited from the first descendant
// that has one.
func (n *Node) SourceSpan() Span {
	if n == nil {
		return Span{}
	}
	if !n.Span.IsZero() {
		return n.Span
	}
	for _, c := range n.Children {
		if s := c.SourceSpan(); !s.IsZero() {
			return s
		}
	}
	return Span{}
}

// MarkError attaches a recovered parse error to n.
func (n *Node) MarkError(rec ErrorRecord) {
	n.record = &rec
	if n.parent != nil {
		n.parent.hasErrorChild = true
		n.parent.propagateSubTreeError()
	}
}

func (n *Node) propagateSubTreeError() {
	for p := n; p != nil && !p.subTreeHasError; p = p.parent {
		p.subTreeHasError = true
	}
}

func (n *Node) ErrorRecord() *ErrorRecord { return n.record }
func (n *Node) HasErrorChild() bool       { return n.hasErrorChild }
func (n *Node) SubTreeHasError() bool     { return n.subTreeHasError }

// HasErrors reports whether analysis of n must be skipped.
func (n *Node) HasErrors() bool {
	return n == nil || n.Kind == KindError || n.record != nil || n.hasErrorChild
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Name != "" {
		return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
	}
	if n.Value != nil {
		return fmt.Sprintf("%s(%v)", n.Kind, n.Value)
	}
	return n.Kind.String()
}

// Walk visits n and its descendants depth-first, stopping a branch when fn
// returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
