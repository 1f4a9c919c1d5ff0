package taskgraph

import (
	"fmt"
	"sort"
)

// EdgeType is the kind of dependency between two tasks.
type EdgeType int

const (
	// Sequence: the target starts after the source is done.
	Sequence EdgeType = iota
	// SubtaskMandatory: the target is a mandatory subtask of the source.
	SubtaskMandatory
	// SubtaskOptional: the target is an optional subtask of the source.
	SubtaskOptional
	// ConditionalCorrect: the target follows a correct answer to the source.
	ConditionalCorrect
	// ConditionalFalse: the target follows a wrong answer to the source.
	ConditionalFalse
	// SequenceAnd: the target waits for all of its sources.
	SequenceAnd
	// SequenceOr: the target waits for any of its sources.
	SequenceOr
)

var edgeTypeNames = [...]string{
	Sequence:           "seq",
	SubtaskMandatory:   "st_m",
	SubtaskOptional:    "st_o",
	ConditionalCorrect: "c_c",
	ConditionalFalse:   "c_f",
	SequenceAnd:        "seq_and",
	SequenceOr:         "seq_or",
}

// EdgeTypeNames lists the textual edge types in declaration order.
func EdgeTypeNames() []string {
	return append([]string(nil), edgeTypeNames[:]...)
}

func (t EdgeType) String() string {
	if t >= 0 && int(t) < len(edgeTypeNames) {
		return edgeTypeNames[t]
	}
	return fmt.Sprintf("EdgeType(%d)", int(t))
}

// ParseEdgeType is the inverse of EdgeType.String.
func ParseEdgeType(s string) (EdgeType, error) {
	for i, name := range edgeTypeNames {
		if name == s {
			return EdgeType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dependency type %q", s)
}

func (t EdgeType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// Node is one task of a graph.
type Node struct {
	Name string `yaml:"name"`
	Task any    `yaml:"-"`
}

type Edge struct {
	From string   `yaml:"from"`
	To   string   `yaml:"to"`
	Type EdgeType `yaml:"type"`
}

// Graph is a directed task dependency graph. Nodes and edges keep
// insertion order.
type Graph struct {
	Name  string  `yaml:"name"`
	nodes []*Node
	index map[string]*Node
	edges []Edge
}

func New(name string) *Graph {
	return &Graph{Name: name, index: make(map[string]*Node)}
}

// AddNode adds a task; adding a known name again keeps the first task.
func (g *Graph) AddNode(name string, task any) *Node {
	if n, ok := g.index[name]; ok {
		return n
	}
	n := &Node{Name: name, Task: task}
	g.index[name] = n
	g.nodes = append(g.nodes, n)
	return n
}

// AddEdge adds a dependency between two known tasks. Duplicate edges are
// ignored.
func (g *Graph) AddEdge(from, to string, t EdgeType) error {
	if _, ok := g.index[from]; !ok {
		return fmt.Errorf("graph %s: unknown task %q", g.Name, from)
	}
	if _, ok := g.index[to]; !ok {
		return fmt.Errorf("graph %s: unknown task %q", g.Name, to)
	}
	if from == to {
		return fmt.Errorf("graph %s: task %q depends on itself", g.Name, from)
	}
	e := Edge{From: from, To: to, Type: t}
	for _, existing := range g.edges {
		if existing == e {
			return nil
		}
	}
	g.edges = append(g.edges, e)
	return nil
}

func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.index[name]
	return n, ok
}

func (g *Graph) Nodes() []*Node { return g.nodes }
func (g *Graph) Edges() []Edge  { return g.edges }

// Successors returns the edges leaving name.
func (g *Graph) Successors(name string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == name {
			out = append(out, e)
		}
	}
	return out
}

// Predecessors returns the edges entering name.
func (g *Graph) Predecessors(name string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.To == name {
			out = append(out, e)
		}
	}
	return out
}

// Roots returns the tasks without predecessors, in insertion order.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if len(g.Predecessors(n.Name)) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// TopologicalOrder returns the task names so that every task follows its
// predecessors. Ties keep insertion order. A cycle is an error.
func (g *Graph) TopologicalOrder() ([]string, error) {
	position := make(map[string]int, len(g.nodes))
	inDegree := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		position[n.Name] = i
		inDegree[n.Name] = 0
	}
	for _, e := range g.edges {
		inDegree[e.To]++
	}

	var ready []string
	for _, n := range g.nodes {
		if inDegree[n.Name] == 0 {
			ready = append(ready, n.Name)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, e := range g.Successors(name) {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				ready = append(ready, e.To)
				sort.SliceStable(ready, func(i, j int) bool {
					return position[ready[i]] < position[ready[j]]
				})
			}
		}
	}
	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("graph %s contains a cycle", g.Name)
	}
	return order, nil
}

// MarshalYAML renders the graph as names and edges; tasks are omitted.
func (g *Graph) MarshalYAML() (any, error) {
	type graphDoc struct {
		Name  string  `yaml:"name"`
		Nodes []*Node `yaml:"nodes"`
		Edges []Edge  `yaml:"edges,omitempty"`
	}
	return graphDoc{Name: g.Name, Nodes: g.nodes, Edges: g.edges}, nil
}
