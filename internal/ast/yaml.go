package ast

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parser turns source text into a tree. Recovered syntax errors are
// attached to the tree as Error nodes and also returned as records.
type Parser interface {
	Parse(path string, src []byte) (*Node, []ErrorRecord)
}

// YAMLParser decodes the YAML serialisation of a tree produced by the
// external front end:
//
//	kind: ObjectDefinition
//	line: 3
//	children:
//	  - {kind: Identifier, name: quest_config}
//	  - {kind: Identifier, name: my_quest}
//	  - kind: PropertyDefinitionList
//	    children: [...]
type YAMLParser struct{}

type yamlNode struct {
	Kind     string      `yaml:"kind"`
	Name     string      `yaml:"name,omitempty"`
	Value    any         `yaml:"value,omitempty"`
	Op       string      `yaml:"op,omitempty"`
	Decl     string      `yaml:"decl,omitempty"`
	Line     int         `yaml:"line,omitempty"`
	Column   int         `yaml:"column,omitempty"`
	Error    string      `yaml:"error,omitempty"`
	Children []*yamlNode `yaml:"children,omitempty"`
}

func (YAMLParser) Parse(path string, src []byte) (*Node, []ErrorRecord) {
	var doc yamlNode
	if err := yaml.Unmarshal(src, &doc); err != nil {
		rec := ErrorRecord{Span: Span{File: path, Line: 1, Column: 1}, Message: err.Error()}
		root := NewNode(KindProgram)
		errNode := &Node{Kind: KindError, Span: rec.Span}
		errNode.record = &rec
		root.Add(errNode)
		return root, []ErrorRecord{rec}
	}
	d := &decoder{path: path}
	root := d.decode(&doc)
	if root.Kind != KindProgram {
		rec := ErrorRecord{Span: Span{File: path, Line: 1, Column: 1}, Message: fmt.Sprintf("root node must be Program, got %s", root.Kind)}
		wrapped := NewNode(KindProgram)
		root.MarkError(rec)
		wrapped.Add(root)
		d.errors = append(d.errors, rec)
		return wrapped, d.errors
	}
	return root, d.errors
}

type decoder struct {
	path   string
	errors []ErrorRecord
}

func (d *decoder) fail(n *Node, format string, args ...any) {
	rec := ErrorRecord{Span: n.Span, Message: fmt.Sprintf(format, args...)}
	if rec.Span.IsZero() {
		rec.Span = Span{File: d.path}
	}
	n.record = &rec
	d.errors = append(d.errors, rec)
}

func (d *decoder) decode(y *yamlNode) *Node {
	if y == nil {
		return nil
	}
	n := &Node{Name: y.Name}
	if y.Line > 0 {
		n.Span = Span{File: d.path, Line: y.Line, Column: y.Column}
	}

	kind, ok := KindFromString(y.Kind)
	if !ok {
		n.Kind = KindError
		d.fail(n, "unknown node kind %q", y.Kind)
		return n
	}
	n.Kind = kind

	for _, c := range y.Children {
		n.Add(d.decode(c))
	}

	if y.Error != "" {
		d.fail(n, "%s", y.Error)
	}
	if y.Op != "" {
		op, ok := OperatorFromString(y.Op)
		if !ok {
			d.fail(n, "unknown operator %q", y.Op)
		}
		n.Op = op
	}
	d.decodeValue(n, y)

	switch kind {
	case KindListTypeIdentifier:
		if n.Name == "" && n.Child(0) != nil {
			n.Name = ListTypeName(n.Child(0).Name)
		}
	case KindSetTypeIdentifier:
		if n.Name == "" && n.Child(0) != nil {
			n.Name = SetTypeName(n.Child(0).Name)
		}
	case KindMapTypeIdentifier:
		if n.Name == "" && n.Child(0) != nil && n.Child(1) != nil {
			n.Name = MapTypeName(n.Child(0).Name, n.Child(1).Name)
		}
	}
	return n
}

func (d *decoder) decodeValue(n *Node, y *yamlNode) {
	switch n.Kind {
	case KindNumber:
		switch v := y.Value.(type) {
		case int:
			n.Value = int64(v)
		case int64:
			n.Value = v
		default:
			d.fail(n, "Number needs an integer value, got %T", y.Value)
		}
	case KindDecimalNumber:
		switch v := y.Value.(type) {
		case float64:
			n.Value = v
		case int:
			n.Value = float64(v)
		default:
			d.fail(n, "DecimalNumber needs a numeric value, got %T", y.Value)
		}
	case KindStringLiteral:
		if s, ok := y.Value.(string); ok {
			n.Value = s
		} else if y.Value == nil {
			n.Value = ""
		} else {
			n.Value = fmt.Sprint(y.Value)
		}
	case KindBool:
		b, ok := y.Value.(bool)
		if !ok {
			d.fail(n, "Bool needs a boolean value, got %T", y.Value)
		}
		n.Value = b
	case KindVarDeclaration:
		switch y.Decl {
		case "", "inferred":
			n.Value = DeclInferred
		case "typed":
			n.Value = DeclTyped
		default:
			d.fail(n, "unknown declaration kind %q", y.Decl)
		}
	}
}

// Encode serialises a tree into the format YAMLParser reads.
func Encode(n *Node) ([]byte, error) {
	return yaml.Marshal(encodeNode(n))
}

func encodeNode(n *Node) *yamlNode {
	if n == nil {
		return nil
	}
	y := &yamlNode{Kind: n.Kind.String(), Name: n.Name, Line: n.Span.Line, Column: n.Span.Column}
	switch n.Kind {
	case KindNumber, KindDecimalNumber, KindStringLiteral, KindBool:
		y.Value = n.Value
	case KindVarDeclaration:
		if n.DeclKind() == DeclTyped {
			y.Decl = "typed"
		}
	}
	if n.Op != OpNone {
		y.Op = n.Op.String()
	}
	if n.record != nil {
		y.Error = n.record.Message
	}
	for _, c := range n.Children {
		y.Children = append(y.Children, encodeNode(c))
	}
	return y
}
