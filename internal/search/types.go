package search

import "strings"

// Node is an element of a parsed boolean query.
type Node interface {
	String() string
}

// TermNode matches documents containing Text in Field. An empty Field means the default field.
// Prefix nodes match every indexed term starting with Text.
type TermNode struct {
	Field  string
	Text   string
	Prefix bool
	Phrase bool // quoted; every token must occur, positions are not checked
}

func (n *TermNode) String() string {
	var sb strings.Builder
	if n.Field != "" {
		sb.WriteString(n.Field)
		sb.WriteByte(':')
	}
	switch {
	case n.Phrase:
		sb.WriteString(`"` + n.Text + `"`)
	case n.Prefix:
		sb.WriteString(n.Text + "*")
	default:
		sb.WriteString(n.Text)
	}
	return sb.String()
}

// AndNode matches documents matched by every child and by none of Exclude.
// Without children it matches nothing.
type AndNode struct {
	Children []Node
	Exclude  []Node
}

func (n *AndNode) String() string {
	parts := make([]string, 0, len(n.Children)+len(n.Exclude))
	for _, c := range n.Children {
		parts = append(parts, c.String())
	}
	for _, x := range n.Exclude {
		parts = append(parts, "NOT "+x.String())
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// OrNode matches documents matched by at least one child and by none of Exclude.
// Without children it matches nothing.
type OrNode struct {
	Children []Node
	Exclude  []Node
}

func (n *OrNode) String() string {
	if len(n.Exclude) == 0 {
		return "(" + joinNodes(n.Children, " OR ") + ")"
	}
	parts := make([]string, 0, 1+len(n.Exclude))
	switch len(n.Children) {
	case 0:
	case 1:
		parts = append(parts, n.Children[0].String())
	default:
		parts = append(parts, "("+joinNodes(n.Children, " OR ")+")")
	}
	for _, x := range n.Exclude {
		parts = append(parts, "NOT "+x.String())
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// NotNode is a prohibited clause. Parse folds it into the Exclude list of the
// enclosing group; on its own it matches nothing.
type NotNode struct {
	Child Node
}

func (n *NotNode) String() string {
	return "NOT " + n.Child.String()
}

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

// Query is a parsed boolean query.
type Query struct {
	Raw  string
	Root Node
}
