package html

import (
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Document struct {
	Root    *Node
	Scripts []string // JavaScript from <script> tags, in document order
	Quirks  bool     // document renders in quirks mode (missing or legacy doctype)
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Scripts: make([]string, 0),
	}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// IsElement reports whether n is an element with one of the given tag names.
func (n *Node) IsElement(tags ...string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	for _, tag := range tags {
		if n.TagName == tag {
			return true
		}
	}
	return false
}

// ChildElements returns the element children of n, skipping text.
func (n *Node) ChildElements() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	var sb strings.Builder
	collectText(&sb, n)
	return sb.String()
}

func collectText(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		collectText(sb, c)
	}
}

// FindAll returns every descendant element with the given tag, in document
// order. Matches nested inside a match are included.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.IsElement(tag) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindOutermost returns descendant elements with the given tag that are not
// themselves inside another element with that tag.
func (n *Node) FindOutermost(tag string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.IsElement(tag) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}
