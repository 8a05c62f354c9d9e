package html

import "strings"

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

// rootTag names the synthetic node every Document hangs its tree from.
// It never matches a selector and never produces a layout box.
const rootTag = "document"

type Document struct {
	Root        *Node
	Stylesheets []string // CSS text from <style> tags, in document order
	Scripts     []string // inline <script> bodies, in document order
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  rootTag,
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// NewElement returns a detached element node.
func NewElement(tag string, attrs map[string]string) *Node {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: attrs,
		Children:   make([]*Node, 0),
	}
}

// IsRoot reports whether n is the synthetic document node.
func (n *Node) IsRoot() bool {
	return n.Type == ElementNode && n.TagName == rootTag && n.Parent == nil
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// ID returns the id attribute, or "" when there is none.
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// HasClass reports whether the whitespace separated class attribute
// contains cls.
func (n *Node) HasClass(cls string) bool {
	classes, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == cls {
			return true
		}
	}
	return false
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

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for ; other != nil; other = other.Parent {
		if other == n {
			return true
		}
	}
	return false
}

// IndexInParent returns the index of this node among its parent's children,
// or -1 if it has no parent.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// PreviousElementSibling returns the nearest preceding element sibling.
func (n *Node) PreviousElementSibling() *Node {
	idx := n.IndexInParent()
	for i := idx - 1; i >= 0; i-- {
		if sib := n.Parent.Children[i]; sib.Type == ElementNode {
			return sib
		}
	}
	return nil
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// TextContent concatenates the text of every descendant text node.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

// FindFirst returns the first element in document order with the given tag.
func (n *Node) FindFirst(tag string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Type == ElementNode && c.TagName == tag && !c.IsRoot() {
			found = c
			return false
		}
		return true
	})
	return found
}

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *Node {
	var found *Node
	d.Root.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Type == ElementNode && c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}
