package htmlchunk

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// PositionAttr is the attribute carrying an element's path in the source
// tree. It correlates copies of the same element across chunks.
const PositionAttr = "mpa"

type frame struct {
	node  *html.Node
	child *html.Node
	index int
}

// Cursor walks a tree depth first, one level at a time. The frame stack is
// the path from the root to the current node. Elements are assigned their
// position the first time Current returns them; positions are kept in a side
// table and only written as attributes on copies made by the cursor.
type Cursor struct {
	frames    []frame
	positions map[*html.Node]string
}

// NewCursor returns a cursor positioned on the first child of root.
func NewCursor(root *html.Node) (*Cursor, error) {
	if root == nil {
		return nil, misuse(ErrEmptyPath)
	}
	return &Cursor{
		frames:    []frame{{node: root, child: root.FirstChild}},
		positions: make(map[*html.Node]string),
	}, nil
}

// Current returns the node at the cursor, or nil when the current level is
// exhausted.
func (c *Cursor) Current() *html.Node {
	if len(c.frames) == 0 {
		return nil
	}
	n := c.frames[len(c.frames)-1].child
	if n != nil && n.Type == html.ElementNode {
		c.visit(n)
	}
	return n
}

func (c *Cursor) visit(n *html.Node) {
	if _, ok := c.positions[n]; ok {
		return
	}
	if v, ok := positionAttr(n); ok {
		c.positions[n] = v
		return
	}
	c.positions[n] = c.pathString()
}

// Next moves to the following sibling. It does not check bounds.
func (c *Cursor) Next() {
	if len(c.frames) == 0 {
		return
	}
	top := &c.frames[len(c.frames)-1]
	top.index++
	if top.child != nil {
		top.child = top.child.NextSibling
	}
}

// Descend moves to the first child of the current node.
func (c *Cursor) Descend() error {
	n := c.Current()
	if n == nil || n.FirstChild == nil {
		return misuse(ErrDescendLeaf)
	}
	c.frames = append(c.frames, frame{node: n, child: n.FirstChild})
	return nil
}

// Ascend moves back to the parent level, leaving the cursor on the node it
// descended from.
func (c *Cursor) Ascend() error {
	if len(c.frames) <= 1 {
		return misuse(ErrAscendRoot)
	}
	c.frames = c.frames[:len(c.frames)-1]
	return nil
}

// Valid reports whether the cursor still has a frame.
func (c *Cursor) Valid() bool {
	return len(c.frames) > 0
}

// HasMoreLeafs reports whether the current level has a node at the cursor.
func (c *Cursor) HasMoreLeafs() bool {
	return len(c.frames) > 0 && c.frames[len(c.frames)-1].child != nil
}

// Depth is the number of frames, the root frame included.
func (c *Cursor) Depth() int {
	return len(c.frames)
}

// Path returns the child indexes from the root to the current node.
func (c *Cursor) Path() []int {
	path := make([]int, len(c.frames))
	for i, f := range c.frames {
		path[i] = f.index
	}
	return path
}

func (c *Cursor) pathString() string {
	var b strings.Builder
	for i, f := range c.frames {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(f.index))
	}
	return b.String()
}

// Position returns the position recorded for n, if the cursor visited it.
func (c *Cursor) Position(n *html.Node) (string, bool) {
	v, ok := c.positions[n]
	return v, ok
}

// Ancestors returns the nodes the cursor descended into, outermost first.
func (c *Cursor) Ancestors() []*html.Node {
	out := make([]*html.Node, 0, len(c.frames)-1)
	for _, f := range c.frames[1:] {
		out = append(out, f.node)
	}
	return out
}

// Copy returns a detached copy of n without children. Visited elements get
// exactly one PositionAttr, appended after their own attributes.
func (c *Cursor) Copy(n *html.Node) *html.Node {
	cp := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if n.Type != html.ElementNode {
		return cp
	}
	pos, tagged := c.positions[n]
	cp.Attr = make([]html.Attribute, 0, len(n.Attr)+1)
	for _, a := range n.Attr {
		if tagged && isPositionAttr(a) {
			continue
		}
		cp.Attr = append(cp.Attr, a)
	}
	if tagged {
		cp.Attr = append(cp.Attr, html.Attribute{Key: PositionAttr, Val: pos})
	}
	return cp
}

// DeepCopy is Copy applied to n and all its descendants.
func (c *Cursor) DeepCopy(n *html.Node) *html.Node {
	cp := c.Copy(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		cp.AppendChild(c.DeepCopy(child))
	}
	return cp
}

func isPositionAttr(a html.Attribute) bool {
	return a.Namespace == "" && a.Key == PositionAttr
}

func positionAttr(n *html.Node) (string, bool) {
	for _, a := range n.Attr {
		if isPositionAttr(a) {
			return a.Val, true
		}
	}
	return "", false
}
