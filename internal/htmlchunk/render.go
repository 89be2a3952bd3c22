package htmlchunk

import (
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// html.Render emits XHTML-style void tags and escapes quotes in text, so a
// parse/render cycle through it does not reproduce the input. The serializer
// below follows the HTML fragment serialization algorithm instead.

var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true, "br": true,
	"col": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

var rawTextElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true, "noscript": true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "\u00a0", "&nbsp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "\u00a0", "&nbsp;", `"`, "&quot;")
)

// ParseFragment parses markup as the content of a <template> element, so
// table parts such as <tr> or <td> are kept at the top level. The parsed nodes
// are attached to a fresh document node, which is returned.
func ParseFragment(markup string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, errors.Wrap(err, "parse fragment")
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// Render serializes n including its own tag.
func Render(n *html.Node) string {
	var b strings.Builder
	renderNode(&b, n)
	return b.String()
}

// RenderChildren serializes the children of n. For a text node this is the
// empty string.
func RenderChildren(n *html.Node) string {
	var b strings.Builder
	renderChildren(&b, n)
	return b.String()
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		renderChildren(b, n)
	case html.TextNode:
		if n.Parent != nil && n.Parent.Type == html.ElementNode && n.Parent.Namespace == "" && rawTextElements[n.Parent.Data] {
			b.WriteString(n.Data)
			return
		}
		textEscaper.WriteString(b, n.Data)
	case html.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case html.DoctypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Data)
		b.WriteByte('>')
	case html.RawNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		renderElement(b, n)
	}
}

func renderElement(b *strings.Builder, n *html.Node) {
	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		attrEscaper.WriteString(b, a.Val)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if n.Namespace == "" && voidElements[n.Data] {
		return
	}
	// The parser drops one leading newline inside these elements.
	switch n.Data {
	case "pre", "textarea", "listing":
		if c := n.FirstChild; n.Namespace == "" && c != nil && c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n") {
			b.WriteByte('\n')
		}
	}
	renderChildren(b, n)
	b.WriteString("</")
	b.WriteString(n.Data)
	b.WriteByte('>')
}
