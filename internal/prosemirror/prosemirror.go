// Package prosemirror converts editor documents stored as ProseMirror JSON
// into HTML trees that can be split into chunks.
package prosemirror

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chunker/api/internal/htmlchunk"
)

// Node represents a node in the ProseMirror document tree
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark represents a text mark (formatting)
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Parse decodes a ProseMirror document.
func Parse(raw json.RawMessage) (Node, error) {
	var doc Node
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Node{}, fmt.Errorf("decode prosemirror document: %w", err)
	}
	if doc.Type == "" {
		return Node{}, fmt.Errorf("decode prosemirror document: missing node type")
	}
	return doc, nil
}

// ToTree builds an HTML fragment for doc under a document node.
func ToTree(doc Node) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	appendNode(root, doc)
	return root
}

// ToHTML renders doc as HTML.
func ToHTML(doc Node) string {
	return htmlchunk.RenderChildren(ToTree(doc))
}

var blockTags = map[string]string{
	"paragraph":   "p",
	"bulletList":  "ul",
	"orderedList": "ol",
	"listItem":    "li",
	"blockquote":  "blockquote",
	"table":       "table",
	"tableRow":    "tr",
	"tableCell":   "td",
	"tableHeader": "th",
}

func appendNode(parent *html.Node, node Node) {
	if tag, ok := blockTags[node.Type]; ok {
		appendContent(appendElement(parent, tag), node.Content)
		return
	}

	switch node.Type {
	case "heading":
		level := 1
		if lvl, ok := node.Attrs["level"].(float64); ok && lvl >= 1 && lvl <= 6 {
			level = int(lvl)
		}
		appendContent(appendElement(parent, "h"+strconv.Itoa(level)), node.Content)
	case "codeBlock":
		code := appendElement(appendElement(parent, "pre"), "code")
		for _, child := range node.Content {
			code.AppendChild(&html.Node{Type: html.TextNode, Data: child.Text})
		}
	case "text":
		appendText(parent, node.Text, node.Marks)
	case "hardBreak":
		appendElement(parent, "br")
	case "horizontalRule":
		appendElement(parent, "hr")
	case "image":
		img := appendElement(parent, "img")
		for _, key := range []string{"src", "alt", "title"} {
			if v, ok := node.Attrs[key].(string); ok && v != "" {
				img.Attr = append(img.Attr, html.Attribute{Key: key, Val: v})
			}
		}
	default:
		// "doc" and unknown node types contribute their content only.
		appendContent(parent, node.Content)
	}
}

func appendContent(parent *html.Node, content []Node) {
	for _, child := range content {
		appendNode(parent, child)
	}
}

// appendText wraps text in its marks, the first mark outermost.
func appendText(parent *html.Node, text string, marks []Mark) {
	if text == "" {
		return
	}
	for _, mark := range marks {
		var el *html.Node
		switch mark.Type {
		case "bold":
			el = appendElement(parent, "strong")
		case "italic":
			el = appendElement(parent, "em")
		case "code":
			el = appendElement(parent, "code")
		case "strike":
			el = appendElement(parent, "s")
		case "underline":
			el = appendElement(parent, "u")
		case "link":
			el = appendElement(parent, "a")
			if href, ok := mark.Attrs["href"].(string); ok {
				el.Attr = append(el.Attr, html.Attribute{Key: "href", Val: href})
			}
		default:
			continue
		}
		parent = el
	}
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func appendElement(parent *html.Node, tag string) *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	parent.AppendChild(el)
	return el
}
