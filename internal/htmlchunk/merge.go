package htmlchunk

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
)

// Merge reassembles chunks produced by Split. Chunks must be passed in the
// order Split emitted them; a missing or reordered chunk yields different
// markup without an error. PositionAttr is removed from the result.
func Merge(chunks []string) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}
	positions := make(map[*html.Node]string)
	trees := make([]*html.Node, 0, len(chunks))
	for i, chunk := range chunks {
		root, err := ParseFragment(chunk)
		if err != nil {
			return "", errors.Wrapf(err, "chunk %d", i)
		}
		liftPositions(root, positions)
		trees = append(trees, root)
	}

	merged := trees[0]
	for _, incoming := range trees[1:] {
		target, source := graftingPoint(merged, incoming, positions)
		transferChildren(target, source)
	}
	return RenderChildren(merged), nil
}

// liftPositions moves PositionAttr values of n and its descendants into the
// positions table.
func liftPositions(n *html.Node, positions map[*html.Node]string) {
	if n.Type == html.ElementNode {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if isPositionAttr(a) {
				positions[n] = a.Val
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		liftPositions(c, positions)
	}
}

// graftingPoint descends target and incoming in step while the first child
// of incoming has a position matching one of target's children, and returns
// the deepest pair reached.
//
// Only the first child of incoming is compared at each level. Consecutive
// chunks from Split share their ancestor chain, so the first child decides;
// arbitrary or interleaved chunk sets are not supported.
func graftingPoint(target, incoming *html.Node, positions map[*html.Node]string) (*html.Node, *html.Node) {
	first := incoming.FirstChild
	if first == nil {
		return target, incoming
	}
	pos, ok := positions[first]
	if !ok {
		return target, incoming
	}
	for c := target.FirstChild; c != nil; c = c.NextSibling {
		if p, ok := positions[c]; ok && p == pos {
			return graftingPoint(c, first, positions)
		}
	}
	return target, incoming
}

func transferChildren(target, source *html.Node) {
	for c := source.FirstChild; c != nil; c = source.FirstChild {
		source.RemoveChild(c)
		target.AppendChild(c)
	}
}
