package htmlchunk

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Options controls Split.
type Options struct {
	// MaxChunkSize is the size budget per chunk.
	MaxChunkSize int
	// Measure sizes a serialized string. Defaults to counting runes.
	Measure func(string) int
}

// MTSplitOptions is the budget used for machine translation requests.
var MTSplitOptions = Options{MaxChunkSize: 4500}

func (o Options) measure(s string) int {
	if o.Measure != nil {
		return o.Measure(s)
	}
	return utf8.RuneCountInString(s)
}

// Split cuts markup into chunks of at most MaxChunkSize. Each chunk repeats
// the chain of ancestors of its content, and every element the walk visited
// carries its source position in PositionAttr so Merge can put the pieces
// back together.
//
// The cost of a candidate element is the size of its content, not of its own
// tag, so a chunk holding several leaves may exceed the budget by at most the
// tags of the last element added. Text is charged in full. A childless node
// that does not fit in an empty chunk is emitted on its own.
func Split(markup string, opts Options) ([]string, error) {
	if opts.measure(markup) < opts.MaxChunkSize {
		return []string{markup}, nil
	}
	root, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	cursor, err := NewCursor(root)
	if err != nil {
		return nil, err
	}
	s := &splitter{cursor: cursor, opts: opts}
	chunks, err := s.run()
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return []string{""}, nil
	}
	return chunks, nil
}

type splitter struct {
	cursor *Cursor
	opts   Options
	chunks []string

	// head is the chunk under construction, tail the insertion point.
	head  *html.Node
	tail  *html.Node
	size  int
	empty bool
}

func (s *splitter) run() ([]string, error) {
	s.reset()
	for {
		node := s.cursor.Current()
		if node == nil {
			if s.cursor.Depth() == 1 {
				break
			}
			if err := s.cursor.Ascend(); err != nil {
				return nil, err
			}
			s.cursor.Next()
			if !s.empty {
				s.flush()
			}
			s.reset()
			continue
		}

		cost := s.cost(node)
		if s.size+cost <= s.opts.MaxChunkSize {
			s.add(node)
			continue
		}
		switch {
		case !s.empty:
			s.flush()
			s.reset()
		case node.FirstChild == nil:
			s.add(node)
		default:
			if err := s.cursor.Descend(); err != nil {
				return nil, err
			}
			s.reset()
		}
	}
	if !s.empty {
		s.flush()
	}
	return s.chunks, nil
}

// reset starts an empty chunk holding copies of the cursor's ancestors.
func (s *splitter) reset() {
	s.head = &html.Node{Type: html.DocumentNode}
	s.tail = s.head
	for _, n := range s.cursor.Ancestors() {
		cp := s.cursor.Copy(n)
		s.tail.AppendChild(cp)
		s.tail = cp
	}
	s.size = s.opts.measure(RenderChildren(s.head))
	s.empty = true
}

// cost is the size a candidate is charged against the budget.
func (s *splitter) cost(n *html.Node) int {
	if n.Type == html.TextNode {
		return s.opts.measure(Render(n))
	}
	return s.opts.measure(RenderChildren(n))
}

func (s *splitter) add(n *html.Node) {
	s.tail.AppendChild(s.cursor.DeepCopy(n))
	s.size = s.opts.measure(RenderChildren(s.head))
	s.empty = false
	s.cursor.Next()
}

func (s *splitter) flush() {
	s.chunks = append(s.chunks, RenderChildren(s.head))
}
