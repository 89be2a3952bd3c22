// Package htmlchunk splits HTML fragments into size-bounded chunks that each
// parse on their own, and merges such chunks back into the original markup.
package htmlchunk

import "github.com/cockroachdb/errors"

// Cursor misuse. These are programming errors, reported as assertion failures.
var (
	// ErrEmptyPath indicates a cursor was constructed without a root frame.
	ErrEmptyPath = errors.New("htmlchunk: cursor path cannot be empty")

	// ErrAscendRoot indicates an attempt to pop the root frame.
	ErrAscendRoot = errors.New("htmlchunk: cannot ascend past the root")

	// ErrDescendLeaf indicates an attempt to descend into a missing or childless node.
	ErrDescendLeaf = errors.New("htmlchunk: cannot descend into a node without children")
)

func misuse(err error) error {
	return errors.WithAssertionFailure(err)
}
