package rcf

import "errors"

// ErrOutOfCapacity is returned by Update when the free-index manager has no
// slot left to splice in a new interior node. Callers are expected to evict
// before retrying; the tree does not evict on its own.
var ErrOutOfCapacity = errors.New("rcf: interior node arena is out of capacity")

// ErrMissingLeaf is returned when a delete targets a point index that has no
// leaf in the tree. It signals a contract violation between the caller and
// the tree's bookkeeping: the two are expected to stay consistent.
var ErrMissingLeaf = errors.New("rcf: leaf index not found in tree")

// ErrMissingSequence is returned when a delete targets a sequence index that
// is absent from the leaf's sequence multiset.
var ErrMissingSequence = errors.New("rcf: sequence index not found in leaf")

// contractViolation panics with a package-prefixed message. It is used for
// conditions that indicate a bug in the caller or in the tree's own
// bookkeeping (e.g. an index too wide for the node arena, or a double
// release of a free slot),
// where continuing would leave caches in an inconsistent state the tree
// cannot safely repair. Callers must not reuse a tree after one of these.
func contractViolation(msg string) {
	panic("rcf: " + msg)
}
