package rcf

// NodeView is a read-only cursor over one step of a tree traversal: the
// current node, its depth, and (once traversal is ascending past it) the
// bounding box of its unvisited sibling, per spec.md §4.7. The traversal
// computes that box before each Accept call, whether or not the visitor
// reads it.
type NodeView struct {
	tree        *Tree
	index       int
	depth       int
	siblingBox  *BoundingBox
}

// Index returns the current node's combined-namespace index.
func (v *NodeView) Index() int { return v.index }

// Depth returns the current node's depth, 0 at the root.
func (v *NodeView) Depth() int { return v.depth }

// IsLeaf reports whether the current node is a leaf.
func (v *NodeView) IsLeaf() bool { return v.tree.isLeaf(v.index) }

// Mass returns the current node's subtree occurrence count.
func (v *NodeView) Mass() int { return v.tree.subtreeMass(v.index) }

// Point returns the leaf's point. Only valid when IsLeaf() is true.
func (v *NodeView) Point() []float32 {
	return v.tree.points.Get(leafPointIndex(v.index, v.tree.capacity))
}

// SiblingBox returns the bounding box of the node's unvisited sibling.
// Only valid in views passed to Accept, where the traversal has already
// set it; in other views (AcceptLeaf, Trigger) it returns the current
// node's own box instead.
func (v *NodeView) SiblingBox() BoundingBox {
	if v.siblingBox == nil {
		box := v.tree.getBoundingBoxOf(v.index)
		v.siblingBox = &box
	}
	return *v.siblingBox
}

// Visitor descends to a leaf and then ascends back to the root, visiting
// each node exactly once, per spec.md §4.7's single-visitor protocol.
type Visitor interface {
	AcceptLeaf(view *NodeView)
	Accept(view *NodeView)
	Result() interface{}
}

// MultiVisitor supports algorithms that need to compare both sides of a
// cut (e.g. directional attribution): Trigger decides, at each internal
// node, whether to fork the traversal down both children.
type MultiVisitor interface {
	AcceptLeaf(view *NodeView)
	Trigger(view *NodeView) bool
	Accept(view *NodeView)
	Combine(right MultiVisitor)
	Clone() MultiVisitor
	Result() interface{}
}

// Traverse runs a single-visitor descent: down to the leaf calling
// AcceptLeaf, then back up to the root calling Accept at each internal
// node with the unvisited sibling's box available via NodeView.
func (t *Tree) Traverse(point []float32, visitor Visitor) interface{} {
	if t.root == NULL {
		return visitor.Result()
	}
	t.traverseSingle(t.root, 0, point, visitor)
	return visitor.Result()
}

func (t *Tree) traverseSingle(index int, depth int, point []float32, visitor Visitor) {
	if t.isLeaf(index) {
		visitor.AcceptLeaf(&NodeView{tree: t, index: index, depth: depth})
		return
	}

	dim := t.arena.cutDimension(index)
	var next, sibling int
	if point[dim] <= t.cutVal[index] {
		next, sibling = t.left(index), t.right(index)
	} else {
		next, sibling = t.right(index), t.left(index)
	}

	t.traverseSingle(next, depth+1, point, visitor)

	siblingBox := t.getBoundingBoxOf(sibling)
	visitor.Accept(&NodeView{tree: t, index: index, depth: depth, siblingBox: &siblingBox})
}

// TraverseMulti runs a multi-visitor descent: at each internal node,
// Trigger decides whether to fork into both children (forking a cloned
// visitor down the unvisited side and combining the results on the way
// back up) or to follow the cut-dictated side alone.
func (t *Tree) TraverseMulti(point []float32, visitor MultiVisitor) interface{} {
	if t.root == NULL {
		return visitor.Result()
	}
	t.traverseMulti(t.root, 0, point, visitor)
	return visitor.Result()
}

func (t *Tree) traverseMulti(index int, depth int, point []float32, visitor MultiVisitor) {
	if t.isLeaf(index) {
		visitor.AcceptLeaf(&NodeView{tree: t, index: index, depth: depth})
		return
	}

	dim := t.arena.cutDimension(index)
	var next, sibling int
	if point[dim] <= t.cutVal[index] {
		next, sibling = t.left(index), t.right(index)
	} else {
		next, sibling = t.right(index), t.left(index)
	}

	view := &NodeView{tree: t, index: index, depth: depth}
	if visitor.Trigger(view) {
		rightVisitor := visitor.Clone()
		t.traverseMulti(next, depth+1, point, visitor)
		t.traverseMulti(sibling, depth+1, point, rightVisitor)
		visitor.Combine(rightVisitor)
	} else {
		t.traverseMulti(next, depth+1, point, visitor)
	}

	siblingBox := t.getBoundingBoxOf(sibling)
	view.siblingBox = &siblingBox
	visitor.Accept(view)
}
