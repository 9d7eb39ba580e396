package rtree

import (
	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/knn"
)

// orphan is a node cut from the tree during a remove, whose children must
// be reinserted at its level.
type orphan[T any] struct {
	node  knn.Node[T]
	level int
}

// Remove removes item from the tree. It returns false when the item was not
// found.
func (tr *RTree[T]) Remove(item T) bool {
	var orphans []orphan[T]
	if !tr.removeRec(tr.root, tr.height, tr.rect(item), item, &orphans) {
		return false
	}
	tr.count--

	// reinsert the children of eliminated nodes
	for _, o := range orphans {
		switch n := o.node.(type) {
		case *knn.Leaf[T]:
			for _, it := range n.Items {
				tr.insert(slot[T]{rect: tr.rect(it), item: it}, 0)
			}
		case *knn.Branch[T]:
			for _, e := range n.Entries {
				tr.insert(slot[T]{rect: e.Rect, node: e.Node}, o.level)
			}
		}
	}

	// collapse redundant roots
	for {
		b, ok := tr.root.(*knn.Branch[T])
		if !ok {
			break
		}
		if len(b.Entries) == 0 {
			tr.root = &knn.Leaf[T]{}
			tr.height = 0
			break
		}
		if len(b.Entries) > 1 {
			break
		}
		tr.root = b.Entries[0].Node
		tr.height--
	}
	return true
}

// removeRec removes item from the subtree rooted at node. Children left with
// fewer than minEntries are disconnected and queued as orphans.
func (tr *RTree[T]) removeRec(node knn.Node[T], level int, rect geom.Rect, item T, orphans *[]orphan[T]) bool {
	switch n := node.(type) {
	case *knn.Branch[T]:
		for i := range n.Entries {
			if !n.Entries[i].Rect.Intersects(rect) {
				continue
			}
			child := n.Entries[i].Node
			if !tr.removeRec(child, level-1, rect, item, orphans) {
				continue
			}
			if size[T](child) >= minEntries {
				n.Entries[i].Rect = tr.cover(child)
			} else {
				*orphans = append(*orphans, orphan[T]{node: child, level: level - 1})
				last := len(n.Entries) - 1
				n.Entries[i] = n.Entries[last]
				n.Entries[last] = knn.Entry[T]{}
				n.Entries = n.Entries[:last]
			}
			return true
		}
	case *knn.Leaf[T]:
		for i, it := range n.Items {
			if tr.eq(it, item) {
				last := len(n.Items) - 1
				n.Items[i] = n.Items[last]
				var zero T
				n.Items[last] = zero
				n.Items = n.Items[:last]
				return true
			}
		}
	}
	return false
}
