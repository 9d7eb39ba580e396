package rtree

import (
	"math"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/knn"
)

// slot is something to place in a node: an item at the leaf level or a
// subtree at a branch level.
type slot[T any] struct {
	rect geom.Rect
	item T
	node knn.Node[T]
}

// Insert inserts item into the tree.
func (tr *RTree[T]) Insert(item T) {
	tr.insert(slot[T]{rect: tr.rect(item), item: item}, 0)
	tr.count++
}

// insert places s in a node at the given level, where leaves are level 0.
// A split of the root grows the tree taller.
func (tr *RTree[T]) insert(s slot[T], level int) {
	sibling, split := tr.insertRec(tr.root, tr.height, s, level)
	if !split {
		return
	}
	tr.root = &knn.Branch[T]{Entries: []knn.Entry[T]{
		{Rect: tr.cover(tr.root), Node: tr.root},
		sibling,
	}}
	tr.height++
}

// insertRec descends to the target level and adds s there, propagating
// splits back up. It returns the new sibling when node was split.
func (tr *RTree[T]) insertRec(node knn.Node[T], level int, s slot[T], target int) (knn.Entry[T], bool) {
	if level > target {
		b := node.(*knn.Branch[T])
		i := pickBranch(b, s.rect)
		sibling, split := tr.insertRec(b.Entries[i].Node, level-1, s, target)
		if !split {
			b.Entries[i].Rect = b.Entries[i].Rect.Union(s.rect)
			return knn.Entry[T]{}, false
		}
		b.Entries[i].Rect = tr.cover(b.Entries[i].Node)
		return tr.addEntry(b, sibling)
	}
	if n, ok := node.(*knn.Leaf[T]); ok {
		n.Items = append(n.Items, s.item)
		if len(n.Items) <= maxEntries {
			return knn.Entry[T]{}, false
		}
		return tr.splitLeaf(n), true
	}
	return tr.addEntry(node.(*knn.Branch[T]), knn.Entry[T]{Rect: s.rect, Node: s.node})
}

func (tr *RTree[T]) addEntry(b *knn.Branch[T], e knn.Entry[T]) (knn.Entry[T], bool) {
	b.Entries = append(b.Entries, e)
	if len(b.Entries) <= maxEntries {
		return knn.Entry[T]{}, false
	}
	return tr.splitBranch(b), true
}

// pickBranch picks the entry needing the smallest volume increase to hold
// rect, preferring the smaller entry on ties.
func pickBranch[T any](b *knn.Branch[T], rect geom.Rect) int {
	best := 0
	bestIncr, bestVol := math.Inf(+1), math.Inf(+1)
	for i, e := range b.Entries {
		vol := volume(e.Rect)
		incr := volume(e.Rect.Union(rect)) - vol
		if incr < bestIncr || (incr == bestIncr && vol < bestVol) {
			best, bestIncr, bestVol = i, incr, vol
		}
	}
	return best
}

func (tr *RTree[T]) splitLeaf(n *knn.Leaf[T]) knn.Entry[T] {
	rects := make([]geom.Rect, len(n.Items))
	for i, item := range n.Items {
		rects[i] = tr.rect(item)
	}
	groups := partition(rects, minEntries)
	all := n.Items
	n.Items = make([]T, 0, maxEntries+1)
	other := &knn.Leaf[T]{Items: make([]T, 0, maxEntries+1)}
	for i, item := range all {
		if groups[i] == 0 {
			n.Items = append(n.Items, item)
		} else {
			other.Items = append(other.Items, item)
		}
	}
	return knn.Entry[T]{Rect: tr.cover(other), Node: other}
}

func (tr *RTree[T]) splitBranch(b *knn.Branch[T]) knn.Entry[T] {
	rects := make([]geom.Rect, len(b.Entries))
	for i, e := range b.Entries {
		rects[i] = e.Rect
	}
	groups := partition(rects, minEntries)
	all := b.Entries
	b.Entries = make([]knn.Entry[T], 0, maxEntries+1)
	other := &knn.Branch[T]{Entries: make([]knn.Entry[T], 0, maxEntries+1)}
	for i, e := range all {
		if groups[i] == 0 {
			b.Entries = append(b.Entries, e)
		} else {
			other.Entries = append(other.Entries, e)
		}
	}
	return knn.Entry[T]{Rect: tr.cover(other), Node: other}
}

// volume is the area of the circle bounding r. It classifies splits better
// than the plain area, which is zero for every point.
func volume(r geom.Rect) float64 {
	hx := (r.MaxX - r.MinX) * 0.5
	hy := (r.MaxY - r.MinY) * 0.5
	return (hx*hx + hy*hy) * math.Pi
}

// partition assigns each rect to group 0 or 1 using Guttman's quadratic
// split. Seeds are the pair wasting the most volume when covered together;
// then the rect with the strongest preference for one group is placed until
// a group must take the rest to reach minFill.
func partition(rects []geom.Rect, minFill int) []int {
	total := len(rects)
	groups := make([]int, total)
	for i := range groups {
		groups[i] = -1
	}
	var count [2]int
	var cover [2]geom.Rect
	var area [2]float64
	classify := func(i, g int) {
		groups[i] = g
		if count[g] == 0 {
			cover[g] = rects[i]
		} else {
			cover[g] = cover[g].Union(rects[i])
		}
		area[g] = volume(cover[g])
		count[g]++
	}

	seed0, seed1 := 0, 1
	worst := math.Inf(-1)
	for a := 0; a < total-1; a++ {
		for b := a + 1; b < total; b++ {
			waste := volume(rects[a].Union(rects[b])) - volume(rects[a]) - volume(rects[b])
			if waste > worst {
				worst, seed0, seed1 = waste, a, b
			}
		}
	}
	classify(seed0, 0)
	classify(seed1, 1)

	for count[0]+count[1] < total && count[0] < total-minFill && count[1] < total-minFill {
		biggestDiff := -1.0
		chosen, better := -1, 0
		for i := 0; i < total; i++ {
			if groups[i] != -1 {
				continue
			}
			growth0 := volume(rects[i].Union(cover[0])) - area[0]
			growth1 := volume(rects[i].Union(cover[1])) - area[1]
			diff, g := growth1-growth0, 0
			if diff < 0 {
				diff, g = -diff, 1
			}
			if diff > biggestDiff || (diff == biggestDiff && count[g] < count[better]) {
				biggestDiff, chosen, better = diff, i, g
			}
		}
		classify(chosen, better)
	}

	// one group is full enough that the other has to take the rest
	if count[0]+count[1] < total {
		g := 0
		if count[0] >= total-minFill {
			g = 1
		}
		for i := 0; i < total; i++ {
			if groups[i] == -1 {
				classify(i, g)
			}
		}
	}
	return groups
}
