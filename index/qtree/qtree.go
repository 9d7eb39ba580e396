package qtree

import (
	"github.com/francis-chui/rbush-knn/geom"
)

const maxPoints = 16

type nodeT[T any] struct {
	points []T
	nodes  [4]*nodeT[T]
}

// QTree is a point quadtree over fixed bounds. Points outside the bounds are
// clipped to the nearest edge for placement.
type QTree[T any] struct {
	root   *nodeT[T]
	bounds geom.Rect
	point  func(item T) geom.Point
	eq     func(a, b T) bool
}

// New creates a new QTree covering bounds.
func New[T comparable](bounds geom.Rect, point func(item T) geom.Point) *QTree[T] {
	return &QTree[T]{
		root:   &nodeT[T]{},
		bounds: bounds,
		point:  point,
		eq:     func(a, b T) bool { return a == b },
	}
}

func (tr *QTree[T]) clip(item T) (float64, float64) {
	p := tr.point(item)
	x, y := p.X, p.Y
	if x < tr.bounds.MinX {
		x = tr.bounds.MinX
	} else if x > tr.bounds.MaxX {
		x = tr.bounds.MaxX
	}
	if y < tr.bounds.MinY {
		y = tr.bounds.MinY
	} else if y > tr.bounds.MaxY {
		y = tr.bounds.MaxY
	}
	return x, y
}

// split returns the quadrant of n holding (cx, cy) and that quadrant's bounds.
// Quadrants are numbered 0 upper-left, 1 upper-right, 2 lower-left,
// 3 lower-right.
func split(n geom.Rect, cx, cy float64) (int, geom.Rect) {
	mx := (n.MaxX-n.MinX)/2 + n.MinX
	my := (n.MaxY-n.MinY)/2 + n.MinY
	if cx < mx {
		if cy < my {
			return 2, geom.Rect{MinX: n.MinX, MinY: n.MinY, MaxX: mx, MaxY: my}
		}
		return 0, geom.Rect{MinX: n.MinX, MinY: my, MaxX: mx, MaxY: n.MaxY}
	}
	if cy < my {
		return 3, geom.Rect{MinX: mx, MinY: n.MinY, MaxX: n.MaxX, MaxY: my}
	}
	return 1, geom.Rect{MinX: mx, MinY: my, MaxX: n.MaxX, MaxY: n.MaxY}
}

func quadrant(n geom.Rect, quad int) geom.Rect {
	mx := (n.MaxX-n.MinX)/2 + n.MinX
	my := (n.MaxY-n.MinY)/2 + n.MinY
	switch quad {
	case 0:
		return geom.Rect{MinX: n.MinX, MinY: my, MaxX: mx, MaxY: n.MaxY}
	case 1:
		return geom.Rect{MinX: mx, MinY: my, MaxX: n.MaxX, MaxY: n.MaxY}
	case 2:
		return geom.Rect{MinX: n.MinX, MinY: n.MinY, MaxX: mx, MaxY: my}
	}
	return geom.Rect{MinX: mx, MinY: n.MinY, MaxX: n.MaxX, MaxY: my}
}

// Insert inserts an item into the tree
func (tr *QTree[T]) Insert(item T) {
	cx, cy := tr.clip(item)
	tr.insert(tr.root, tr.bounds, cx, cy, item)
}

// Remove removes an item from the tree. It returns false when the item was
// not found.
func (tr *QTree[T]) Remove(item T) bool {
	cx, cy := tr.clip(item)
	return tr.remove(tr.root, tr.bounds, cx, cy, item)
}

// Search finds all items contained in a bounding box
func (tr *QTree[T]) Search(rect geom.Rect, iter func(item T) bool) bool {
	return tr.search(tr.root, tr.bounds, rect, iter)
}

// Count counts all of the items in the tree
func (tr *QTree[T]) Count() int {
	return count(tr.root, 0)
}

// RemoveAll removes all items from the tree
func (tr *QTree[T]) RemoveAll() {
	tr.root = &nodeT[T]{}
}

func (tr *QTree[T]) insert(node *nodeT[T], n geom.Rect, cx, cy float64, item T) {
	if len(node.points) < maxPoints {
		node.points = append(node.points, item)
		return
	}
	quad, qr := split(n, cx, cy)
	if node.nodes[quad] == nil {
		node.nodes[quad] = &nodeT[T]{}
	}
	tr.insert(node.nodes[quad], qr, cx, cy, item)
}

func (tr *QTree[T]) remove(node *nodeT[T], n geom.Rect, cx, cy float64, item T) bool {
	for i, it := range node.points {
		if tr.eq(it, item) {
			last := len(node.points) - 1
			node.points[i] = node.points[last]
			var zero T
			node.points[last] = zero
			node.points = node.points[:last]
			return true
		}
	}
	quad, qr := split(n, cx, cy)
	if node.nodes[quad] != nil {
		return tr.remove(node.nodes[quad], qr, cx, cy, item)
	}
	return false
}

func count[T any](node *nodeT[T], counter int) int {
	counter += len(node.points)
	for i := 0; i < 4; i++ {
		if node.nodes[i] != nil {
			counter = count(node.nodes[i], counter)
		}
	}
	return counter
}

func (tr *QTree[T]) search(node *nodeT[T], n, rect geom.Rect, iter func(item T) bool) bool {
	if !n.Intersects(rect) {
		return true
	}
	for _, item := range node.points {
		if rect.Contains(tr.point(item)) {
			if !iter(item) {
				return false
			}
		}
	}
	for i := 0; i < 4; i++ {
		if node.nodes[i] != nil {
			if !tr.search(node.nodes[i], quadrant(n, i), rect, iter) {
				return false
			}
		}
	}
	return true
}
