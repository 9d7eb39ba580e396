// Package knn answers k-nearest neighbor queries over hierarchical
// bounding-box indexes such as R-trees.
//
// The search is best-first: a single priority queue holds both unexplored
// subtrees, keyed by the distance from the query point to their bounding
// rectangle, and candidate items. Whenever the closest queued entry is an
// item it is a final result, so items come out in ascending distance without
// visiting subtrees that cannot contain anything closer.
package knn

import (
	"github.com/tidwall/tinyqueue"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/metric"
)

// Neighbor is a search result paired with its ranking distance.
type Neighbor[T any] struct {
	Item T
	Dist float64
}

// Option configures a query.
type Option func(*options)

type options struct {
	metric metric.Func
}

// WithMetric sets the point to point metric. The default is
// metric.SquaredEuclidean.
func WithMetric(fn metric.Func) Option {
	return func(o *options) {
		if fn != nil {
			o.metric = fn
		}
	}
}

func newOptions(opts []Option) options {
	o := options{metric: metric.SquaredEuclidean}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// queueItem is either a subtree waiting to be expanded or a candidate item.
type queueItem[T any] struct {
	node   Node[T]
	item   T
	isItem bool
	dist   float64
	seq    uint64
}

// Less orders by distance, then by push order so that ties stay stable.
func (a *queueItem[T]) Less(b tinyqueue.Item) bool {
	bi := b.(*queueItem[T])
	if a.dist != bi.dist {
		return a.dist < bi.dist
	}
	return a.seq < bi.seq
}

// Nearby visits the items of tr in ascending distance from p. Iteration stops
// when iter returns false, in which case Nearby returns false.
func Nearby[T any](tr Tree[T], p geom.Point, iter func(item T, dist float64) bool, opts ...Option) bool {
	if tr == nil {
		return true
	}
	fn := newOptions(opts).metric
	queue := tinyqueue.New(nil)
	var seq uint64
	push := func(qi *queueItem[T]) {
		qi.seq = seq
		seq++
		queue.Push(qi)
	}
	node := tr.Root()
	for node != nil {
		switch n := node.(type) {
		case *Branch[T]:
			if n == nil {
				break
			}
			for _, e := range n.Entries {
				push(&queueItem[T]{node: e.Node, dist: BoxDist(p, e.Rect, fn)})
			}
		case *Leaf[T]:
			if n == nil {
				break
			}
			for _, item := range n.Items {
				push(&queueItem[T]{item: item, isItem: true, dist: BoxDist(p, tr.Rect(item), fn)})
			}
		}
		for queue.Len() > 0 && queue.Peek().(*queueItem[T]).isItem {
			qi := queue.Pop().(*queueItem[T])
			if !iter(qi.item, qi.dist) {
				return false
			}
		}
		node = nil
		if last := queue.Pop(); last != nil {
			node = last.(*queueItem[T]).node
		}
	}
	return true
}

// Search returns the n items of tr closest to p, nearest first. Fewer are
// returned when the index holds fewer than n items.
func Search[T any](tr Tree[T], p geom.Point, n int, opts ...Option) []T {
	result := []T{}
	if n <= 0 {
		return result
	}
	Nearby(tr, p, func(item T, _ float64) bool {
		result = append(result, item)
		return len(result) < n
	}, opts...)
	return result
}

// SearchDist is like Search but also returns the distance of every item as
// computed by the metric.
func SearchDist[T any](tr Tree[T], p geom.Point, n int, opts ...Option) []Neighbor[T] {
	result := []Neighbor[T]{}
	if n <= 0 {
		return result
	}
	Nearby(tr, p, func(item T, dist float64) bool {
		result = append(result, Neighbor[T]{Item: item, Dist: dist})
		return len(result) < n
	}, opts...)
	return result
}
