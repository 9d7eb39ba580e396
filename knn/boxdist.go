package knn

import (
	"math"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/metric"
)

// BoxDist returns the smallest distance under fn from p to any location in
// or on box. A nil fn means metric.SquaredEuclidean.
//
// A point inside the box is at distance 0. Otherwise the closest location is
// on an edge, level with p, when p falls within one of the box's axis ranges,
// and a corner when it falls within neither.
func BoxDist(p geom.Point, box geom.Rect, fn metric.Func) float64 {
	if fn == nil {
		fn = metric.SquaredEuclidean
	}
	inX := p.X >= box.MinX && p.X <= box.MaxX
	inY := p.Y >= box.MinY && p.Y <= box.MaxY
	switch {
	case inX && inY:
		return 0
	case inY:
		return math.Min(
			fn(p, geom.Point{X: box.MinX, Y: p.Y}),
			fn(p, geom.Point{X: box.MaxX, Y: p.Y}),
		)
	case inX:
		return math.Min(
			fn(p, geom.Point{X: p.X, Y: box.MinY}),
			fn(p, geom.Point{X: p.X, Y: box.MaxY}),
		)
	}
	return math.Min(
		math.Min(fn(p, geom.Point{X: box.MinX, Y: box.MinY}), fn(p, geom.Point{X: box.MinX, Y: box.MaxY})),
		math.Min(fn(p, geom.Point{X: box.MaxX, Y: box.MinY}), fn(p, geom.Point{X: box.MaxX, Y: box.MaxY})),
	)
}
