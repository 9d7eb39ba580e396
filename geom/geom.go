// Package geom holds the planar point and rectangle types shared by the
// indexes and the nearest neighbor search.
package geom

import "math"

// Point is an (x, y) pair. For geographic data X is the longitude and Y is the
// latitude, both in degrees.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. MinX <= MaxX and MinY <= MaxY.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// PointRect returns the degenerate rectangle covering only p.
func PointRect(p Point) Rect {
	return Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// EmptyRect returns an inverted rectangle which acts as the identity for Union.
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(+1), MinY: math.Inf(+1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the rect is inverted, as returned by EmptyRect.
func (r Rect) IsEmpty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

// Contains reports whether p lies in r, boundary included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ContainsRect reports whether b lies entirely in r.
func (r Rect) ContainsRect(b Rect) bool {
	return b.MinX >= r.MinX && b.MaxX <= r.MaxX && b.MinY >= r.MinY && b.MaxY <= r.MaxY
}

// Intersects reports whether the two rectangles overlap, touching included.
func (r Rect) Intersects(b Rect) bool {
	if r.MinX > b.MaxX || b.MinX > r.MaxX {
		return false
	}
	if r.MinY > b.MaxY || b.MinY > r.MaxY {
		return false
	}
	return true
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(b Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, b.MinX),
		MinY: math.Min(r.MinY, b.MinY),
		MaxX: math.Max(r.MaxX, b.MaxX),
		MaxY: math.Max(r.MaxY, b.MaxY),
	}
}

// Area is width times height.
func (r Rect) Area() float64 {
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

// Margin is half the perimeter.
func (r Rect) Margin() float64 {
	return (r.MaxX - r.MinX) + (r.MaxY - r.MinY)
}

// Enlargement returns how much r's area grows when extended to cover b.
func (r Rect) Enlargement(b Rect) float64 {
	return r.Union(b).Area() - r.Area()
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}
