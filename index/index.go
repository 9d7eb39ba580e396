package index

import (
	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/index/rtree"
	"github.com/francis-chui/rbush-knn/knn"
	"github.com/francis-chui/rbush-knn/metric"
)

// Item represents an index item. X is the longitude and Y the latitude.
type Item interface {
	Rect() (minX, minY, maxX, maxY float64)
}

// FlexItem can represent a point or a rectangle
type FlexItem struct {
	MinX, MinY, MaxX, MaxY float64
}

// Rect returns the rectangle
func (item *FlexItem) Rect() (minX, minY, maxX, maxY float64) {
	return item.MinX, item.MinY, item.MaxX, item.MaxY
}

// piece is a normalized rectangle stored in the rtree. Items crossing the
// antimeridian are stored as two pieces.
type piece struct {
	rect geom.Rect
	item Item
}

func pieceRect(p *piece) geom.Rect { return p.rect }

// Index is a geospatial index
type Index struct {
	r     *rtree.RTree[*piece]
	items map[Item][]*piece
	mulm  map[Item]bool // items that are stored as more than one piece
}

// New create a new index
func New() *Index {
	return &Index{
		r:     rtree.New(pieceRect),
		items: make(map[Item][]*piece),
		mulm:  make(map[Item]bool),
	}
}

// Insert inserts an item into the index. Inserting an item that is already
// present replaces its previous position.
func (ix *Index) Insert(item Item) {
	if _, ok := ix.items[item]; ok {
		ix.Remove(item)
	}
	minX, minY, maxX, maxY := item.Rect()
	rects := normRect(minX, minY, maxX, maxY)
	pieces := make([]*piece, len(rects))
	for i, rect := range rects {
		pieces[i] = &piece{rect: rect, item: item}
		ix.r.Insert(pieces[i])
	}
	ix.items[item] = pieces
	if len(pieces) > 1 {
		ix.mulm[item] = true
	}
}

// Remove removed an item from the index
func (ix *Index) Remove(item Item) {
	pieces, ok := ix.items[item]
	if !ok {
		return
	}
	for _, p := range pieces {
		ix.r.Remove(p)
	}
	delete(ix.items, item)
	delete(ix.mulm, item)
}

// Count counts all items in the index.
func (ix *Index) Count() int {
	return len(ix.items)
}

// Bounds returns the minimum bounding rectangle of all items in the index.
func (ix *Index) Bounds() (minX, minY, maxX, maxY float64) {
	if len(ix.items) == 0 {
		return 0, 0, 0, 0
	}
	b := ix.r.Bounds()
	return b.MinX, b.MinY, b.MaxX, b.MaxY
}

// RemoveAll removes all items from the index.
func (ix *Index) RemoveAll() {
	ix.r.RemoveAll()
	ix.items = make(map[Item][]*piece)
	ix.mulm = make(map[Item]bool)
}

// Search returns all items that intersect the bounding box.
func (ix *Index) Search(swLat, swLon, neLat, neLon float64, iterator func(item Item) bool) bool {
	var idm map[Item]bool
	for _, rect := range normRect(swLon, swLat, neLon, neLat) {
		keepon := ix.r.Search(rect, func(p *piece) bool {
			if ix.mulm[p.item] {
				if idm == nil {
					idm = make(map[Item]bool)
				}
				if idm[p.item] {
					return true
				}
				idm[p.item] = true
			}
			return iterator(p.item)
		})
		if !keepon {
			return false
		}
	}
	return true
}

// Nearby visits items in ascending distance from the point under fn, which
// defaults to metric.HaversineRelative. Items stored as more than one piece
// are visited once, at the distance of their nearest piece.
func (ix *Index) Nearby(lat, lon float64, fn metric.Func, iterator func(item Item, dist float64) bool) bool {
	if fn == nil {
		fn = metric.HaversineRelative
	}
	p := normPoint(lon, lat)
	var idm map[Item]bool
	return ix.r.Nearby(p, func(pc *piece, dist float64) bool {
		if ix.mulm[pc.item] {
			if idm == nil {
				idm = make(map[Item]bool)
			}
			if idm[pc.item] {
				return true
			}
			idm[pc.item] = true
		}
		return iterator(pc.item, dist)
	}, knn.WithMetric(fn))
}

// NearestNeighbors returns the n items closest to the point, nearest first.
func (ix *Index) NearestNeighbors(lat, lon float64, n int, fn metric.Func) []Item {
	items := []Item{}
	if n <= 0 {
		return items
	}
	ix.Nearby(lat, lon, fn, func(item Item, _ float64) bool {
		items = append(items, item)
		return len(items) < n
	})
	return items
}
