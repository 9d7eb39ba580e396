package collection

import (
	"errors"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/index"
	"github.com/francis-chui/rbush-knn/metric"
	"github.com/google/btree"
)

// ErrNotFound is returned when an id is not in the collection.
var ErrNotFound = errors.New("id not found")

type itemT struct {
	ID     string
	Object *Object
}

func (i *itemT) Less(item btree.Item) bool {
	return i.ID < item.(*itemT).ID
}

func (i *itemT) Rect() (minX, minY, maxX, maxY float64) {
	r := i.Object.Rect()
	return r.MinX, r.MinY, r.MaxX, r.MaxY
}

// Collection represents a collection of geojson objects.
type Collection struct {
	items   *btree.BTree
	index   *index.Index
	points  int
	objects int
}

// New creates an empty collection
func New() *Collection {
	return &Collection{
		index: index.New(),
		items: btree.New(16),
	}
}

// Count returns the number of objects in collection.
func (c *Collection) Count() int {
	return c.objects
}

// PointCount returns the number of points (lat/lon coordinates) in collection.
func (c *Collection) PointCount() int {
	return c.points
}

// Bounds returns the bounds of all the objects in the collection.
func (c *Collection) Bounds() geom.Rect {
	minX, minY, maxX, maxY := c.index.Bounds()
	return geom.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// ReplaceOrInsert adds or replaces an object in the collection and returns
// the object it replaced, if any.
func (c *Collection) ReplaceOrInsert(id string, obj *Object) (old *Object, ok bool) {
	oldItem, ok := c.remove(id)
	c.insert(id, obj)
	if ok {
		return oldItem.Object, true
	}
	return nil, false
}

func (c *Collection) remove(id string) (item *itemT, ok bool) {
	i := c.items.Delete(&itemT{ID: id})
	if i == nil {
		return nil, false
	}
	item = i.(*itemT)
	c.index.Remove(item)
	c.points -= item.Object.PositionCount()
	c.objects--
	return item, true
}

func (c *Collection) insert(id string, obj *Object) *itemT {
	item := &itemT{ID: id, Object: obj}
	c.index.Insert(item)
	c.items.ReplaceOrInsert(item)
	c.points += obj.PositionCount()
	c.objects++
	return item
}

// Remove removes an object and returns it.
// If the object does not exist then the 'ok' return value will be false.
func (c *Collection) Remove(id string) (obj *Object, ok bool) {
	item, ok := c.remove(id)
	if !ok {
		return nil, false
	}
	return item.Object, true
}

// Get returns an object.
func (c *Collection) Get(id string) (*Object, error) {
	i := c.items.Get(&itemT{ID: id})
	if i == nil {
		return nil, ErrNotFound
	}
	return i.(*itemT).Object, nil
}

// Scan iterates though the collection in id order. The cursor is the number
// of objects to skip and the returned cursor is where the next page starts,
// or zero when the end was reached.
func (c *Collection) Scan(cursor uint64, iterator func(id string, obj *Object) bool) (ncursor uint64) {
	var i uint64
	var active = true
	c.items.Ascend(func(item btree.Item) bool {
		if i >= cursor {
			iitm := item.(*itemT)
			active = iterator(iitm.ID, iitm.Object)
		}
		i++
		return active
	})
	if active || i >= uint64(c.objects) {
		return 0
	}
	return i
}

// Search iterates over the objects intersecting the rectangle.
func (c *Collection) Search(minLat, minLon, maxLat, maxLon float64, iterator func(id string, obj *Object) bool) bool {
	return c.index.Search(minLat, minLon, maxLat, maxLon, func(item index.Item) bool {
		iitm := item.(*itemT)
		return iterator(iitm.ID, iitm.Object)
	})
}

// Nearby visits objects in ascending distance from a point. The distance of
// an object is the distance to the nearest point of its bounds under fn.
func (c *Collection) Nearby(lat, lon float64, fn metric.Func, iterator func(id string, obj *Object, dist float64) bool) bool {
	return c.index.Nearby(lat, lon, fn, func(item index.Item, dist float64) bool {
		iitm := item.(*itemT)
		return iterator(iitm.ID, iitm.Object, dist)
	})
}
