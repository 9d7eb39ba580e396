package qtree

import (
	"math/rand"
	"runtime"
	"sort"
	"testing"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/knn"
	"github.com/francis-chui/rbush-knn/metric"
)

type Point struct {
	X, Y float64
}

func pointOf(p *Point) geom.Point { return geom.Point{X: p.X, Y: p.Y} }

func randf(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}
func randXY() (x float64, y float64) {
	return randf(0, 100), randf(0, 100)
}
func randPoint() (lat float64, lon float64) {
	return randf(-90, 90), randf(-180, 180)
}

func wp(x, y float64) *Point {
	return &Point{x, y}
}

var world = geom.Rect{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}

func TestClip(t *testing.T) {
	tr := New(world, pointOf)
	if x, y := tr.clip(wp(-900, 100)); x != -180 || y != 90 {
		t.Fatalf("x,y == %f,%f, expect %f,%f", x, y, -180.0, 90.0)
	}
	if x, y := tr.clip(wp(900, -100)); x != 180 || y != -90 {
		t.Fatalf("x,y == %f,%f, expect %f,%f", x, y, 180.0, -90.0)
	}
	if x, y := tr.clip(wp(100, 100)); x != 100 || y != 90 {
		t.Fatalf("x,y == %f,%f, expect %f,%f", x, y, 100.0, 90.0)
	}
	if x, y := tr.clip(wp(50, 50)); x != 50 || y != 50 {
		t.Fatalf("x,y == %f,%f, expect %f,%f", x, y, 50.0, 50.0)
	}
}

func TestSimpleSplit(t *testing.T) {
	n := geom.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	tests := []struct {
		cx, cy float64
		quad   int
		rect   geom.Rect
	}{
		{0, 100, 0, geom.Rect{MinX: 0, MinY: 50, MaxX: 50, MaxY: 100}},
		{100, 100, 1, geom.Rect{MinX: 50, MinY: 50, MaxX: 100, MaxY: 100}},
		{0, 0, 2, geom.Rect{MinX: 0, MinY: 0, MaxX: 50, MaxY: 50}},
		{100, 0, 3, geom.Rect{MinX: 50, MinY: 0, MaxX: 100, MaxY: 50}},
	}
	for _, tt := range tests {
		quad, rect := split(n, tt.cx, tt.cy)
		if quad != tt.quad || rect != tt.rect {
			t.Fatalf("failed %d: %d, %v", tt.quad, quad, rect)
		}
		if q := quadrant(n, quad); q != rect {
			t.Fatalf("quadrant %d == %v, expect %v", quad, q, rect)
		}
	}
}

func TestGeoSplit(t *testing.T) {
	quad, rect := split(world, -180, 90)
	if quad != 0 || rect != (geom.Rect{MinX: -180, MinY: 0, MaxX: 0, MaxY: 90}) {
		t.Fatalf("failed 0: %d, %v", quad, rect)
	}
	quad, rect = split(world, 180, -90)
	if quad != 3 || rect != (geom.Rect{MinX: 0, MinY: -90, MaxX: 180, MaxY: 0}) {
		t.Fatalf("failed 3: %d, %v", quad, rect)
	}
}

func TestGeoInsert(t *testing.T) {
	tr := New(world, pointOf)
	l := 50000
	for i := 0; i < l; i++ {
		swLat, swLon := randPoint()
		tr.Insert(wp(swLon, swLat))
	}
	count := 0
	tr.Search(world, func(item *Point) bool {
		count++
		return true
	})
	if count != l {
		t.Fatalf("count == %d, expect %d", count, l)
	}
	if tr.Count() != l {
		t.Fatalf("count == %d, expect %d", tr.Count(), l)
	}
}

func TestRemove(t *testing.T) {
	tr := New(world, pointOf)
	var pts []*Point
	for i := 0; i < 1000; i++ {
		lat, lon := randPoint()
		p := wp(lon, lat)
		pts = append(pts, p)
		tr.Insert(p)
	}
	for _, p := range pts[:500] {
		if !tr.Remove(p) {
			t.Fatalf("point %v not removed", *p)
		}
	}
	if tr.Remove(wp(0, 0)) {
		t.Fatal("removed a point never inserted")
	}
	if tr.Count() != 500 {
		t.Fatalf("count == %d, expect 500", tr.Count())
	}
	tr.RemoveAll()
	if tr.Count() != 0 {
		t.Fatalf("count == %d, expect 0", tr.Count())
	}
}

func TestKNN(t *testing.T) {
	rand.Seed(0)
	tr := New(world, pointOf)
	if res := tr.KNN(geom.Point{}, 3); len(res) != 0 {
		t.Fatalf("empty tree returned %d", len(res))
	}
	var pts []*Point
	for i := 0; i < 5000; i++ {
		lat, lon := randPoint()
		p := wp(lon, lat)
		pts = append(pts, p)
		tr.Insert(p)
	}
	for i := 0; i < 50; i++ {
		lat, lon := randPoint()
		q := geom.Point{X: lon, Y: lat}
		res := tr.KNN(q, 25)
		if len(res) != 25 {
			t.Fatalf("len == %d, expect 25", len(res))
		}
		dists := make([]float64, len(pts))
		for j, p := range pts {
			dists[j] = metric.SquaredEuclidean(q, pointOf(p))
		}
		sort.Float64s(dists)
		for j, p := range res {
			if d := metric.SquaredEuclidean(q, pointOf(p)); d != dists[j] {
				t.Fatalf("result %d dist == %f, expect %f", j, d, dists[j])
			}
		}
	}
}

func TestViewIsSnapshot(t *testing.T) {
	tr := New(world, pointOf)
	a := wp(1, 1)
	tr.Insert(a)
	v := tr.View()
	tr.Insert(wp(0, 0))
	res := knn.Search[*Point](v, geom.Point{}, 10)
	if len(res) != 1 || res[0] != a {
		t.Fatalf("snapshot == %v", res)
	}
}

func TestMemory(t *testing.T) {
	rand.Seed(0)
	tr := New(geom.Rect{MaxX: 100, MaxY: 100}, pointOf)
	for i := 0; i < 500000; i++ {
		x, y := randXY()
		tr.Insert(wp(x, y))
	}
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	println(int(m.HeapAlloc)/tr.Count(), "bytes/point")
}

func BenchmarkInsert(b *testing.B) {
	rand.Seed(0)
	tr := New(geom.Rect{MaxX: 100, MaxY: 100}, pointOf)
	for i := 0; i < b.N; i++ {
		x, y := randXY()
		tr.Insert(wp(x, y))
	}
	count := 0
	tr.Search(geom.Rect{MaxX: 100, MaxY: 100}, func(item *Point) bool {
		count++
		return true
	})
	if count != b.N {
		b.Fatalf("count == %d, expect %d", count, b.N)
	}
}
