package index

import (
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/metric"
)

func randf(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}

func randPoint() (lat float64, lon float64) {
	return randf(-90, 90), randf(-180, 180)
}

func randRect() (swLat, swLon, neLat, neLon float64) {
	swLat, swLon = randPoint()
	neLat = randf(swLat, swLat+10)
	neLon = randf(swLon, swLon+10)
	return
}

func wp(swLat, swLon, neLat, neLon float64) *FlexItem {
	return &FlexItem{
		MinX: swLon,
		MinY: swLat,
		MaxX: neLon,
		MaxY: neLat,
	}
}

func TestRandomInserts(t *testing.T) {
	rand.Seed(0)
	l := 100000
	tr := New()
	start := time.Now()
	i := 0
	for ; i < l/2; i++ {
		swLat, swLon := randPoint()
		tr.Insert(wp(swLat, swLon, swLat, swLon))
	}
	inspdur := time.Since(start)

	start = time.Now()
	for ; i < l; i++ {
		swLat, swLon, neLat, neLon := randRect()
		tr.Insert(wp(swLat, swLon, neLat, neLon))
	}
	insrdur := time.Since(start)

	count := tr.Count()
	if count != l {
		t.Fatalf("count == %d, expect %d", count, l)
	}
	count = 0
	tr.Search(-90, -180, 90, 180, func(item Item) bool {
		count++
		return true
	})
	if count != l {
		t.Fatalf("count == %d, expect %d", count, l)
	}
	start = time.Now()
	count = 0
	tr.Search(33, -115, 34, -114, func(item Item) bool {
		count++
		return true
	})
	searchdur := time.Since(start)

	fmt.Printf("Randomly inserted %d points in %s.\n", l/2, inspdur.String())
	fmt.Printf("Randomly inserted %d rects in %s.\n", l/2, insrdur.String())
	fmt.Printf("Searched %d items in %s.\n", count, searchdur.String())
}

func TestInsertVarious(t *testing.T) {
	tr := New()
	item := wp(33, -115, 33, -115)
	tr.Insert(item)
	if count := tr.Count(); count != 1 {
		t.Fatalf("count = %d, expect 1", count)
	}
	tr.Remove(item)
	if count := tr.Count(); count != 0 {
		t.Fatalf("count = %d, expect 0", count)
	}
	tr.Insert(item)
	tr.Insert(item)
	if count := tr.Count(); count != 1 {
		t.Fatalf("count = %d, expect 1 after reinsert", count)
	}
	found := false
	tr.Search(-90, -180, 90, 180, func(item2 Item) bool {
		if item2 == item {
			found = true
		}
		return true
	})
	if !found {
		t.Fatal("did not find item")
	}
}

func TestAntimeridian(t *testing.T) {
	tr := New()
	span := wp(-10, 170, 10, -170) // crosses the antimeridian
	tr.Insert(span)
	east := wp(0, 100, 0, 100)
	tr.Insert(east)

	var hits []Item
	tr.Search(-5, 175, 5, -175, func(item Item) bool {
		hits = append(hits, item)
		return true
	})
	if len(hits) != 1 || hits[0] != span {
		t.Fatalf("hits == %v, expect only the spanning rect", hits)
	}

	hits = nil
	tr.Search(-90, -180, 90, 180, func(item Item) bool {
		hits = append(hits, item)
		return true
	})
	if len(hits) != 2 {
		t.Fatalf("whole world search found %d, expect 2", len(hits))
	}

	// both pieces are near this query, the item must come back once
	res := tr.NearestNeighbors(0, 179.5, 10, nil)
	if len(res) != 2 || res[0] != span || res[1] != east {
		t.Fatalf("nearest == %v", res)
	}

	tr.Remove(span)
	if tr.Count() != 1 {
		t.Fatalf("count == %d, expect 1", tr.Count())
	}
	if res := tr.NearestNeighbors(0, 179.5, 10, nil); len(res) != 1 {
		t.Fatalf("nearest after remove == %v", res)
	}
}

func TestNearestNeighbors(t *testing.T) {
	rand.Seed(1)
	tr := New()
	var items []*FlexItem
	for i := 0; i < 10000; i++ {
		lat, lon := randPoint()
		item := wp(lat, lon, lat, lon)
		items = append(items, item)
		tr.Insert(item)
	}
	if res := tr.NearestNeighbors(10, 10, 0, nil); len(res) != 0 {
		t.Fatalf("n=0 returned %d", len(res))
	}
	// haversine box bounds are not exact lower bounds on the sphere, so
	// near-equal distances may swap places
	for _, tt := range []struct {
		fn    metric.Func
		delta float64
	}{
		{metric.HaversineRelative, 1e-6},
		{metric.SquaredEuclidean, 0},
	} {
		fn := tt.fn
		lat, lon := 33.5, -115.5
		q := geom.Point{X: lon, Y: lat}
		res := tr.NearestNeighbors(lat, lon, 10, fn)
		if len(res) != 10 {
			t.Fatalf("len == %d, expect 10", len(res))
		}
		dists := make([]float64, len(items))
		for i, it := range items {
			dists[i] = fn(q, geom.Point{X: it.MinX, Y: it.MinY})
		}
		sort.Float64s(dists)
		for i, it := range res {
			minX, minY, _, _ := it.Rect()
			d := fn(q, geom.Point{X: minX, Y: minY})
			if d-dists[i] > tt.delta || dists[i]-d > tt.delta {
				t.Fatalf("result %d dist == %v, expect %v", i, d, dists[i])
			}
		}
	}
}

func TestNormRect(t *testing.T) {
	tests := []struct {
		in     [4]float64
		expect []geom.Rect
	}{
		{[4]float64{-10, -5, 10, 5}, []geom.Rect{{MinX: -10, MinY: -5, MaxX: 10, MaxY: 5}}},
		{[4]float64{170, 0, 190, 1}, []geom.Rect{{MinX: 170, MinY: 0, MaxX: 180, MaxY: 1}, {MinX: -180, MinY: 0, MaxX: -170, MaxY: 1}}},
		{[4]float64{-200, -100, 200, 100}, []geom.Rect{{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}}},
	}
	for _, tt := range tests {
		got := normRect(tt.in[0], tt.in[1], tt.in[2], tt.in[3])
		if len(got) != len(tt.expect) {
			t.Fatalf("normRect(%v) == %v, expect %v", tt.in, got, tt.expect)
		}
		for i := range got {
			if got[i] != tt.expect[i] {
				t.Fatalf("normRect(%v) == %v, expect %v", tt.in, got, tt.expect)
			}
		}
	}
	if p := normPoint(190, 95); p != (geom.Point{X: -170, Y: 90}) {
		t.Fatalf("normPoint == %v", p)
	}
}

func TestMemory(t *testing.T) {
	rand.Seed(0)
	l := 100000
	tr := New()
	for i := 0; i < l; i++ {
		swLat, swLon, neLat, neLon := randRect()
		if rand.Int()%2 == 0 {
			neLat, neLon = swLat, swLon
		}
		tr.Insert(wp(swLat, swLon, neLat, neLon))
	}
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	const PtrSize = 32 << uintptr(uint64(^uintptr(0))>>63)
	fmt.Printf("Memory consumption is %d bytes/object. Pointers are %d bytes.\n", int(m.HeapAlloc)/tr.Count(), PtrSize/8)
}

func BenchmarkInsertRect(b *testing.B) {
	rand.Seed(time.Now().UnixNano())
	tr := New()
	for i := 0; i < b.N; i++ {
		swLat, swLon, neLat, neLon := randRect()
		tr.Insert(wp(swLat, swLon, neLat, neLon))
	}
}

func BenchmarkNearestNeighbors(b *testing.B) {
	rand.Seed(0)
	tr := New()
	for i := 0; i < 100000; i++ {
		lat, lon := randPoint()
		tr.Insert(wp(lat, lon, lat, lon))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lat, lon := randPoint()
		tr.NearestNeighbors(lat, lon, 10, nil)
	}
}
