package knn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/metric"
)

func TestBoxDistCases(t *testing.T) {
	box := geom.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	tests := []struct {
		name     string
		p        geom.Point
		expected float64
	}{
		{"Inside", geom.Point{X: 1, Y: 1}, 0},
		{"OnEdge", geom.Point{X: 2, Y: 1}, 0},
		{"OnCorner", geom.Point{X: 0, Y: 0}, 0},
		{"Left", geom.Point{X: -3, Y: 1}, 9},
		{"Right", geom.Point{X: 5, Y: 0.5}, 9},
		{"Below", geom.Point{X: 1.5, Y: -2}, 4},
		{"Above", geom.Point{X: 0, Y: 4}, 4},
		{"Corner", geom.Point{X: 10, Y: 10}, 128},
		{"LowerLeftCorner", geom.Point{X: -1, Y: -2}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BoxDist(tt.p, box, nil))
			assert.Equal(t, tt.expected, BoxDist(tt.p, box, metric.SquaredEuclidean))
		})
	}
}

func TestBoxDistNearestCorner(t *testing.T) {
	p := geom.Point{X: 10, Y: 10}
	box := geom.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	for _, fn := range []metric.Func{metric.SquaredEuclidean, metric.HaversineRelative, metric.Equirectangular} {
		assert.Equal(t, fn(p, geom.Point{X: 2, Y: 2}), BoxDist(p, box, fn))
		assert.Less(t, BoxDist(p, box, fn), fn(p, geom.Point{X: 1, Y: 2}))
	}
}

func TestBoxDistDegenerate(t *testing.T) {
	pt := geom.PointRect(geom.Point{X: 3, Y: 4})
	assert.Equal(t, 0.0, BoxDist(geom.Point{X: 3, Y: 4}, pt, nil))
	assert.Equal(t, 25.0, BoxDist(geom.Point{}, pt, nil))

	// vertical segment
	seg := geom.Rect{MinX: 1, MinY: 0, MaxX: 1, MaxY: 5}
	assert.Equal(t, 4.0, BoxDist(geom.Point{X: 3, Y: 2}, seg, nil))
	assert.Equal(t, 0.0, BoxDist(geom.Point{X: 1, Y: 5}, seg, nil))
}

func TestBoxDistZeroOnlyInside(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		minX, minY := rng.Float64()*10, rng.Float64()*10
		box := geom.Rect{MinX: minX, MinY: minY, MaxX: minX + rng.Float64()*3, MaxY: minY + rng.Float64()*3}
		p := geom.Point{X: rng.Float64()*16 - 1, Y: rng.Float64()*16 - 1}
		d := BoxDist(p, box, nil)
		assert.Equal(t, box.Contains(p), d == 0, "p=%v box=%v d=%v", p, box, d)
	}
}

func TestBoxDistReflectionSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		minX, minY := rng.Float64()*20-10, rng.Float64()*20-10
		box := geom.Rect{MinX: minX, MinY: minY, MaxX: minX + rng.Float64()*5, MaxY: minY + rng.Float64()*5}
		p := geom.Point{X: rng.Float64()*40 - 20, Y: rng.Float64()*40 - 20}
		d := BoxDist(p, box, nil)

		mirrorX := geom.Rect{MinX: -box.MaxX, MinY: box.MinY, MaxX: -box.MinX, MaxY: box.MaxY}
		assert.InDelta(t, d, BoxDist(geom.Point{X: -p.X, Y: p.Y}, mirrorX, nil), 1e-9)

		mirrorY := geom.Rect{MinX: box.MinX, MinY: -box.MaxY, MaxX: box.MaxX, MaxY: -box.MinY}
		assert.InDelta(t, d, BoxDist(geom.Point{X: p.X, Y: -p.Y}, mirrorY, nil), 1e-9)
	}
}

func TestBoxDistLowerBound(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	box := geom.Rect{MinX: -2, MinY: -1, MaxX: 3, MaxY: 4}
	for i := 0; i < 2000; i++ {
		p := geom.Point{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10}
		d := BoxDist(p, box, nil)
		inner := geom.Point{
			X: box.MinX + rng.Float64()*(box.MaxX-box.MinX),
			Y: box.MinY + rng.Float64()*(box.MaxY-box.MinY),
		}
		assert.LessOrEqual(t, d, metric.SquaredEuclidean(p, inner))
	}
}

func BenchmarkBoxDist(b *testing.B) {
	box := geom.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	p := geom.Point{X: 10, Y: 10}
	for i := 0; i < b.N; i++ {
		BoxDist(p, box, metric.HaversineRelative)
	}
}
