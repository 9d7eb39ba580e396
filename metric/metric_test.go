package metric

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francis-chui/rbush-knn/geom"
)

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

func TestSquaredEuclidean(t *testing.T) {
	tests := []struct {
		name     string
		a, b     geom.Point
		expected float64
	}{
		{"Same", pt(1, 1), pt(1, 1), 0},
		{"Axis", pt(0, 0), pt(3, 0), 9},
		{"Diagonal", pt(0, 0), pt(3, 4), 25},
		{"Negative", pt(-1, -1), pt(1, 1), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SquaredEuclidean(tt.a, tt.b))
			assert.Equal(t, tt.expected, SquaredEuclidean(tt.b, tt.a))
		})
	}
}

func TestGeographicMonotonic(t *testing.T) {
	origin := pt(0, 0)
	for _, name := range []string{"haversine", "cosines", "equirectangular"} {
		t.Run(name, func(t *testing.T) {
			fn, err := Lookup(name)
			require.NoError(t, err)
			near := fn(origin, pt(1, 0))
			far := fn(origin, pt(10, 0))
			assert.Less(t, near, far)
			assert.Greater(t, near, 0.0)
			assert.InDelta(t, 0, fn(origin, origin), 1e-12)
		})
	}
}

func TestHaversineKnownValue(t *testing.T) {
	// one degree of longitude on the equator
	half := math.Pi / 360
	expected := math.Sin(half) * math.Sin(half)
	assert.InDelta(t, expected, HaversineRelative(pt(0, 0), pt(1, 0)), 1e-15)

	// latitude difference contributes through the phi term
	assert.InDelta(t, expected, HaversineRelative(pt(0, 0), pt(0, 1)), 1e-15)
}

func TestSphericalLawOfCosines(t *testing.T) {
	// quarter of the equator
	assert.InDelta(t, math.Pi/2, SphericalLawOfCosines(pt(0, 0), pt(90, 0)), 1e-12)
	// pole to equator
	assert.InDelta(t, math.Pi/2, SphericalLawOfCosines(pt(0, 90), pt(45, 0)), 1e-12)
	// nearly identical points must not produce NaN
	d := SphericalLawOfCosines(pt(12.5, 45.1), pt(12.5, 45.1))
	assert.False(t, math.IsNaN(d))
}

func TestEquirectangularAgreesOnShortRanges(t *testing.T) {
	a, b := pt(2.35, 48.85), pt(2.36, 48.86)
	angle := SphericalLawOfCosines(a, b)
	assert.InEpsilon(t, angle*angle, Equirectangular(a, b), 1e-3)
}

func TestLookup(t *testing.T) {
	fn, err := Lookup("Haversine")
	require.NoError(t, err)
	assert.Equal(t, HaversineRelative(pt(1, 2), pt(3, 4)), fn(pt(1, 2), pt(3, 4)))

	_, err = Lookup("manhattan")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMetric))

	assert.Equal(t, []string{"cosines", "equirectangular", "euclidean", "haversine"}, Names())
	assert.True(t, Geographic("haversine"))
	assert.False(t, Geographic("euclidean"))
	assert.False(t, Geographic("nope"))
}
