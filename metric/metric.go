// Package metric provides point to point distance functions used to rank
// nearest neighbors.
//
// The functions are relative: they preserve the order of the true distance
// but are not necessarily the distance itself. The geographic variants take
// (longitude, latitude) points in degrees.
package metric

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/francis-chui/rbush-knn/geom"
)

// Func returns a value that grows with the distance between a and b.
type Func func(a, b geom.Point) float64

// ErrUnknownMetric is returned by Lookup for an unregistered name.
var ErrUnknownMetric = errors.New("unknown metric")

const radians = math.Pi / 180

// SquaredEuclidean is the planar distance squared. It is the default metric.
func SquaredEuclidean(a, b geom.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// HaversineRelative returns the square of half the chord length between a and
// b on the unit sphere, the inner term of the haversine formula.
func HaversineRelative(a, b geom.Point) float64 {
	phi1 := a.Y * radians
	phi2 := b.Y * radians
	dphi := (b.Y - a.Y) * radians
	dlambda := (b.X - a.X) * radians

	sinPhi := math.Sin(dphi / 2)
	sinLambda := math.Sin(dlambda / 2)
	return sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
}

// SphericalLawOfCosines returns the central angle between a and b in radians.
// It loses precision for points a few meters apart; prefer HaversineRelative
// there.
func SphericalLawOfCosines(a, b geom.Point) float64 {
	phi1 := a.Y * radians
	phi2 := b.Y * radians
	dlambda := (b.X - a.X) * radians

	c := math.Sin(phi1)*math.Sin(phi2) + math.Cos(phi1)*math.Cos(phi2)*math.Cos(dlambda)
	// rounding can push identical points just past 1
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

// Equirectangular returns the squared central angle using the equirectangular
// projection. Cheapest of the geographic metrics, accurate over short ranges
// away from the poles.
func Equirectangular(a, b geom.Point) float64 {
	lambda1, lambda2 := a.X*radians, b.X*radians
	phi1, phi2 := a.Y*radians, b.Y*radians

	x := (lambda2 - lambda1) * math.Cos((phi1+phi2)/2)
	y := phi2 - phi1
	return x*x + y*y
}

type entry struct {
	fn  Func
	geo bool
}

var registry = map[string]entry{
	"euclidean":       {SquaredEuclidean, false},
	"haversine":       {HaversineRelative, true},
	"cosines":         {SphericalLawOfCosines, true},
	"equirectangular": {Equirectangular, true},
}

// Lookup returns the metric registered under name. Names are case insensitive.
func Lookup(name string) (Func, error) {
	e, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return e.fn, nil
}

// Geographic reports whether the named metric expects (lon, lat) degrees.
func Geographic(name string) bool {
	return registry[strings.ToLower(name)].geo
}

// Names returns the registered metric names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
