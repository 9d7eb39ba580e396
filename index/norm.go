package index

import (
	"math"

	"github.com/francis-chui/rbush-knn/geom"
)

// normLon wraps a longitude into [-180, 180].
func normLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func normPoint(lon, lat float64) geom.Point {
	return geom.Point{X: normLon(lon), Y: clampLat(lat)}
}

// normRect normalizes a lon/lat rectangle. A rectangle whose west edge lies
// east of its east edge crosses the antimeridian and is returned as two.
func normRect(minX, minY, maxX, maxY float64) []geom.Rect {
	minY, maxY = clampLat(minY), clampLat(maxY)
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	if maxX-minX >= 360 {
		return []geom.Rect{{MinX: -180, MinY: minY, MaxX: 180, MaxY: maxY}}
	}
	minX, maxX = normLon(minX), normLon(maxX)
	if minX <= maxX {
		return []geom.Rect{{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}}
	}
	return []geom.Rect{
		{MinX: minX, MinY: minY, MaxX: 180, MaxY: maxY},
		{MinX: -180, MinY: minY, MaxX: maxX, MaxY: maxY},
	}
}
