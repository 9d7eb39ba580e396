package collection

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/francis-chui/rbush-knn/geom"
	"github.com/tidwall/gjson"
)

var errInvalidGeoJSON = errors.New("invalid geojson")

// Object is a stored GeoJSON value along with its bounding rectangle.
// Coordinates follow GeoJSON, X is the longitude and Y the latitude.
type Object struct {
	json      string
	rect      geom.Rect
	positions int
	point     bool
}

// JSON returns the GeoJSON text of the object.
func (o *Object) JSON() string {
	return o.json
}

// Rect returns the bounding rectangle of the object.
func (o *Object) Rect() geom.Rect {
	return o.rect
}

// IsPoint reports whether the object is a single GeoJSON Point.
func (o *Object) IsPoint() bool {
	return o.point
}

// Point returns the object's point, or the center of its bounds.
func (o *Object) Point() geom.Point {
	if o.point {
		return geom.Point{X: o.rect.MinX, Y: o.rect.MinY}
	}
	return o.rect.Center()
}

// PositionCount returns the number of coordinates in the object.
func (o *Object) PositionCount() int {
	return o.positions
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// PointObject creates a GeoJSON Point.
func PointObject(lat, lon float64) *Object {
	return &Object{
		json:      `{"type":"Point","coordinates":[` + ftoa(lon) + `,` + ftoa(lat) + `]}`,
		rect:      geom.PointRect(geom.Point{X: lon, Y: lat}),
		positions: 1,
		point:     true,
	}
}

// BoundsObject creates a GeoJSON Polygon covering the rectangle.
func BoundsObject(minLat, minLon, maxLat, maxLon float64) *Object {
	sw := `[` + ftoa(minLon) + `,` + ftoa(minLat) + `]`
	se := `[` + ftoa(maxLon) + `,` + ftoa(minLat) + `]`
	ne := `[` + ftoa(maxLon) + `,` + ftoa(maxLat) + `]`
	nw := `[` + ftoa(minLon) + `,` + ftoa(maxLat) + `]`
	return &Object{
		json:      `{"type":"Polygon","coordinates":[[` + sw + `,` + se + `,` + ne + `,` + nw + `,` + sw + `]]}`,
		rect:      geom.Rect{MinX: minLon, MinY: minLat, MaxX: maxLon, MaxY: maxLat},
		positions: 5,
	}
}

// ParseObject parses GeoJSON. Every geometry type is accepted along with
// Feature and FeatureCollection. A top level "bbox" member overrides the
// bounds computed from the coordinates; its west edge may lie east of its
// east edge for objects crossing the antimeridian.
func ParseObject(data string) (*Object, error) {
	if !gjson.Valid(data) {
		return nil, errInvalidGeoJSON
	}
	res := gjson.Parse(data)
	if !res.IsObject() {
		return nil, errInvalidGeoJSON
	}
	o := &Object{json: res.Raw, rect: geom.EmptyRect()}
	if err := o.parse(res); err != nil {
		return nil, err
	}
	if o.positions == 0 {
		return nil, fmt.Errorf("%w: no coordinates", errInvalidGeoJSON)
	}
	if bbox := res.Get("bbox"); bbox.Exists() {
		if err := o.bbox(bbox); err != nil {
			return nil, err
		}
		return o, nil
	}
	o.point = o.positions == 1 && res.Get("type").String() == "Point"
	return o, nil
}

func (o *Object) parse(res gjson.Result) error {
	typ := res.Get("type")
	if typ.Type != gjson.String {
		return fmt.Errorf("%w: missing type", errInvalidGeoJSON)
	}
	var err error
	switch typ.String() {
	default:
		return fmt.Errorf("%w: unknown type '%s'", errInvalidGeoJSON, typ.String())
	case "Point":
		err = o.coords(res.Get("coordinates"), 0)
	case "MultiPoint", "LineString":
		err = o.coords(res.Get("coordinates"), 1)
	case "MultiLineString", "Polygon":
		err = o.coords(res.Get("coordinates"), 2)
	case "MultiPolygon":
		err = o.coords(res.Get("coordinates"), 3)
	case "GeometryCollection":
		err = o.each(res.Get("geometries"))
	case "Feature":
		geometry := res.Get("geometry")
		if !geometry.IsObject() {
			return fmt.Errorf("%w: missing geometry", errInvalidGeoJSON)
		}
		err = o.parse(geometry)
	case "FeatureCollection":
		err = o.each(res.Get("features"))
	}
	return err
}

func (o *Object) each(res gjson.Result) error {
	if !res.IsArray() {
		return errInvalidGeoJSON
	}
	var err error
	res.ForEach(func(_, value gjson.Result) bool {
		err = o.parse(value)
		return err == nil
	})
	return err
}

// coords walks a coordinates array nested depth levels above a position.
func (o *Object) coords(res gjson.Result, depth int) error {
	if !res.IsArray() {
		return fmt.Errorf("%w: invalid coordinates", errInvalidGeoJSON)
	}
	if depth == 0 {
		pos := res.Array()
		if len(pos) < 2 || pos[0].Type != gjson.Number || pos[1].Type != gjson.Number {
			return fmt.Errorf("%w: invalid position", errInvalidGeoJSON)
		}
		o.rect = o.rect.Union(geom.PointRect(geom.Point{X: pos[0].Float(), Y: pos[1].Float()}))
		o.positions++
		return nil
	}
	var err error
	res.ForEach(func(_, value gjson.Result) bool {
		err = o.coords(value, depth-1)
		return err == nil
	})
	return err
}

func (o *Object) bbox(res gjson.Result) error {
	vals := res.Array()
	if len(vals) != 4 {
		return fmt.Errorf("%w: invalid bbox", errInvalidGeoJSON)
	}
	for _, v := range vals {
		if v.Type != gjson.Number {
			return fmt.Errorf("%w: invalid bbox", errInvalidGeoJSON)
		}
	}
	o.rect = geom.Rect{
		MinX: vals[0].Float(), MinY: vals[1].Float(),
		MaxX: vals[2].Float(), MaxY: vals[3].Float(),
	}
	return nil
}
