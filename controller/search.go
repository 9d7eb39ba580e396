package controller

import (
	"strings"

	"github.com/francis-chui/rbush-knn/controller/collection"
	"github.com/francis-chui/rbush-knn/metric"
	"github.com/tidwall/resp"
)

type searchTokens struct {
	key         string
	limit       int
	metric      metric.Func
	withObjects bool
	lat, lon    float64
	bounds      [4]float64
}

// parseSearchTokens reads the key and the options shared by the search
// commands, up to and including the area token, which must be one of areas.
func (c *Controller) parseSearchTokens(vs []resp.Value, areas ...string) (t searchTokens, err error) {
	var ok bool
	var arg string
	if vs, t.key, ok = tokenval(vs); !ok || t.key == "" {
		return t, errInvalidNumberOfArguments
	}
	t.limit = c.config.DefaultLimit
	if t.metric, err = metric.Lookup(c.config.DefaultMetric); err != nil {
		return t, err
	}
	var hasLimit, hasMetric, hasWithObjects bool
	for {
		if vs, arg, ok = tokenval(vs); !ok || arg == "" {
			return t, errInvalidNumberOfArguments
		}
		switch strings.ToLower(arg) {
		case "limit":
			if hasLimit {
				return t, errDuplicateArgument(arg)
			}
			hasLimit = true
			if vs, t.limit, err = tokenlimit(vs); err != nil {
				return t, err
			}
			continue
		case "metric":
			if hasMetric {
				return t, errDuplicateArgument(arg)
			}
			hasMetric = true
			var name string
			if vs, name, ok = tokenval(vs); !ok || name == "" {
				return t, errInvalidNumberOfArguments
			}
			if t.metric, err = metric.Lookup(name); err != nil {
				return t, errInvalidArgument(name)
			}
			continue
		case "withobjects":
			if hasWithObjects {
				return t, errDuplicateArgument(arg)
			}
			hasWithObjects = true
			t.withObjects = true
			continue
		}
		break
	}
	area := strings.ToLower(arg)
	found := false
	for _, a := range areas {
		if a == area {
			found = true
			break
		}
	}
	if !found {
		return t, errInvalidArgument(arg)
	}
	switch area {
	case "point":
		if vs, t.lat, err = tokenfloat(vs); err != nil {
			return t, err
		}
		if vs, t.lon, err = tokenfloat(vs); err != nil {
			return t, err
		}
	case "bounds":
		for i := range t.bounds {
			if vs, t.bounds[i], err = tokenfloat(vs); err != nil {
				return t, err
			}
		}
	}
	if len(vs) != 0 {
		return t, errInvalidNumberOfArguments
	}
	return t, nil
}

// cmdNearby replies with the ids nearest to a point, nearest first, each
// as an [id, distance] pair, or [id, distance, object] with WITHOBJECTS.
func (c *Controller) cmdNearby(vs []resp.Value) (resp.Value, error) {
	t, err := c.parseSearchTokens(vs, "point")
	if err != nil {
		return resp.Value{}, err
	}
	vals := []resp.Value{}
	col := c.getCol(t.key)
	if col == nil || t.limit == 0 {
		return resp.ArrayValue(vals), nil
	}
	col.Nearby(t.lat, t.lon, t.metric, func(id string, obj *collection.Object, dist float64) bool {
		item := []resp.Value{resp.StringValue(id), resp.StringValue(ftoa(dist))}
		if t.withObjects {
			item = append(item, resp.StringValue(obj.JSON()))
		}
		vals = append(vals, resp.ArrayValue(item))
		return len(vals) < t.limit
	})
	return resp.ArrayValue(vals), nil
}

// cmdIntersects replies with the ids whose bounds intersect a rectangle.
func (c *Controller) cmdIntersects(vs []resp.Value) (resp.Value, error) {
	t, err := c.parseSearchTokens(vs, "bounds")
	if err != nil {
		return resp.Value{}, err
	}
	vals := []resp.Value{}
	col := c.getCol(t.key)
	if col == nil || t.limit == 0 {
		return resp.ArrayValue(vals), nil
	}
	col.Search(t.bounds[0], t.bounds[1], t.bounds[2], t.bounds[3], func(id string, obj *collection.Object) bool {
		if t.withObjects {
			vals = append(vals, resp.ArrayValue([]resp.Value{resp.StringValue(id), resp.StringValue(obj.JSON())}))
		} else {
			vals = append(vals, resp.StringValue(id))
		}
		return len(vals) < t.limit
	})
	return resp.ArrayValue(vals), nil
}
