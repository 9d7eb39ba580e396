package controller

import (
	"os"
	"runtime"
	"time"

	"github.com/francis-chui/rbush-knn/controller/collection"
	"github.com/francis-chui/rbush-knn/core"
	"github.com/tidwall/resp"
)

func (c *Controller) cmdStats(vs []resp.Value) (resp.Value, error) {
	if len(vs) == 0 {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	var vals []resp.Value
	var key string
	var ok bool
	for {
		vs, key, ok = tokenval(vs)
		if !ok {
			break
		}
		col := c.getCol(key)
		if col == nil {
			vals = append(vals, resp.NullValue())
			continue
		}
		b := col.Bounds()
		m := map[string]interface{}{
			"num_objects": col.Count(),
			"num_points":  col.PointCount(),
			"bounds": []resp.Value{
				resp.StringValue(ftoa(b.MinY)),
				resp.StringValue(ftoa(b.MinX)),
				resp.StringValue(ftoa(b.MaxY)),
				resp.StringValue(ftoa(b.MaxX)),
			},
		}
		vals = append(vals, resp.ArrayValue(respValuesSimpleMap(
			[]string{"num_objects", "num_points", "bounds"}, m)))
	}
	return resp.ArrayValue(vals), nil
}

func (c *Controller) cmdServer(vs []resp.Value) (resp.Value, error) {
	if len(vs) != 0 {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	var keys, objects, points int
	c.scanGreaterOrEqual("", func(key string, col *collection.Collection) bool {
		keys++
		objects += col.Count()
		points += col.PointCount()
		return true
	})
	m := map[string]interface{}{
		"id":              c.config.ServerID,
		"version":         core.Version,
		"pid":             os.Getpid(),
		"uptime":          int(time.Since(c.started) / time.Second),
		"num_collections": keys,
		"num_objects":     objects,
		"num_points":      points,
		"heap_size":       int(mem.HeapAlloc),
		"default_metric":  c.config.DefaultMetric,
		"default_limit":   c.config.DefaultLimit,
	}
	return resp.ArrayValue(respValuesSimpleMap([]string{
		"id", "version", "pid", "uptime",
		"num_collections", "num_objects", "num_points", "heap_size",
		"default_metric", "default_limit",
	}, m)), nil
}
