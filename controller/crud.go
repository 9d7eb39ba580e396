package controller

import (
	"strings"

	"github.com/francis-chui/rbush-knn/controller/collection"
	"github.com/francis-chui/rbush-knn/controller/server"
	"github.com/google/btree"
	"github.com/tidwall/resp"
)

func (c *Controller) cmdGet(vs []resp.Value) (resp.Value, error) {
	var ok bool
	var key, id, typ string
	if vs, key, ok = tokenval(vs); !ok || key == "" {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	if vs, id, ok = tokenval(vs); !ok || id == "" {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	if vs, typ, ok = tokenval(vs); !ok {
		typ = "object"
	}
	if len(vs) != 0 {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	col := c.getCol(key)
	if col == nil {
		return resp.NullValue(), nil
	}
	o, err := col.Get(id)
	if err != nil {
		return resp.NullValue(), nil
	}
	switch strings.ToLower(typ) {
	default:
		return resp.Value{}, errInvalidArgument(typ)
	case "object":
		return resp.StringValue(o.JSON()), nil
	case "point":
		p := o.Point()
		return resp.ArrayValue([]resp.Value{
			resp.StringValue(ftoa(p.Y)),
			resp.StringValue(ftoa(p.X)),
		}), nil
	case "bounds":
		r := o.Rect()
		return resp.ArrayValue([]resp.Value{
			resp.ArrayValue([]resp.Value{resp.StringValue(ftoa(r.MinY)), resp.StringValue(ftoa(r.MinX))}),
			resp.ArrayValue([]resp.Value{resp.StringValue(ftoa(r.MaxY)), resp.StringValue(ftoa(r.MaxX))}),
		}), nil
	}
}

func (c *Controller) parseSetArgs(vs []resp.Value) (d commandDetailsT, err error) {
	var ok bool
	var typ string
	if vs, d.key, ok = tokenval(vs); !ok || d.key == "" {
		return d, errInvalidNumberOfArguments
	}
	if vs, d.id, ok = tokenval(vs); !ok || d.id == "" {
		return d, errInvalidNumberOfArguments
	}
	if vs, typ, ok = tokenval(vs); !ok || typ == "" {
		return d, errInvalidNumberOfArguments
	}
	switch strings.ToLower(typ) {
	default:
		return d, errInvalidArgument(typ)
	case "point":
		var lat, lon float64
		if vs, lat, err = tokenfloat(vs); err != nil {
			return d, err
		}
		if vs, lon, err = tokenfloat(vs); err != nil {
			return d, err
		}
		d.obj = collection.PointObject(lat, lon)
	case "bounds":
		var vals [4]float64
		for i := range vals {
			if vs, vals[i], err = tokenfloat(vs); err != nil {
				return d, err
			}
		}
		d.obj = collection.BoundsObject(vals[0], vals[1], vals[2], vals[3])
	case "object":
		var obj string
		if vs, obj, ok = tokenval(vs); !ok || obj == "" {
			return d, errInvalidNumberOfArguments
		}
		if d.obj, err = collection.ParseObject(obj); err != nil {
			return d, err
		}
	}
	if len(vs) != 0 {
		return d, errInvalidNumberOfArguments
	}
	return d, nil
}

func (c *Controller) cmdSet(vs []resp.Value) (res resp.Value, d commandDetailsT, err error) {
	if d, err = c.parseSetArgs(vs); err != nil {
		return
	}
	col := c.getCol(d.key)
	if col == nil {
		col = collection.New()
		c.setCol(d.key, col)
	}
	col.ReplaceOrInsert(d.id, d.obj)
	d.command = "set"
	d.updated = true
	return server.OKMessage(), d, nil
}

func (c *Controller) cmdDel(vs []resp.Value) (res resp.Value, d commandDetailsT, err error) {
	var ok bool
	if vs, d.key, ok = tokenval(vs); !ok || d.key == "" {
		return resp.Value{}, d, errInvalidNumberOfArguments
	}
	if vs, d.id, ok = tokenval(vs); !ok || d.id == "" {
		return resp.Value{}, d, errInvalidNumberOfArguments
	}
	if len(vs) != 0 {
		return resp.Value{}, d, errInvalidNumberOfArguments
	}
	d.command = "del"
	col := c.getCol(d.key)
	if col != nil {
		d.obj, d.updated = col.Remove(d.id)
		if col.Count() == 0 {
			c.deleteCol(d.key)
		}
	}
	if d.updated {
		return resp.IntegerValue(1), d, nil
	}
	return resp.IntegerValue(0), d, nil
}

func (c *Controller) cmdDrop(vs []resp.Value) (res resp.Value, d commandDetailsT, err error) {
	var ok bool
	if vs, d.key, ok = tokenval(vs); !ok || d.key == "" {
		return resp.Value{}, d, errInvalidNumberOfArguments
	}
	if len(vs) != 0 {
		return resp.Value{}, d, errInvalidNumberOfArguments
	}
	d.command = "drop"
	if c.deleteCol(d.key) != nil {
		d.updated = true
		return resp.IntegerValue(1), d, nil
	}
	return resp.IntegerValue(0), d, nil
}

func (c *Controller) cmdFlushDB(vs []resp.Value) (res resp.Value, d commandDetailsT, err error) {
	if len(vs) != 0 {
		return resp.Value{}, d, errInvalidNumberOfArguments
	}
	c.cols = btree.New(16)
	d.command = "flushdb"
	d.updated = true
	return server.OKMessage(), d, nil
}
