package controller

import (
	"strings"

	"github.com/francis-chui/rbush-knn/controller/collection"
	"github.com/tidwall/resp"
)

func (c *Controller) cmdScan(vs []resp.Value) (resp.Value, error) {
	var ok bool
	var key, arg string
	var err error
	if vs, key, ok = tokenval(vs); !ok || key == "" {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	var cursor, limit int
	var hasCursor, hasLimit bool
	limit = c.config.DefaultLimit
	for len(vs) > 0 {
		vs, arg, _ = tokenval(vs)
		switch strings.ToLower(arg) {
		default:
			return resp.Value{}, errInvalidArgument(arg)
		case "cursor":
			if hasCursor {
				return resp.Value{}, errDuplicateArgument(arg)
			}
			hasCursor = true
			if vs, cursor, err = tokenlimit(vs); err != nil {
				return resp.Value{}, err
			}
		case "limit":
			if hasLimit {
				return resp.Value{}, errDuplicateArgument(arg)
			}
			hasLimit = true
			if vs, limit, err = tokenlimit(vs); err != nil {
				return resp.Value{}, err
			}
		}
	}
	items := []resp.Value{}
	var ncursor uint64
	if col := c.getCol(key); col != nil && limit > 0 {
		ncursor = col.Scan(uint64(cursor), func(id string, obj *collection.Object) bool {
			items = append(items, resp.ArrayValue([]resp.Value{
				resp.StringValue(id),
				resp.StringValue(obj.JSON()),
			}))
			return len(items) < limit
		})
	}
	return resp.ArrayValue([]resp.Value{
		resp.IntegerValue(int(ncursor)),
		resp.ArrayValue(items),
	}), nil
}
