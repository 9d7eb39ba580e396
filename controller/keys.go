package controller

import (
	"strings"

	"github.com/francis-chui/rbush-knn/controller/collection"
	"github.com/tidwall/match"
	"github.com/tidwall/resp"
)

func (c *Controller) cmdKeys(vs []resp.Value) (resp.Value, error) {
	var pattern string
	var ok bool
	if vs, pattern, ok = tokenval(vs); !ok || pattern == "" {
		pattern = "*"
	}
	if len(vs) != 0 {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	vals := []resp.Value{}
	iterator := func(key string, col *collection.Collection) bool {
		if match.Match(key, pattern) {
			vals = append(vals, resp.StringValue(key))
		}
		return true
	}
	// a pattern with a literal prefix only needs the keys from the prefix on
	prefix := pattern
	if i := strings.IndexAny(pattern, "*?\\"); i >= 0 {
		prefix = pattern[:i]
	}
	c.scanGreaterOrEqual(prefix, func(key string, col *collection.Collection) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		return iterator(key, col)
	})
	return resp.ArrayValue(vals), nil
}
