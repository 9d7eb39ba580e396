package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/resp"
)

var errInvalidNumberOfArguments = errors.New("invalid number of arguments")

func errInvalidArgument(arg string) error {
	return fmt.Errorf("invalid argument '%s'", arg)
}

func errDuplicateArgument(arg string) error {
	return fmt.Errorf("duplicate argument '%s'", arg)
}

func tokenval(vs []resp.Value) (nvs []resp.Value, token string, ok bool) {
	if len(vs) > 0 {
		token = vs[0].String()
		nvs = vs[1:]
		ok = true
	}
	return
}

func tokenfloat(vs []resp.Value) (nvs []resp.Value, f float64, err error) {
	nvs, s, ok := tokenval(vs)
	if !ok || s == "" {
		return nil, 0, errInvalidNumberOfArguments
	}
	f, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, 0, errInvalidArgument(s)
	}
	return nvs, f, nil
}

func tokenlimit(vs []resp.Value) (nvs []resp.Value, n int, err error) {
	nvs, s, ok := tokenval(vs)
	if !ok || s == "" {
		return nil, 0, errInvalidNumberOfArguments
	}
	n64, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n64 < 0 {
		return nil, 0, errInvalidArgument(s)
	}
	return nvs, int(n64), nil
}

func lc(s1, s2 string) bool {
	return strings.EqualFold(s1, s2)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// respValuesSimpleMap flattens a map into alternating name and value
// replies, in the order of names.
func respValuesSimpleMap(names []string, m map[string]interface{}) []resp.Value {
	var vals []resp.Value
	for _, name := range names {
		vals = append(vals, resp.StringValue(name))
		switch v := m[name].(type) {
		case int:
			vals = append(vals, resp.IntegerValue(v))
		case float64:
			vals = append(vals, resp.StringValue(ftoa(v)))
		case string:
			vals = append(vals, resp.StringValue(v))
		case []resp.Value:
			vals = append(vals, resp.ArrayValue(v))
		default:
			vals = append(vals, resp.NullValue())
		}
	}
	return vals
}
