// Package company flattens sparse company API records into fixed export rows.
package company

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one company object as returned by the API. Its shape is not
// guaranteed: any key may be absent, null or an empty object.
type Record map[string]any

// Value is an optional field read from a Record.
type Value struct {
	v       any
	present bool
}

// Get walks nested objects along path. A missing or non-object parent reads
// as an empty object, so Get never fails; it reports absence instead.
// Null, "", 0, false, {} and [] count as absent.
func (r Record) Get(path ...string) Value {
	var cur any = map[string]any(r)
	for _, key := range path {
		obj, ok := asObject(cur)
		if !ok {
			return Value{}
		}
		cur = obj[key]
	}
	return Value{v: cur, present: truthy(cur)}
}

// Present reports whether the field holds a non-empty value.
func (v Value) Present() bool { return v.present }

// Or returns the field as text, or def when it is absent.
func (v Value) Or(def string) string {
	if !v.present {
		return def
	}
	return text(v.v)
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case Record:
		return o, true
	default:
		return nil, false
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case Record:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, Record, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}
