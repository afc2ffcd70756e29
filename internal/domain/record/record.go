// Package record reads logical values out of loosely shaped JSON objects.
//
// Historical orders, sample users and products do not share one shape, so every
// access goes through a Field: an ordered chain of candidate resolvers plus a default.
package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one decoded JSON object.
type Record map[string]any

// Decode parses a JSON array of objects. Non-object elements are skipped.
func Decode(data []byte) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		var r Record
		if err := json.Unmarshal(item, &r); err != nil || r == nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Lookup walks a dot separated path ("cliente.nombre").
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}

// Text renders a scalar the way a loosely typed UI would print it.
// Objects and arrays render as "".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return FormatNumber(t)
	case float32:
		return FormatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Number coerces numbers and numeric strings. Empty strings are not numbers.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return Number(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return Number(f)
	}
	return 0, false
}

// FormatNumber prints integers without a fractional part and other values with the
// shortest representation.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time parses the date shapes seen in stored orders. Strings without a zone are read in loc.
// Numbers are unix milliseconds.
func Time(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if layout == time.RFC3339Nano {
				if ts, err := time.Parse(layout, s); err == nil {
					return ts, true
				}
				continue
			}
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	case float64, int, int64, json.Number:
		ms, ok := Number(t)
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).In(loc), true
	}
	return time.Time{}, false
}

// List returns the array at path as records; non-object items are skipped.
func (r Record) List(path string) ([]Record, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := asMap(item); ok {
			out = append(out, Record(m))
		}
	}
	return out, true
}
