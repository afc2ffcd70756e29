package record

import (
	"fmt"
	"strings"
)

// Resolver extracts a candidate value from a record.
type Resolver func(r Record) (any, bool)

// Kind decides how a field's candidates are accepted and rendered.
type Kind int

const (
	KindText Kind = iota
	KindNumber
)

// Field is one logical value with its fallback chain.
// The first candidate that yields a usable value wins; otherwise Default is used.
type Field struct {
	Name    string
	Kind    Kind
	Chain   []Resolver
	Default any
}

// Value returns the resolved value: a string for text fields, a float64 for numeric
// fields, or Default.
func (f Field) Value(r Record) any {
	for _, resolve := range f.Chain {
		v, ok := resolve(r)
		if !ok {
			continue
		}
		switch f.Kind {
		case KindNumber:
			if n, ok := Number(v); ok {
				return n
			}
		default:
			if s := Text(v); s != "" {
				return s
			}
		}
	}
	return f.Default
}

// Text renders the resolved value.
func (f Field) Text(r Record) string {
	return Text(f.Value(r))
}

// Number returns the resolved value as a number, 0 when nothing numeric resolves.
func (f Field) Number(r Record) float64 {
	n, _ := Number(f.Value(r))
	return n
}

// Raw returns the first candidate value as-is, without kind coercion.
func (f Field) Raw(r Record) (any, bool) {
	for _, resolve := range f.Chain {
		if v, ok := resolve(r); ok {
			return v, true
		}
	}
	return nil, false
}

// Schema is the ordered column set of one record kind.
type Schema struct {
	Kind   string
	Fields []Field
}

func (s Schema) Header() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

func (s Schema) Row(r Record) []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Text(r)
	}
	return out
}

func (s Schema) Rows(records []Record) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, s.Row(r))
	}
	return out
}

/* ================= resolvers ================= */

// Key yields any non-null value at path.
func Key(path string) Resolver {
	return func(r Record) (any, bool) {
		return r.Lookup(path)
	}
}

// StringKey yields the value at path only when it is a non-empty string.
func StringKey(path string) Resolver {
	return func(r Record) (any, bool) {
		v, ok := r.Lookup(path)
		if !ok {
			return nil, false
		}
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		return s, true
	}
}

// Joined concatenates the non-empty texts at paths with sep.
func Joined(sep string, paths ...string) Resolver {
	return func(r Record) (any, bool) {
		parts := make([]string, 0, len(paths))
		for _, p := range paths {
			v, ok := r.Lookup(p)
			if !ok {
				continue
			}
			if s := strings.TrimSpace(Text(v)); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return nil, false
		}
		return strings.Join(parts, sep), true
	}
}

// Count yields the length of the array at path.
func Count(path string) Resolver {
	return func(r Record) (any, bool) {
		v, ok := r.Lookup(path)
		if !ok {
			return nil, false
		}
		items, ok := v.([]any)
		if !ok {
			return nil, false
		}
		return float64(len(items)), true
	}
}

// Sum adds up field over every object of the array at path.
func Sum(path string, field Field) Resolver {
	return func(r Record) (any, bool) {
		items, ok := r.List(path)
		if !ok {
			return nil, false
		}
		var total float64
		for _, item := range items {
			total += field.Number(item)
		}
		return total, true
	}
}

// Items renders the nested item list at the first present path as
// "title xQty" pairs joined by sep.
func Items(title, qty Field, sep string, paths ...string) Resolver {
	return func(r Record) (any, bool) {
		for _, p := range paths {
			items, ok := r.List(p)
			if !ok {
				continue
			}
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, fmt.Sprintf("%s x%s", title.Text(item), qty.Text(item)))
			}
			return strings.Join(parts, sep), true
		}
		return nil, false
	}
}
