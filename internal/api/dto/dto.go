// Package dto holds the request and response shapes exchanged with the remote
// service. Request DTOs are built from plain objects through an explicit field
// table per DTO and are immutable once constructed.
package dto

import (
	"encoding/json"
	"sort"

	"github.com/Brownie44l1/kasgo/internal/models"
)

// Object is the plain, loosely typed form of a request or response body.
type Object = map[string]any

// ParseFunc checks a raw value and returns its normalized form.
type ParseFunc func(v any) (any, error)

// Field binds a wire key, spelled exactly as the remote service expects, to its parser.
type Field struct {
	Key   string
	Parse ParseFunc
}

// Schema is the fixed, ordered field table of one DTO.
type Schema struct {
	name   string
	strict bool
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema that ignores unrecognized keys.
func NewSchema(name string, fields ...Field) *Schema {
	s := &Schema{name: name, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		s.index[f.Key] = i
	}
	return s
}

// NewStrictSchema builds a schema that rejects unrecognized keys.
func NewStrictSchema(name string, fields ...Field) *Schema {
	s := NewSchema(name, fields...)
	s.strict = true
	return s
}

// Name returns the DTO name used in validation errors.
func (s *Schema) Name() string {
	return s.name
}

// Keys returns the wire keys in table order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.Key
	}
	return keys
}

// Construct validates plain against the field table and returns the record.
// Nil values count as absent. The first invalid field aborts construction.
func (s *Schema) Construct(plain Object) (Record, error) {
	if s.strict {
		unknown := make([]string, 0)
		for k, v := range plain {
			if _, ok := s.index[k]; !ok && v != nil {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return Record{}, models.NewValidationError(s.name, unknown[0], "unsupported field")
		}
	}

	values := make(map[string]any, len(plain))
	for _, f := range s.fields {
		v, ok := plain[f.Key]
		if !ok || v == nil {
			continue
		}
		nv, err := f.Parse(v)
		if err != nil {
			return Record{}, &models.ValidationError{Object: s.name, Field: f.Key, Reason: err.Error(), Err: err}
		}
		values[f.Key] = nv
	}
	return Record{schema: s, values: values}, nil
}

// MustConstruct is Construct for static inputs known to be valid.
func (s *Schema) MustConstruct(plain Object) Record {
	r, err := s.Construct(plain)
	if err != nil {
		panic(err)
	}
	return r
}

// Record is a validated DTO value. The zero Record has no fields set.
type Record struct {
	schema *Schema
	values map[string]any
}

// Schema returns the schema the record was built from, nil for the zero Record.
func (r Record) Schema() *Schema {
	return r.schema
}

// IsZero reports whether no field is set.
func (r Record) IsZero() bool {
	return len(r.values) == 0
}

// Has reports whether key is set.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Get returns the normalized value of key.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String returns key as a string, or "" when unset.
func (r Record) String(key string) string {
	s, _ := r.values[key].(string)
	return s
}

// Keys returns the set keys in table order.
func (r Record) Keys() []string {
	if r.schema == nil {
		return nil
	}
	keys := make([]string, 0, len(r.values))
	for _, f := range r.schema.fields {
		if _, ok := r.values[f.Key]; ok {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// ToObject returns a fresh plain object holding only the set fields.
func (r Record) ToObject() Object {
	out := make(Object, len(r.values))
	for k, v := range r.values {
		out[k] = plainValue(v)
	}
	return out
}

// MarshalJSON encodes the set fields only.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToObject())
}

// with returns a copy of r with key replaced, or removed when v is nil.
func (r Record) with(key string, v any) Record {
	values := make(map[string]any, len(r.values)+1)
	for k, old := range r.values {
		values[k] = old
	}
	if v == nil {
		delete(values, key)
	} else {
		values[key] = v
	}
	return Record{schema: r.schema, values: values}
}

func plainValue(v any) any {
	switch t := v.(type) {
	case Record:
		return t.ToObject()
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}
