package domain

import (
	"encoding/json"
	"strconv"
)

// ValueKind discriminates the representations a field value can take.
type ValueKind int

const (
	// KindString is a scalar string value.
	KindString ValueKind = iota

	// KindInt is a scalar integer value.
	KindInt

	// KindVector is an embedding vector value.
	KindVector
)

// FieldValue is a tagged value held by a FieldMap. A field is either a
// scalar (string or int) or a vector; the tag lets assemblers and the
// query engine handle both exhaustively without runtime type
// inspection.
type FieldValue struct {
	kind ValueKind
	str  string
	num  int64
	vec  []float32
}

// String returns a scalar string field value.
func String(s string) FieldValue {
	return FieldValue{kind: KindString, str: s}
}

// Int returns a scalar integer field value.
func Int(n int64) FieldValue {
	return FieldValue{kind: KindInt, num: n}
}

// Vector returns an embedding vector field value.
func Vector(v []float32) FieldValue {
	return FieldValue{kind: KindVector, vec: v}
}

// Kind returns the value's tag.
func (v FieldValue) Kind() ValueKind { return v.kind }

// Str returns the string form of a scalar value. Integers are
// stringified; vectors return "".
func (v FieldValue) Str() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	default:
		return ""
	}
}

// IntVal returns the integer form of a scalar value, or 0.
func (v FieldValue) IntVal() int64 {
	if v.kind == KindInt {
		return v.num
	}
	return 0
}

// Vec returns the vector, or nil for scalar values.
func (v FieldValue) Vec() []float32 { return v.vec }

// MarshalJSON encodes the underlying value, so a FieldMap serialises
// directly as an index document body.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.num)
	case KindVector:
		return json.Marshal(v.vec)
	default:
		return json.Marshal(v.str)
	}
}

// FieldMap is the flattened representation of a document (or one of
// its file/chunk records) ready for indexing: field name to value.
type FieldMap map[string]FieldValue

// ID returns the record identifier, or "" when unset.
func (m FieldMap) ID() string {
	return m["id"].Str()
}

// Clone returns a shallow copy. Vector values share backing arrays;
// callers replace, never mutate, vectors.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
