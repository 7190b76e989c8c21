package domain

import (
	"fmt"
	"strconv"
)

// VectorFieldPrefix prefixes the per-dimensionality vector fields.
const VectorFieldPrefix = "solr_vector_"

// DefaultVectorDims are the embedding lengths the default schema
// carries a vector field for.
var DefaultVectorDims = []int{768, 1536, 3072}

// VectorFieldResolver maps an embedding's dimensionality to the index
// field holding vectors of that size. The index defines one field per
// supported dimensionality; every call site attaching a vector must go
// through the resolver rather than naming a field directly.
type VectorFieldResolver struct {
	fields map[int]string
}

// NewVectorFieldResolver returns a resolver for the given supported
// dimensionalities. With no arguments it supports DefaultVectorDims.
func NewVectorFieldResolver(dims ...int) VectorFieldResolver {
	if len(dims) == 0 {
		dims = DefaultVectorDims
	}
	fields := make(map[int]string, len(dims))
	for _, d := range dims {
		fields[d] = VectorFieldName(d)
	}
	return VectorFieldResolver{fields: fields}
}

// FieldFor resolves the field for a vector from its length. It fails
// with ErrUnsupportedDimension when no field is configured for that
// length.
func (r VectorFieldResolver) FieldFor(vector []float32) (string, error) {
	field, ok := r.fields[len(vector)]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedDimension, len(vector))
	}
	return field, nil
}

// Fields returns the supported field names keyed by dimensionality.
func (r VectorFieldResolver) Fields() map[int]string {
	out := make(map[int]string, len(r.fields))
	for d, f := range r.fields {
		out[d] = f
	}
	return out
}

// VectorFieldName derives the field name for a dimensionality.
func VectorFieldName(dim int) string {
	return VectorFieldPrefix + strconv.Itoa(dim)
}

// IsVectorField reports whether a field name is one of the
// per-dimensionality vector fields.
func IsVectorField(name string) bool {
	return len(name) > len(VectorFieldPrefix) && name[:len(VectorFieldPrefix)] == VectorFieldPrefix
}
