package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorFieldResolver(t *testing.T) {
	r := NewVectorFieldResolver()

	field, err := r.FieldFor(make([]float32, 768))
	require.NoError(t, err)
	assert.Equal(t, "solr_vector_768", field)

	field, err = r.FieldFor(make([]float32, 3072))
	require.NoError(t, err)
	assert.Equal(t, "solr_vector_3072", field)

	_, err = r.FieldFor(make([]float32, 123))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDimension))
}

func TestVectorFieldResolverConfiguredDims(t *testing.T) {
	r := NewVectorFieldResolver(384)

	field, err := r.FieldFor(make([]float32, 384))
	require.NoError(t, err)
	assert.Equal(t, "solr_vector_384", field)

	_, err = r.FieldFor(make([]float32, 768))
	assert.True(t, errors.Is(err, ErrUnsupportedDimension))
}

func TestIsVectorField(t *testing.T) {
	assert.True(t, IsVectorField("solr_vector_768"))
	assert.False(t, IsVectorField("solr_fileid"))
	assert.False(t, IsVectorField("content"))
}
