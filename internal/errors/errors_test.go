package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderCarriesMetadata(t *testing.T) {
	err := Newf("plant already exists: %s", "P-001").
		Component("datastore").
		Category(CategoryConflict).
		Context("plant_id", "P-001").
		Build()

	var enhanced *EnhancedError
	require.True(t, As(err, &enhanced))
	assert.Equal(t, "datastore", enhanced.GetComponent())
	assert.Equal(t, CategoryConflict, enhanced.Category)
	assert.Equal(t, "P-001", enhanced.GetContext()["plant_id"])
}

func TestCategoryHelpers(t *testing.T) {
	notFound := NotFoundError("plant", "P-001")
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConflict(notFound))

	validation := ValidationError("plant id must not be empty")
	assert.True(t, IsValidation(validation))
	assert.True(t, IsCategory(validation, CategoryValidation))
}

func TestWrapPreservesChain(t *testing.T) {
	base := NewStd("disk full")
	err := New(base).Component("datastore").Category(CategoryDatabase).Build()

	assert.True(t, Is(err, base))
}

func TestStdErrorsPassThrough(t *testing.T) {
	err := NewStd("plain")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}
