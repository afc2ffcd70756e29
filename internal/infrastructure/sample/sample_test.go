package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledDatasetsDecode(t *testing.T) {
	products := Products()
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.GreaterOrEqual(t, p.Price, float64(0))
	}

	assert.Len(t, ProductRecords(), len(products))
	assert.Len(t, UserRecords(), 2)
	assert.Len(t, OrderRecords(), 3)
	assert.Len(t, ContactRecords(), 3)
}

func TestDatasetsAreIndependentCopies(t *testing.T) {
	a := OrderRecords()
	a[0]["id"] = "changed"

	assert.Equal(t, "ord-1001", OrderRecords()[0]["id"])
}
