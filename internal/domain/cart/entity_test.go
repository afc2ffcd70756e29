package cart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "positive int", in: 3, want: 3},
		{name: "float truncated", in: 2.7, want: 2},
		{name: "zero", in: 0, want: 1},
		{name: "negative", in: -5, want: 1},
		{name: "numeric string", in: "4", want: 4},
		{name: "non numeric string", in: "abc", want: 1},
		{name: "empty string", in: "", want: 1},
		{name: "nil", in: nil, want: 1},
		{name: "nan", in: math.NaN(), want: 1},
		{name: "bool", in: true, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuantity(tt.in))
		})
	}
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 5, ParseQuantity(" 5 "))
	assert.Equal(t, 1, ParseQuantity("-2"))
	assert.Equal(t, 1, ParseQuantity("dos"))
	assert.Equal(t, 1, ParseQuantity(""))
	assert.Equal(t, 1, ParseQuantity("0.5"))
	assert.Equal(t, math.MaxInt32, ParseQuantity("1e12"))
}

func TestEntry_UnmarshalJSON(t *testing.T) {
	var entries []Entry
	err := json.Unmarshal([]byte(`[
		{"id": "p1", "qty": 2},
		{"id": 7, "qty": "3"},
		{"id": "p2"},
		{"productId": "p3", "quantity": 0}
	]`), &entries)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "7", Quantity: 3},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p3", Quantity: 1},
	}, entries)
}

func TestEntry_MarshalKeepsStoredShape(t *testing.T) {
	data, err := json.Marshal([]Entry{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1","qty":2}]`, string(data))
}

func TestNormalize_MergesDuplicates(t *testing.T) {
	got := Normalize([]Entry{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 0},
		{ProductID: "a", Quantity: 2},
		{ProductID: "", Quantity: 4},
	})

	assert.Equal(t, []Entry{{ProductID: "a", Quantity: 3}, {ProductID: "b", Quantity: 1}}, got)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(nil))
	assert.Equal(t, 5, Count([]Entry{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 3}}))
}
