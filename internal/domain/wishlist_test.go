package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWishlistLegacyStrings(t *testing.T) {
	entries := ParseWishlist(`["101","202"]`)
	assert.Equal(t, []WishlistEntry{{ID: "101"}, {ID: "202"}}, entries)
}

func TestParseWishlistLegacyNumbers(t *testing.T) {
	entries := ParseWishlist(`[101, 202]`)
	assert.Equal(t, []WishlistEntry{{ID: "101"}, {ID: "202"}}, entries)
}

func TestParseWishlistMixedShapes(t *testing.T) {
	entries := ParseWishlist(`["101", {"handle":"red-shoe","title":"Red Shoe"}, {"id":303}]`)
	require.Len(t, entries, 3)
	assert.Equal(t, WishlistEntry{ID: "101"}, entries[0])
	assert.Equal(t, WishlistEntry{Handle: "red-shoe", Title: "Red Shoe"}, entries[1])
	assert.Equal(t, WishlistEntry{ID: "303"}, entries[2])
}

func TestParseWishlistMalformed(t *testing.T) {
	for _, raw := range []string{"", "not-json", `{"id":"1"}`, `null`, `42`} {
		entries := ParseWishlist(raw)
		assert.NotNil(t, entries, "raw=%q", raw)
		assert.Empty(t, entries, "raw=%q", raw)
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	once := ParseWishlist(`["101", {"handle":"a"}, {"id":"2","title":"T"}]`)
	twice := ParseWishlist(EncodeWishlist(once))
	assert.Equal(t, once, twice)
}

func TestEncodeWishlistEmpty(t *testing.T) {
	assert.Equal(t, "[]", EncodeWishlist(nil))
	assert.Equal(t, "[]", EncodeWishlist([]WishlistEntry{}))
}

func TestSameProduct(t *testing.T) {
	tests := []struct {
		name string
		a, b WishlistEntry
		want bool
	}{
		{"matching handles", WishlistEntry{Handle: "a"}, WishlistEntry{Handle: "a", ID: "9"}, true},
		{"different handles same id", WishlistEntry{Handle: "a", ID: "1"}, WishlistEntry{Handle: "b", ID: "1"}, true},
		{"different ids same handle", WishlistEntry{Handle: "a", ID: "1"}, WishlistEntry{Handle: "a", ID: "2"}, true},
		{"matching ids no handles", WishlistEntry{ID: "1"}, WishlistEntry{ID: "1"}, true},
		{"id vs handle only", WishlistEntry{ID: "1"}, WishlistEntry{Handle: "a"}, false},
		{"one handle missing falls back to id", WishlistEntry{ID: "1", Handle: "a"}, WishlistEntry{ID: "1"}, true},
		{"no identity fields", WishlistEntry{Title: "x"}, WishlistEntry{Title: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameProduct(tt.a, tt.b))
		})
	}
}

func TestSelectorEmpty(t *testing.T) {
	assert.True(t, ProductSelector{}.Empty())
	assert.False(t, ProductSelector{ProductID: "1"}.Empty())
	assert.False(t, ProductSelector{ProductHandle: "a"}.Empty())
	assert.False(t, ProductSelector{Product: &WishlistEntry{ID: "1"}}.Empty())
}
