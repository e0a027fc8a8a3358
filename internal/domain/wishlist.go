package domain

import (
	"encoding/json"
)

// WishlistEntry is one saved product reference on a customer's wishlist.
// Entries written by this service always carry at least one of ID or Handle;
// Title and Image are enrichment only and never authoritative.
type WishlistEntry struct {
	ID     string `json:"id,omitempty"`
	Handle string `json:"handle,omitempty"`
	Title  string `json:"title,omitempty"`
	Image  string `json:"image,omitempty"`
}

// SameProduct reports whether two entries refer to the same product: handles
// match when both are present, or ids match when both are present. An entry
// with neither field can never match anything.
func SameProduct(a, b WishlistEntry) bool {
	if a.Handle != "" && b.Handle != "" && a.Handle == b.Handle {
		return true
	}
	if a.ID != "" && b.ID != "" && a.ID == b.ID {
		return true
	}
	return false
}

// UnmarshalJSON accepts the historical stored shapes: a bare string or number is
// a legacy id-only entry, an object is decoded field by field.
func (e *WishlistEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = WishlistEntry{ID: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*e = WishlistEntry{ID: n.String()}
		return nil
	}
	// Legacy objects sometimes stored the id as a JSON number, so it is
	// decoded separately instead of straight into the string field.
	var obj struct {
		ID     json.RawMessage `json:"id"`
		Handle string          `json:"handle"`
		Title  string          `json:"title"`
		Image  string          `json:"image"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = WishlistEntry{Handle: obj.Handle, Title: obj.Title, Image: obj.Image}
	if len(obj.ID) > 0 {
		var id string
		if err := json.Unmarshal(obj.ID, &id); err == nil {
			e.ID = id
		} else if err := json.Unmarshal(obj.ID, &n); err == nil {
			e.ID = n.String()
		}
	}
	return nil
}

// ParseWishlist decodes the raw metafield text into a wishlist. Malformed JSON,
// a non-array value or an empty value all yield an empty list, never an error:
// a broken stored wishlist must not break reads.
func ParseWishlist(raw string) []WishlistEntry {
	if raw == "" {
		return []WishlistEntry{}
	}
	var entries []WishlistEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []WishlistEntry{}
	}
	out := make([]WishlistEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" && e.Handle == "" && e.Title == "" && e.Image == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EncodeWishlist serializes a wishlist for storage in the metafield.
// An empty (or nil) list encodes as "[]".
func EncodeWishlist(entries []WishlistEntry) string {
	if entries == nil {
		entries = []WishlistEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "[]"
	}
	return string(data)
}
