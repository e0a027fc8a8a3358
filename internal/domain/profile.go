package domain

// CustomerProfile is the storefront-facing view of a customer: the native
// Shopify fields plus the custom-namespace metafields this service manages.
type CustomerProfile struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	AlternatePhone string `json:"alternate_phone,omitempty"`
	Gender         string `json:"gender,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	ProfileImage   string `json:"profile_image,omitempty"`
}

// ProductSelector identifies a product in wishlist add/remove requests. Exactly
// one of the fields is expected, but when several are given the discrete fields
// take precedence over the Product object.
type ProductSelector struct {
	Product       *WishlistEntry `json:"product,omitempty"`
	ProductHandle string         `json:"product_handle,omitempty"`
	ProductID     string         `json:"product_id,omitempty"`
}

// Empty reports whether the selector carries nothing to act on.
func (s ProductSelector) Empty() bool {
	return s.Product == nil && s.ProductHandle == "" && s.ProductID == ""
}

// HandleMapping is one id/handle pair for the attach-handles operation.
type HandleMapping struct {
	ID     string `json:"id,omitempty"`
	Handle string `json:"handle,omitempty"`
}
