package service

import (
	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/config"
	"github.com/adeemgetnoor/customer-profile-manager/internal/products"
	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
)

// Services bundles the request-scoped collaborators handed to the HTTP layer.
type Services struct {
	Wishlist *WishlistService
	Profile  *ProfileService
	Upload   *UploadService
}

// NewServices wires the Shopify client, product lookup and services together.
func NewServices(cfg config.ShopifyConfig, logger *zap.Logger) *Services {
	client := shopify.NewClient(cfg, logger)
	lookup := products.NewClient(client, logger)
	return &Services{
		Wishlist: NewWishlistService(client, lookup, logger),
		Profile:  NewProfileService(client, logger),
		Upload:   NewUploadService(client, logger),
	}
}
