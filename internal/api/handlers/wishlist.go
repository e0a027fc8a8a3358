package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/domain"
	"github.com/adeemgetnoor/customer-profile-manager/internal/service"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

// WishlistMutateRequest is the shared add/remove payload. product_id,
// product_handle and product are alternative ways to identify the product.
type WishlistMutateRequest struct {
	CustomerID    string                `json:"customer_id"`
	Product       *domain.WishlistEntry `json:"product,omitempty"`
	ProductHandle string                `json:"product_handle,omitempty"`
	ProductID     string                `json:"product_id,omitempty"`
}

func (r WishlistMutateRequest) selector() domain.ProductSelector {
	return domain.ProductSelector{
		Product:       r.Product,
		ProductHandle: r.ProductHandle,
		ProductID:     r.ProductID,
	}
}

// AttachHandlesRequest carries id/handle repair mappings.
type AttachHandlesRequest struct {
	CustomerID string                 `json:"customer_id"`
	Mappings   []domain.HandleMapping `json:"mappings"`
}

// HandleGetWishlist handles GET /wishlist
func HandleGetWishlist(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")
		expand := c.Query("expand") == "true"

		wishlist, err := svcs.Wishlist.Get(c.Request.Context(), customerID, expand)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "wishlist": wishlist})
	}
}

// HandleWishlistAdd handles POST /wishlist/add
func HandleWishlistAdd(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WishlistMutateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid request body: " + err.Error()})
			return
		}

		wishlist, err := svcs.Wishlist.Add(c.Request.Context(), req.CustomerID, req.selector())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "wishlist": wishlist})
	}
}

// HandleWishlistRemove handles POST /wishlist/remove
func HandleWishlistRemove(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WishlistMutateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid request body: " + err.Error()})
			return
		}

		wishlist, err := svcs.Wishlist.Remove(c.Request.Context(), req.CustomerID, req.selector())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "wishlist": wishlist})
	}
}

// HandleAttachHandles handles POST /wishlist/attach-handles
func HandleAttachHandles(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AttachHandlesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid request body: " + err.Error()})
			return
		}

		wishlist, err := svcs.Wishlist.AttachHandles(c.Request.Context(), req.CustomerID, req.Mappings)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "wishlist": wishlist})
	}
}
