package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/service"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

// HandleGetProfile handles GET /get-profile
func HandleGetProfile(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")

		profile, err := svcs.Profile.GetProfile(c.Request.Context(), customerID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "customer": profile})
	}
}

// HandleUpdateCustomer handles POST /update-customer
func HandleUpdateCustomer(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UpdateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid request body: " + err.Error()})
			return
		}

		customer, err := svcs.Profile.UpdateCustomer(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "customer": customer})
	}
}

// HandleUpdateProfile handles POST /update-profile
func HandleUpdateProfile(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid request body: " + err.Error()})
			return
		}

		customer, err := svcs.Profile.UpdateProfile(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if customer == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "No metafields to update"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "customer": customer})
	}
}

// UploadProfileImageRequest carries the base64 image payload, usually a data URI.
type UploadProfileImageRequest struct {
	CustomerID string `json:"customer_id"`
	ImageURL   string `json:"image_url"`
}

// HandleUploadProfileImage handles POST /upload-profile-image
func HandleUploadProfileImage(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UploadProfileImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid request body: " + err.Error()})
			return
		}

		fileID, err := svcs.Upload.UploadProfileImage(c.Request.Context(), req.CustomerID, req.ImageURL)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "fileId": fileID})
	}
}
