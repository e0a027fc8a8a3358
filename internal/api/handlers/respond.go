package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

// respondError maps the service error taxonomy onto the response envelope:
// validation and upstream user errors are the caller's fault (400, upstream
// messages passed through verbatim), anything else is a transport failure (500).
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": e.Error()})
	case *errors.ErrShopifyUserErrors:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": e.Errors})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": e.Error()})
	default:
		logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
