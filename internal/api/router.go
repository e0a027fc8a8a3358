package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/api/handlers"
	"github.com/adeemgetnoor/customer-profile-manager/internal/api/middleware"
	"github.com/adeemgetnoor/customer-profile-manager/internal/config"
	"github.com/adeemgetnoor/customer-profile-manager/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svcs *service.Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Customer Profile Manager",
			"endpoints": []string{
				"GET /health",
				"POST /update-customer",
				"POST /update-profile",
				"GET /get-profile",
				"POST /upload-profile-image",
				"GET /wishlist",
				"POST /wishlist/add",
				"POST /wishlist/remove",
				"POST /wishlist/attach-handles",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"shop":      cfg.Shopify.ShopDomain,
		})
	})

	// Customer profile routes
	router.POST("/update-customer", handlers.HandleUpdateCustomer(svcs, logger))
	router.POST("/update-profile", handlers.HandleUpdateProfile(svcs, logger))
	router.GET("/get-profile", handlers.HandleGetProfile(svcs, logger))
	router.POST("/upload-profile-image", handlers.HandleUploadProfileImage(svcs, logger))

	// Wishlist routes
	router.GET("/wishlist", handlers.HandleGetWishlist(svcs, logger))
	router.POST("/wishlist/add", handlers.HandleWishlistAdd(svcs, logger))
	router.POST("/wishlist/remove", handlers.HandleWishlistRemove(svcs, logger))
	router.POST("/wishlist/attach-handles", handlers.HandleAttachHandles(svcs, logger))

	return router
}

// corsConfig builds the CORS policy from ALLOWED_ORIGINS.
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	allowAll := len(cfg.AllowedOrigins) == 0
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	return corsCfg
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   fmt.Sprintf("internal server error: %v", recovered),
		})
	})
}
