package listing

import (
	"renthome/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers browse endpoints (no auth)
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	listings := r.Group("/listings")
	{
		listings.GET("", h.Browse)
		listings.GET("/:id", h.Get)
	}
}

// RegisterOwnerRoutes registers owner-scoped endpoints (auth required)
func RegisterOwnerRoutes(r *gin.RouterGroup, h *Handler) {
	listings := r.Group("/listings")
	{
		listings.GET("/mine", middleware.RequireRole("owner"), h.Mine)
		listings.POST("", middleware.RequireRole("owner"), h.Create)
		listings.PATCH("/:id", middleware.RequireRole("owner"), h.Update)
	}
}
