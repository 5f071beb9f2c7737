package visit

import (
	"renthome/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers visit routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	visits := r.Group("/visits")
	{
		visits.POST("", middleware.RequireRole("tenant"), h.Schedule)
		visits.GET("", h.List)
		visits.GET("/:id", h.Get)
		visits.POST("/:id/complete", h.Complete)
		visits.POST("/:id/cancel", h.Cancel)
		visits.POST("/:id/decision", h.SubmitDecision)
	}
}
