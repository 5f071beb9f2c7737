package chat

import "github.com/gin-gonic/gin"

// RegisterRoutes registers chat REST routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	conversations := r.Group("/conversations")
	{
		conversations.POST("", h.StartConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id/messages", h.GetMessages)
		conversations.POST("/:id/messages", h.SendMessage)
		conversations.POST("/:id/read", h.MarkRead)
	}
}

// RegisterWS registers the websocket endpoint. Auth happens in the handler
// itself (token query parameter), so this sits outside the bearer group.
func RegisterWS(r *gin.RouterGroup, h *WSHandler) {
	r.GET("/ws", h.HandleWebSocket)
}
