package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/assistant")

	// === Public Routes ===
	group.POST("/check-availability", h.CheckAvailability)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("/message", h.SendMessage)
		authed.GET("/conversations", h.ListConversations)
		authed.GET("/conversations/:id", h.GetConversation)
		authed.POST("/conversations/:id/resolve", h.Resolve)
	}
}
