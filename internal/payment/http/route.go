package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Webhooks authenticate through their payload signature, not a JWT.
	g.POST("/payments/webhook", h.Webhook)

	authed := g.Group("/bookings/:id/payment")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.CreateIntent)
		authed.GET("", h.Get)
		authed.POST("/confirm", h.Confirm)
		authed.POST("/refund", h.Refund)
	}
}
