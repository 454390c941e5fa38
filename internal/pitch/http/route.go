package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/pitches")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("/mine", h.ListMine)
		authed.POST("", h.Create)
		authed.PATCH("/:id", h.Update)
		authed.PATCH("/:id/status", h.UpdateStatus)
		authed.DELETE("/:id", h.Delete)
	}
}
