package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/users")

	group.Use(authMiddleware)
	{
		group.GET("/me", h.Me)
		group.PUT("/me/profile", h.UpsertMyProfile)
		group.GET("/:id/profile", h.GetProfile)
	}
}
