package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/matches")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Create)
		authed.PATCH("/:id", h.Update)
		authed.POST("/:id/cancel", h.Cancel)
		authed.POST("/:id/join", h.Join)
		authed.POST("/:id/leave", h.Leave)
		authed.POST("/:id/invite", h.Invite)
		authed.POST("/:id/respond", h.RespondInvitation)
		authed.POST("/:id/balance-teams", h.BalanceTeams)
		authed.POST("/:id/result", h.RecordResult)
	}
}
