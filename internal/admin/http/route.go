package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/admin")
	group.Use(authMiddleware, adminMiddleware)
	{
		group.GET("/stats", h.Stats)

		group.GET("/users", h.ListUsers)
		group.PATCH("/users/:id/status", h.SetUserStatus)
		group.PATCH("/users/:id/role", h.SetUserRole)
		group.DELETE("/users/:id", h.DeleteUser)

		group.GET("/pitches", h.ListPitches)
		group.PATCH("/pitches/:id/verify", h.SetPitchVerified)

		group.GET("/reviews/flagged", h.ListFlaggedReviews)
		group.PATCH("/reviews/:id/flag", h.SetReviewFlagged)
		group.DELETE("/reviews/:id", h.DeleteReview)
	}
}
