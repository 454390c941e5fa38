package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goalline/pitch-booking-backend/internal/auth"
	"github.com/goalline/pitch-booking-backend/internal/match"
	"github.com/goalline/pitch-booking-backend/internal/pkg/response"
)

type Handler struct {
	service match.Service
}

func NewHandler(service match.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateMatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	m, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), match.CreateRequest{
		PitchID:       body.PitchID,
		BookingID:     body.BookingID,
		Title:         body.Title,
		Description:   body.Description,
		Format:        match.Format(body.Format),
		Type:          match.Type(body.Type),
		Date:          date,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		MinSkillLevel: body.MinSkillLevel,
		MaxSkillLevel: body.MaxSkillLevel,
		MaxPlayers:    body.MaxPlayers,
		CostPerPlayer: body.CostPerPlayer,
		Currency:      body.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewMatchResponse(m))
}

func (h *Handler) List(c *gin.Context) {
	var q ListMatchesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := match.Filter{
		PitchID:  q.PitchID,
		Format:   q.Format,
		Type:     q.Type,
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.FromDate != "" {
		from, err := time.Parse("2006-01-02", q.FromDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from_date, expected YYYY-MM-DD"})
			return
		}
		filter.FromDate = &from
	}
	if q.ToDate != "" {
		to, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to_date, expected YYYY-MM-DD"})
			return
		}
		filter.ToDate = &to
	}

	matches, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]MatchResponse, len(matches))
	for i, m := range matches {
		items[i] = NewMatchResponse(m)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := MatchDetailResponse{
		MatchResponse: NewMatchResponse(detail.Match),
		Participants:  make([]ParticipantResponse, len(detail.Participants)),
	}
	for i, p := range detail.Participants {
		resp.Participants[i] = NewParticipantResponse(p)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateMatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, auth.GetUserID(c), match.UpdateRequest{
		Title:         body.Title,
		Description:   body.Description,
		MinSkillLevel: body.MinSkillLevel,
		MaxSkillLevel: body.MaxSkillLevel,
		MaxPlayers:    body.MaxPlayers,
		CostPerPlayer: body.CostPerPlayer,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewMatchResponse(m))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	m, err := h.service.Cancel(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewMatchResponse(m))
}

func (h *Handler) Join(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	p, err := h.service.Join(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewParticipantResponse(p))
}

func (h *Handler) Leave(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Leave(c.Request.Context(), id, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Invite(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body InviteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.Invite(c.Request.Context(), id, auth.GetUserID(c), body.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewParticipantResponse(p))
}

func (h *Handler) RespondInvitation(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RespondInvitationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.RespondInvitation(c.Request.Context(), id, auth.GetUserID(c), body.Accept)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewParticipantResponse(p))
}

func (h *Handler) BalanceTeams(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	participants, err := h.service.BalanceTeams(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		items[i] = NewParticipantResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"participants": items})
}

func (h *Handler) RecordResult(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RecordResultRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	players := make([]match.PlayerResult, len(body.Players))
	for i, line := range body.Players {
		players[i] = match.PlayerResult{
			UserID:     line.UserID,
			Goals:      line.Goals,
			Assists:    line.Assists,
			CleanSheet: line.CleanSheet,
		}
	}

	m, err := h.service.RecordResult(c.Request.Context(), id, auth.GetUserID(c), match.ResultRequest{
		ScoreTeamA: body.ScoreTeamA,
		ScoreTeamB: body.ScoreTeamB,
		Players:    players,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewMatchResponse(m))
}
