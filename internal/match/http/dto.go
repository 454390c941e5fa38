package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/match"
)

type MatchResponse struct {
	ID          string  `json:"id"`
	OrganizerID string  `json:"organizer_id"`
	BookingID   *string `json:"booking_id,omitempty"`
	PitchID     string  `json:"pitch_id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	Format string `json:"format"`
	Type   string `json:"type"`

	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	MinSkillLevel int `json:"min_skill_level"`
	MaxSkillLevel int `json:"max_skill_level"`
	MaxPlayers    int `json:"max_players"`

	CostPerPlayer decimal.Decimal `json:"cost_per_player"`
	Currency      string          `json:"currency"`

	Status        string `json:"status"`
	TeamsAssigned bool   `json:"teams_assigned"`

	ScoreTeamA *int `json:"score_team_a,omitempty"`
	ScoreTeamB *int `json:"score_team_b,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewMatchResponse(m *match.Match) MatchResponse {
	return MatchResponse{
		ID:            m.ID,
		OrganizerID:   m.OrganizerID,
		BookingID:     m.BookingID,
		PitchID:       m.PitchID,
		Title:         m.Title,
		Description:   m.Description,
		Format:        string(m.Format),
		Type:          string(m.Type),
		Date:          m.Date.Format("2006-01-02"),
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		MinSkillLevel: m.MinSkillLevel,
		MaxSkillLevel: m.MaxSkillLevel,
		MaxPlayers:    m.MaxPlayers,
		CostPerPlayer: m.CostPerPlayer,
		Currency:      m.Currency,
		Status:        string(m.Status),
		TeamsAssigned: m.TeamsAssigned,
		ScoreTeamA:    m.ScoreTeamA,
		ScoreTeamB:    m.ScoreTeamB,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type ParticipantResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Team       string    `json:"team"`
	Goals      int       `json:"goals"`
	Assists    int       `json:"assists"`
	CleanSheet bool      `json:"clean_sheet"`
	JoinedAt   time.Time `json:"joined_at"`
}

func NewParticipantResponse(p *match.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Status:     string(p.Status),
		Team:       string(p.Team),
		Goals:      p.Goals,
		Assists:    p.Assists,
		CleanSheet: p.CleanSheet,
		JoinedAt:   p.JoinedAt,
	}
}

type MatchDetailResponse struct {
	MatchResponse
	Participants []ParticipantResponse `json:"participants"`
}

type CreateMatchRequest struct {
	PitchID     string  `json:"pitch_id" binding:"required,uuid"`
	BookingID   *string `json:"booking_id"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`

	Format string `json:"format" binding:"required,oneof=5v5 7v7 11v11 futsal"`
	Type   string `json:"type" binding:"omitempty,oneof=public private invite_only"`

	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`

	MinSkillLevel int `json:"min_skill_level" binding:"omitempty,min=1,max=5"`
	MaxSkillLevel int `json:"max_skill_level" binding:"omitempty,min=1,max=5"`
	MaxPlayers    int `json:"max_players" binding:"omitempty,min=2"`

	CostPerPlayer decimal.Decimal `json:"cost_per_player"`
	Currency      string          `json:"currency"`
}

type UpdateMatchRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	MinSkillLevel *int             `json:"min_skill_level" binding:"omitempty,min=1,max=5"`
	MaxSkillLevel *int             `json:"max_skill_level" binding:"omitempty,min=1,max=5"`
	MaxPlayers    *int             `json:"max_players" binding:"omitempty,min=2"`
	CostPerPlayer *decimal.Decimal `json:"cost_per_player"`
}

type InviteRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type RespondInvitationRequest struct {
	Accept bool `json:"accept"`
}

type RecordResultRequest struct {
	ScoreTeamA int                  `json:"score_team_a" binding:"min=0"`
	ScoreTeamB int                  `json:"score_team_b" binding:"min=0"`
	Players    []PlayerResultLine   `json:"players"`
}

type PlayerResultLine struct {
	UserID     string `json:"user_id" binding:"required,uuid"`
	Goals      int    `json:"goals" binding:"min=0"`
	Assists    int    `json:"assists" binding:"min=0"`
	CleanSheet bool   `json:"clean_sheet"`
}

type ListMatchesRequest struct {
	PitchID  string `form:"pitch_id"`
	Format   string `form:"format"`
	Type     string `form:"type"`
	Status   string `form:"status"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
