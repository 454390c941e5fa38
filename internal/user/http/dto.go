package http

import (
	"time"

	"github.com/goalline/pitch-booking-backend/internal/user"
)

type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          string(u.Role),
		Status:        string(u.Status),
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

type ProfileResponse struct {
	UserID       string   `json:"user_id"`
	DisplayName  string   `json:"display_name"`
	SkillLevel   int      `json:"skill_level"`
	Positions    []string `json:"positions"`
	Bio          *string  `json:"bio,omitempty"`
	TotalMatches int      `json:"total_matches"`
	Wins         int      `json:"wins"`
	Draws        int      `json:"draws"`
	Losses       int      `json:"losses"`
	GoalsScored  int      `json:"goals_scored"`
	Assists      int      `json:"assists"`
	CleanSheets  int      `json:"clean_sheets"`
}

func NewProfileResponse(p *user.PlayerProfile) ProfileResponse {
	positions := p.Positions
	if positions == nil {
		positions = []string{}
	}
	return ProfileResponse{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		SkillLevel:   p.SkillLevel,
		Positions:    positions,
		Bio:          p.Bio,
		TotalMatches: p.TotalMatches,
		Wins:         p.Wins,
		Draws:        p.Draws,
		Losses:       p.Losses,
		GoalsScored:  p.GoalsScored,
		Assists:      p.Assists,
		CleanSheets:  p.CleanSheets,
	}
}

type UpsertProfileRequest struct {
	DisplayName string   `json:"display_name" binding:"required"`
	SkillLevel  int      `json:"skill_level" binding:"required,min=1,max=5"`
	Positions   []string `json:"positions"`
	Bio         *string  `json:"bio"`
}
