package user

import (
	"net/http"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrProfileNotFound    = apperror.New(http.StatusNotFound, "player profile not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrSuspended          = apperror.New(http.StatusForbidden, "user account is suspended")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
	ErrInvalidSkillLevel  = apperror.New(http.StatusBadRequest, "skill level must be between 1 and 5")
)

type Role string

const (
	RolePlayer Role = "player"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

// User represents an account in the system.
type User struct {
	ID            string
	Email         string
	Phone         *string
	PasswordHash  string
	Role          Role
	Status        Status
	EmailVerified bool
	PhoneVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// DefaultSkillLevel is assumed when a player has no profile yet.
const DefaultSkillLevel = 3

// PlayerProfile holds the player-facing attributes and aggregate match stats.
type PlayerProfile struct {
	ID           string
	UserID       string
	DisplayName  string
	SkillLevel   int // 1 (beginner) to 5 (professional)
	Positions    []string
	Bio          *string
	TotalMatches int
	Wins         int
	Draws        int
	Losses       int
	GoalsScored  int
	Assists      int
	CleanSheets  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing users (admin views).
type Filter struct {
	Status   string
	Role     string
	Page     int
	PageSize int
}

// MatchOutcome is applied to a player's aggregate stats after a match result
// is recorded.
type MatchOutcome struct {
	Won        bool
	Draw       bool
	Goals      int
	Assists    int
	CleanSheet bool
}
