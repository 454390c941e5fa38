package match

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "match not found")
	ErrParticipantNotFound = apperror.New(http.StatusNotFound, "you are not a participant of this match")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, "only the organizer can perform this action")
	ErrNotJoinable         = apperror.New(http.StatusBadRequest, "match is not open for joining")
	ErrMatchFull           = apperror.New(http.StatusBadRequest, "match is already full")
	ErrAlreadyJoined       = apperror.New(http.StatusConflict, "you already joined this match")
	ErrSkillOutOfRange     = apperror.New(http.StatusBadRequest, "your skill level does not match this match's requirements")
	ErrOrganizerLeave      = apperror.New(http.StatusBadRequest, "the organizer cannot leave their own match, cancel it instead")
	ErrMatchLocked         = apperror.New(http.StatusBadRequest, "match is in progress or finished")
	ErrInvalidFormat       = apperror.New(http.StatusBadRequest, "invalid match format")
	ErrInvalidSkillBounds  = apperror.New(http.StatusBadRequest, "minimum skill level cannot exceed maximum")
	ErrNotInvited          = apperror.New(http.StatusBadRequest, "no pending invitation for this match")
)

type Format string

const (
	Format5v5    Format = "5v5"
	Format7v7    Format = "7v7"
	Format11v11  Format = "11v11"
	FormatFutsal Format = "futsal"
)

// DefaultMaxPlayers maps a format to its full headcount.
var DefaultMaxPlayers = map[Format]int{
	Format5v5:    10,
	Format7v7:    14,
	Format11v11:  22,
	FormatFutsal: 10,
}

type Type string

const (
	TypePublic     Type = "public"
	TypePrivate    Type = "private"
	TypeInviteOnly Type = "invite_only"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusFull       Status = "full"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Team string

const (
	TeamA          Team = "A"
	TeamB          Team = "B"
	TeamUnassigned Team = "unassigned"
)

type ParticipantStatus string

const (
	ParticipantInvited   ParticipantStatus = "invited"
	ParticipantConfirmed ParticipantStatus = "confirmed"
	ParticipantDeclined  ParticipantStatus = "declined"
	ParticipantCancelled ParticipantStatus = "cancelled"
)

// Match is a pickup game organized on top of a booking. Players join until
// the match reaches MaxPlayers, at which point it flips to full.
type Match struct {
	ID          string
	OrganizerID string
	BookingID   *string
	PitchID     string

	Title       string
	Description string

	Format Format
	Type   Type

	Date      time.Time
	StartTime string
	EndTime   string

	MinSkillLevel int
	MaxSkillLevel int
	MaxPlayers    int

	CostPerPlayer decimal.Decimal
	Currency      string

	Status        Status
	TeamsAssigned bool

	ScoreTeamA *int
	ScoreTeamB *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant links a user to a match with their team assignment and
// per-match stat line.
type Participant struct {
	ID      string
	MatchID string
	UserID  string

	Status ParticipantStatus
	Team   Team

	Goals      int
	Assists    int
	CleanSheet bool

	JoinedAt  time.Time
	UpdatedAt time.Time
}

// Filter defines search parameters for listing matches.
type Filter struct {
	PitchID     string
	OrganizerID string
	Format      string
	Type        string
	Status      string
	FromDate    *time.Time
	ToDate      *time.Time
	Page        int
	PageSize    int
}

// PlayerResult is one line of a recorded match result.
type PlayerResult struct {
	UserID     string
	Goals      int
	Assists    int
	CleanSheet bool
}
