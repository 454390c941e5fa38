package match

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
	"github.com/goalline/pitch-booking-backend/internal/timeslot"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

const (
	minSkill = 1
	maxSkill = 5
)

type CreateRequest struct {
	PitchID     string
	BookingID   *string
	Title       string
	Description string

	Format Format
	Type   Type

	Date      time.Time
	StartTime string
	EndTime   string

	MinSkillLevel int // zero means open to all
	MaxSkillLevel int
	MaxPlayers    int // zero means the format's full headcount

	CostPerPlayer decimal.Decimal
	Currency      string
}

type UpdateRequest struct {
	Title         *string
	Description   *string
	MinSkillLevel *int
	MaxSkillLevel *int
	MaxPlayers    *int
	CostPerPlayer *decimal.Decimal
}

type ResultRequest struct {
	ScoreTeamA int
	ScoreTeamB int
	Players    []PlayerResult
}

// Detail bundles a match with its participant list.
type Detail struct {
	Match        *Match
	Participants []*Participant
}

// Notifier receives match events. Delivery is best effort.
type Notifier interface {
	MatchInvitation(ctx context.Context, m *Match, inviteeID string)
	MatchCancelled(ctx context.Context, m *Match, participantIDs []string)
}

type Service interface {
	Create(ctx context.Context, organizerID string, req CreateRequest) (*Match, error)
	GetByID(ctx context.Context, id string) (*Detail, error)
	List(ctx context.Context, filter Filter) ([]*Match, int, error)
	Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Match, error)
	Cancel(ctx context.Context, id, actorID string) (*Match, error)

	Join(ctx context.Context, id, userID string) (*Participant, error)
	Leave(ctx context.Context, id, userID string) error
	Invite(ctx context.Context, id, actorID, inviteeID string) (*Participant, error)
	RespondInvitation(ctx context.Context, id, userID string, accept bool) (*Participant, error)

	// BalanceTeams splits confirmed participants into two teams by skill:
	// sorted strongest first, then dealt alternately to A and B.
	BalanceTeams(ctx context.Context, id, actorID string) ([]*Participant, error)
	// RecordResult completes the match, stores the score and per-player
	// stat lines, and feeds each participant's aggregate profile.
	RecordResult(ctx context.Context, id, actorID string, req ResultRequest) (*Match, error)
}

type service struct {
	repo     Repository
	users    user.Service
	notifier Notifier
}

func NewService(repo Repository, users user.Service, notifier Notifier) Service {
	return &service{repo: repo, users: users, notifier: notifier}
}

func (s *service) Create(ctx context.Context, organizerID string, req CreateRequest) (*Match, error) {
	max, ok := DefaultMaxPlayers[req.Format]
	if !ok {
		return nil, ErrInvalidFormat
	}
	if req.MaxPlayers > 0 {
		max = req.MaxPlayers
	}

	lo, hi := req.MinSkillLevel, req.MaxSkillLevel
	if lo == 0 {
		lo = minSkill
	}
	if hi == 0 {
		hi = maxSkill
	}
	if lo < minSkill || hi > maxSkill || lo > hi {
		return nil, ErrInvalidSkillBounds
	}

	interval, err := timeslot.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if !interval.Valid() {
		return nil, apperror.New(http.StatusBadRequest, "end time must be after start time")
	}

	typ := req.Type
	if typ == "" {
		typ = TypePublic
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "EUR"
	}

	m := &Match{
		OrganizerID:   organizerID,
		BookingID:     req.BookingID,
		PitchID:       req.PitchID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Format:        req.Format,
		Type:          typ,
		Date:          req.Date,
		StartTime:     interval.Start.String(),
		EndTime:       interval.End.String(),
		MinSkillLevel: lo,
		MaxSkillLevel: hi,
		MaxPlayers:    max,
		CostPerPlayer: req.CostPerPlayer,
		Currency:      currency,
		Status:        StatusOpen,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	// The organizer always holds the first spot.
	organizer := &Participant{
		MatchID: m.ID,
		UserID:  organizerID,
		Status:  ParticipantConfirmed,
		Team:    TeamUnassigned,
	}
	if err := s.repo.AddParticipant(ctx, organizer); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Detail, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Match: m, Participants: participants}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Match, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Match, error) {
	m, err := s.getOrganized(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusInProgress || m.Status == StatusCompleted || m.Status == StatusCancelled {
		return nil, ErrMatchLocked
	}

	if req.Title != nil {
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.MinSkillLevel != nil {
		m.MinSkillLevel = *req.MinSkillLevel
	}
	if req.MaxSkillLevel != nil {
		m.MaxSkillLevel = *req.MaxSkillLevel
	}
	if m.MinSkillLevel < minSkill || m.MaxSkillLevel > maxSkill || m.MinSkillLevel > m.MaxSkillLevel {
		return nil, ErrInvalidSkillBounds
	}
	if req.MaxPlayers != nil && *req.MaxPlayers > 0 {
		m.MaxPlayers = *req.MaxPlayers
		count, err := s.repo.CountConfirmed(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if count >= m.MaxPlayers {
			m.Status = StatusFull
		} else {
			m.Status = StatusOpen
		}
	}
	if req.CostPerPlayer != nil {
		m.CostPerPlayer = *req.CostPerPlayer
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Cancel(ctx context.Context, id, actorID string) (*Match, error) {
	m, err := s.getOrganized(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusCompleted {
		return nil, ErrMatchLocked
	}
	if m.Status == StatusCancelled {
		return m, nil
	}

	m.Status = StatusCancelled
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		participants, err := s.repo.ListParticipants(ctx, id)
		if err == nil {
			ids := make([]string, 0, len(participants))
			for _, p := range participants {
				if p.Status == ParticipantConfirmed && p.UserID != actorID {
					ids = append(ids, p.UserID)
				}
			}
			s.notifier.MatchCancelled(ctx, m, ids)
		}
	}
	return m, nil
}

func (s *service) Join(ctx context.Context, id, userID string) (*Participant, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusFull {
		return nil, ErrMatchFull
	}
	if m.Status != StatusOpen {
		return nil, ErrNotJoinable
	}

	skill, err := s.users.SkillLevel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if skill < m.MinSkillLevel || skill > m.MaxSkillLevel {
		return nil, apperror.WithDetail(ErrSkillOutOfRange,
			"this match requires skill level %d to %d", m.MinSkillLevel, m.MaxSkillLevel)
	}

	existing, err := s.repo.GetParticipant(ctx, id, userID)
	if err != nil && !errors.Is(err, ErrParticipantNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case ParticipantConfirmed, ParticipantInvited:
			return nil, ErrAlreadyJoined
		}
	}

	count, err := s.repo.CountConfirmed(ctx, id)
	if err != nil {
		return nil, err
	}
	if count >= m.MaxPlayers {
		return nil, ErrMatchFull
	}

	var p *Participant
	if existing != nil {
		// Rejoining after a decline or leave reuses the row.
		existing.Status = ParticipantConfirmed
		existing.Team = TeamUnassigned
		if err := s.repo.UpdateParticipant(ctx, existing); err != nil {
			return nil, err
		}
		p = existing
	} else {
		p = &Participant{
			MatchID: id,
			UserID:  userID,
			Status:  ParticipantConfirmed,
			Team:    TeamUnassigned,
		}
		if err := s.repo.AddParticipant(ctx, p); err != nil {
			return nil, err
		}
	}

	if count+1 >= m.MaxPlayers {
		m.Status = StatusFull
		if err := s.repo.Update(ctx, m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *service) Leave(ctx context.Context, id, userID string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.OrganizerID == userID {
		return ErrOrganizerLeave
	}
	if m.Status == StatusInProgress || m.Status == StatusCompleted {
		return ErrMatchLocked
	}

	p, err := s.repo.GetParticipant(ctx, id, userID)
	if err != nil {
		return err
	}
	if p.Status != ParticipantConfirmed && p.Status != ParticipantInvited {
		return ErrParticipantNotFound
	}

	p.Status = ParticipantCancelled
	p.Team = TeamUnassigned
	if err := s.repo.UpdateParticipant(ctx, p); err != nil {
		return err
	}

	// A departure always reopens a full match.
	if m.Status == StatusFull {
		m.Status = StatusOpen
		return s.repo.Update(ctx, m)
	}
	return nil
}

func (s *service) Invite(ctx context.Context, id, actorID, inviteeID string) (*Participant, error) {
	m, err := s.getOrganized(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusOpen {
		return nil, ErrNotJoinable
	}

	if _, err := s.users.GetByID(ctx, inviteeID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetParticipant(ctx, id, inviteeID)
	if err != nil && !errors.Is(err, ErrParticipantNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case ParticipantConfirmed, ParticipantInvited:
			return nil, ErrAlreadyJoined
		}
		existing.Status = ParticipantInvited
		if err := s.repo.UpdateParticipant(ctx, existing); err != nil {
			return nil, err
		}
		if s.notifier != nil {
			s.notifier.MatchInvitation(ctx, m, inviteeID)
		}
		return existing, nil
	}

	p := &Participant{
		MatchID: id,
		UserID:  inviteeID,
		Status:  ParticipantInvited,
		Team:    TeamUnassigned,
	}
	if err := s.repo.AddParticipant(ctx, p); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.MatchInvitation(ctx, m, inviteeID)
	}
	return p, nil
}

func (s *service) RespondInvitation(ctx context.Context, id, userID string, accept bool) (*Participant, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetParticipant(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if p.Status != ParticipantInvited {
		return nil, ErrNotInvited
	}

	if !accept {
		p.Status = ParticipantDeclined
		if err := s.repo.UpdateParticipant(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	if m.Status != StatusOpen {
		return nil, ErrNotJoinable
	}
	count, err := s.repo.CountConfirmed(ctx, id)
	if err != nil {
		return nil, err
	}
	if count >= m.MaxPlayers {
		return nil, ErrMatchFull
	}

	p.Status = ParticipantConfirmed
	if err := s.repo.UpdateParticipant(ctx, p); err != nil {
		return nil, err
	}

	if count+1 >= m.MaxPlayers {
		m.Status = StatusFull
		if err := s.repo.Update(ctx, m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *service) BalanceTeams(ctx context.Context, id, actorID string) ([]*Participant, error) {
	m, err := s.getOrganized(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusCompleted || m.Status == StatusCancelled {
		return nil, ErrMatchLocked
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	var confirmed []*Participant
	skills := make(map[string]int)
	for _, p := range participants {
		if p.Status != ParticipantConfirmed {
			continue
		}
		skill, err := s.users.SkillLevel(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		skills[p.UserID] = skill
		confirmed = append(confirmed, p)
	}

	// Strongest first, join order as tiebreak, then deal alternately so
	// both teams get a comparable skill total.
	sort.SliceStable(confirmed, func(i, j int) bool {
		return skills[confirmed[i].UserID] > skills[confirmed[j].UserID]
	})
	for i, p := range confirmed {
		if i%2 == 0 {
			p.Team = TeamA
		} else {
			p.Team = TeamB
		}
		if err := s.repo.UpdateParticipant(ctx, p); err != nil {
			return nil, err
		}
	}

	m.TeamsAssigned = true
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return confirmed, nil
}

func (s *service) RecordResult(ctx context.Context, id, actorID string, req ResultRequest) (*Match, error) {
	m, err := s.getOrganized(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusCompleted || m.Status == StatusCancelled {
		return nil, ErrMatchLocked
	}

	lines := make(map[string]PlayerResult, len(req.Players))
	for _, line := range req.Players {
		lines[line.UserID] = line
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	draw := req.ScoreTeamA == req.ScoreTeamB
	for _, p := range participants {
		if p.Status != ParticipantConfirmed {
			continue
		}

		if line, ok := lines[p.UserID]; ok {
			p.Goals = line.Goals
			p.Assists = line.Assists
			p.CleanSheet = line.CleanSheet
			if err := s.repo.UpdateParticipant(ctx, p); err != nil {
				return nil, err
			}
		}

		won := (p.Team == TeamA && req.ScoreTeamA > req.ScoreTeamB) ||
			(p.Team == TeamB && req.ScoreTeamB > req.ScoreTeamA)
		outcome := user.MatchOutcome{
			Won:        won,
			Draw:       draw,
			Goals:      p.Goals,
			Assists:    p.Assists,
			CleanSheet: p.CleanSheet,
		}
		if err := s.users.ApplyMatchOutcome(ctx, p.UserID, outcome); err != nil {
			return nil, err
		}
	}

	m.ScoreTeamA = &req.ScoreTeamA
	m.ScoreTeamB = &req.ScoreTeamB
	m.Status = StatusCompleted
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) getOrganized(ctx context.Context, id, actorID string) (*Match, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.OrganizerID != actorID {
		return nil, ErrPermissionDenied
	}
	return m, nil
}
