package match

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalline/pitch-booking-backend/internal/user"
)

// --- fakes ---

type memRepo struct {
	matchSeq       int
	participantSeq int
	matches        map[string]*Match
	participants   map[string]*Participant // keyed by matchID|userID
}

func newMemRepo() *memRepo {
	return &memRepo{
		matches:      make(map[string]*Match),
		participants: make(map[string]*Participant),
	}
}

func pkey(matchID, userID string) string { return matchID + "|" + userID }

func (r *memRepo) Create(_ context.Context, m *Match) error {
	r.matchSeq++
	m.ID = fmt.Sprintf("match-%d", r.matchSeq)
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	clone := *m
	r.matches[m.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *memRepo) List(_ context.Context, filter Filter) ([]*Match, int, error) {
	var out []*Match
	for _, m := range r.matches {
		if filter.Status != "" && string(m.Status) != filter.Status {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, m *Match) error {
	if _, ok := r.matches[m.ID]; !ok {
		return ErrNotFound
	}
	clone := *m
	r.matches[m.ID] = &clone
	return nil
}

func (r *memRepo) AddParticipant(_ context.Context, p *Participant) error {
	r.participantSeq++
	p.ID = fmt.Sprintf("participant-%d", r.participantSeq)
	p.JoinedAt = time.Now()
	p.UpdatedAt = p.JoinedAt
	clone := *p
	r.participants[pkey(p.MatchID, p.UserID)] = &clone
	return nil
}

func (r *memRepo) GetParticipant(_ context.Context, matchID, userID string) (*Participant, error) {
	p, ok := r.participants[pkey(matchID, userID)]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memRepo) ListParticipants(_ context.Context, matchID string) ([]*Participant, error) {
	var out []*Participant
	for _, p := range r.participants {
		if p.MatchID == matchID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) UpdateParticipant(_ context.Context, p *Participant) error {
	key := pkey(p.MatchID, p.UserID)
	if _, ok := r.participants[key]; !ok {
		return ErrParticipantNotFound
	}
	clone := *p
	r.participants[key] = &clone
	return nil
}

func (r *memRepo) CountConfirmed(_ context.Context, matchID string) (int, error) {
	count := 0
	for _, p := range r.participants {
		if p.MatchID == matchID && p.Status == ParticipantConfirmed {
			count++
		}
	}
	return count, nil
}

type stubUsers struct {
	user.Service
	skills   map[string]int
	outcomes map[string]user.MatchOutcome
}

func newStubUsers() *stubUsers {
	return &stubUsers{
		skills:   make(map[string]int),
		outcomes: make(map[string]user.MatchOutcome),
	}
}

func (s *stubUsers) SkillLevel(_ context.Context, userID string) (int, error) {
	if skill, ok := s.skills[userID]; ok {
		return skill, nil
	}
	return user.DefaultSkillLevel, nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	return &user.User{ID: id}, nil
}

func (s *stubUsers) ApplyMatchOutcome(_ context.Context, userID string, outcome user.MatchOutcome) error {
	s.outcomes[userID] = outcome
	return nil
}

type stubNotifier struct {
	invitations []string
	cancelled   [][]string
}

func (n *stubNotifier) MatchInvitation(_ context.Context, _ *Match, inviteeID string) {
	n.invitations = append(n.invitations, inviteeID)
}

func (n *stubNotifier) MatchCancelled(_ context.Context, _ *Match, participantIDs []string) {
	n.cancelled = append(n.cancelled, participantIDs)
}

// --- fixtures ---

func newTestService(t *testing.T) (Service, *memRepo, *stubUsers, *stubNotifier) {
	t.Helper()
	repo := newMemRepo()
	users := newStubUsers()
	notifier := &stubNotifier{}
	return NewService(repo, users, notifier), repo, users, notifier
}

func createReq() CreateRequest {
	return CreateRequest{
		PitchID:   "pitch-1",
		Title:     "Thursday Kickabout",
		Format:    Format5v5,
		Date:      time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime: "19:00",
		EndTime:   "21:00",
	}
}

// --- tests ---

func TestCreateMatch(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "organizer", createReq())
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, m.Status)
	assert.Equal(t, 10, m.MaxPlayers, "5v5 defaults to ten players")
	assert.Equal(t, 1, m.MinSkillLevel)
	assert.Equal(t, 5, m.MaxSkillLevel)
	assert.Equal(t, TypePublic, m.Type)

	// The organizer holds the first spot.
	p, err := repo.GetParticipant(ctx, m.ID, "organizer")
	require.NoError(t, err)
	assert.Equal(t, ParticipantConfirmed, p.Status)
}

func TestCreateMatchInvalidFormat(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	req := createReq()
	req.Format = "3v3"
	_, err := svc.Create(context.Background(), "organizer", req)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCreateMatchInvalidSkillBounds(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	req := createReq()
	req.MinSkillLevel = 4
	req.MaxSkillLevel = 2
	_, err := svc.Create(context.Background(), "organizer", req)
	assert.ErrorIs(t, err, ErrInvalidSkillBounds)
}

func TestJoinMatch(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "organizer", createReq())
	require.NoError(t, err)

	p, err := svc.Join(ctx, m.ID, "player-1")
	require.NoError(t, err)
	assert.Equal(t, ParticipantConfirmed, p.Status)
	assert.Equal(t, TeamUnassigned, p.Team)

	_, err = svc.Join(ctx, m.ID, "player-1")
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestJoinMatchSkillGate(t *testing.T) {
	svc, _, users, _ := newTestService(t)
	ctx := context.Background()

	req := createReq()
	req.MinSkillLevel = 3
	req.MaxSkillLevel = 4
	m, err := svc.Create(ctx, "organizer", req)
	require.NoError(t, err)

	users.skills["rookie"] = 1
	users.skills["pro"] = 5
	users.skills["solid"] = 4

	_, err = svc.Join(ctx, m.ID, "rookie")
	assert.ErrorIs(t, err, ErrSkillOutOfRange)

	_, err = svc.Join(ctx, m.ID, "pro")
	assert.ErrorIs(t, err, ErrSkillOutOfRange)

	_, err = svc.Join(ctx, m.ID, "solid")
	assert.NoError(t, err)
}

func TestJoinFillsMatch(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	req := createReq()
	req.MaxPlayers = 3
	m, err := svc.Create(ctx, "organizer", req)
	require.NoError(t, err)

	_, err = svc.Join(ctx, m.ID, "player-1")
	require.NoError(t, err)
	_, err = svc.Join(ctx, m.ID, "player-2")
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFull, stored.Status)

	_, err = svc.Join(ctx, m.ID, "player-3")
	assert.ErrorIs(t, err, ErrMatchFull)
}

func TestLeaveMatch(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	req := createReq()
	req.MaxPlayers = 2
	m, err := svc.Create(ctx, "organizer", req)
	require.NoError(t, err)

	_, err = svc.Join(ctx, m.ID, "player-1")
	require.NoError(t, err)

	err = svc.Leave(ctx, m.ID, "organizer")
	assert.ErrorIs(t, err, ErrOrganizerLeave)

	// A departure reopens the full match.
	require.NoError(t, svc.Leave(ctx, m.ID, "player-1"))
	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, stored.Status)

	// And the player can come back.
	_, err = svc.Join(ctx, m.ID, "player-1")
	assert.NoError(t, err)
}

func TestInviteAndRespond(t *testing.T) {
	svc, _, _, notifier := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "organizer", createReq())
	require.NoError(t, err)

	_, err = svc.Invite(ctx, m.ID, "player-1", "player-2")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	p, err := svc.Invite(ctx, m.ID, "organizer", "player-2")
	require.NoError(t, err)
	assert.Equal(t, ParticipantInvited, p.Status)
	assert.Equal(t, []string{"player-2"}, notifier.invitations)

	// An invited player cannot sneak in through the join door.
	_, err = svc.Join(ctx, m.ID, "player-2")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	accepted, err := svc.RespondInvitation(ctx, m.ID, "player-2", true)
	require.NoError(t, err)
	assert.Equal(t, ParticipantConfirmed, accepted.Status)
}

func TestDeclineInvitation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "organizer", createReq())
	require.NoError(t, err)

	_, err = svc.RespondInvitation(ctx, m.ID, "player-2", true)
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	_, err = svc.Invite(ctx, m.ID, "organizer", "player-2")
	require.NoError(t, err)

	declined, err := svc.RespondInvitation(ctx, m.ID, "player-2", false)
	require.NoError(t, err)
	assert.Equal(t, ParticipantDeclined, declined.Status)

	// Declining twice is not a valid response.
	_, err = svc.RespondInvitation(ctx, m.ID, "player-2", false)
	assert.ErrorIs(t, err, ErrNotInvited)
}

func TestCancelMatchNotifiesParticipants(t *testing.T) {
	svc, repo, _, notifier := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "organizer", createReq())
	require.NoError(t, err)
	_, err = svc.Join(ctx, m.ID, "player-1")
	require.NoError(t, err)
	_, err = svc.Join(ctx, m.ID, "player-2")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, m.ID, "organizer")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	require.Len(t, notifier.cancelled, 1)
	assert.ElementsMatch(t, []string{"player-1", "player-2"}, notifier.cancelled[0])

	// Cancelled matches accept no joins.
	_, err = svc.Join(ctx, m.ID, "player-3")
	assert.ErrorIs(t, err, ErrNotJoinable)

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestBalanceTeams(t *testing.T) {
	svc, repo, users, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "organizer", createReq())
	require.NoError(t, err)

	users.skills["organizer"] = 5
	users.skills["player-1"] = 2
	users.skills["player-2"] = 4
	users.skills["player-3"] = 3

	for _, id := range []string{"player-1", "player-2", "player-3"} {
		_, err := svc.Join(ctx, m.ID, id)
		require.NoError(t, err)
	}

	balanced, err := svc.BalanceTeams(ctx, m.ID, "organizer")
	require.NoError(t, err)
	require.Len(t, balanced, 4)

	// Sorted by skill descending, then dealt alternately:
	// organizer(5)->A, player-2(4)->B, player-3(3)->A, player-1(2)->B.
	teams := make(map[string]Team)
	for _, p := range balanced {
		teams[p.UserID] = p.Team
	}
	assert.Equal(t, TeamA, teams["organizer"])
	assert.Equal(t, TeamB, teams["player-2"])
	assert.Equal(t, TeamA, teams["player-3"])
	assert.Equal(t, TeamB, teams["player-1"])

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, stored.TeamsAssigned)
}

func TestRecordResult(t *testing.T) {
	svc, repo, users, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "organizer", createReq())
	require.NoError(t, err)

	users.skills["organizer"] = 5
	users.skills["player-1"] = 1
	_, err = svc.Join(ctx, m.ID, "player-1")
	require.NoError(t, err)

	_, err = svc.BalanceTeams(ctx, m.ID, "organizer")
	require.NoError(t, err)
	// organizer(5)->A, player-1(1)->B.

	result, err := svc.RecordResult(ctx, m.ID, "organizer", ResultRequest{
		ScoreTeamA: 3,
		ScoreTeamB: 1,
		Players: []PlayerResult{
			{UserID: "organizer", Goals: 2, Assists: 1},
			{UserID: "player-1", Goals: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 3, *result.ScoreTeamA)
	assert.Equal(t, 1, *result.ScoreTeamB)

	winner := users.outcomes["organizer"]
	assert.True(t, winner.Won)
	assert.False(t, winner.Draw)
	assert.Equal(t, 2, winner.Goals)
	assert.Equal(t, 1, winner.Assists)

	loser := users.outcomes["player-1"]
	assert.False(t, loser.Won)
	assert.Equal(t, 1, loser.Goals)

	p, err := repo.GetParticipant(ctx, m.ID, "organizer")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Goals)

	// Completed matches are immutable.
	_, err = svc.RecordResult(ctx, m.ID, "organizer", ResultRequest{})
	assert.ErrorIs(t, err, ErrMatchLocked)
}
