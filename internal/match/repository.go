package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, m *Match) error
	GetByID(ctx context.Context, id string) (*Match, error)
	List(ctx context.Context, filter Filter) ([]*Match, int, error)
	Update(ctx context.Context, m *Match) error

	AddParticipant(ctx context.Context, p *Participant) error
	GetParticipant(ctx context.Context, matchID, userID string) (*Participant, error)
	ListParticipants(ctx context.Context, matchID string) ([]*Participant, error)
	UpdateParticipant(ctx context.Context, p *Participant) error
	// CountConfirmed counts participants holding a spot in the match.
	CountConfirmed(ctx context.Context, matchID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const matchColumns = `m.id, m.organizer_id, m.booking_id, m.pitch_id,
m.title, m.description, m.format, m.type,
m.date, m.start_time, m.end_time,
m.min_skill_level, m.max_skill_level, m.max_players,
m.cost_per_player, m.currency,
m.status, m.teams_assigned, m.score_team_a, m.score_team_b,
m.created_at, m.updated_at`

func scanMatch(row pgx.Row, extra ...any) (*Match, error) {
	var m Match
	dest := []any{
		&m.ID, &m.OrganizerID, &m.BookingID, &m.PitchID,
		&m.Title, &m.Description, &m.Format, &m.Type,
		&m.Date, &m.StartTime, &m.EndTime,
		&m.MinSkillLevel, &m.MaxSkillLevel, &m.MaxPlayers,
		&m.CostPerPlayer, &m.Currency,
		&m.Status, &m.TeamsAssigned, &m.ScoreTeamA, &m.ScoreTeamB,
		&m.CreatedAt, &m.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan match failed: %w", err)
	}
	return &m, nil
}

func (r *pgxRepository) Create(ctx context.Context, m *Match) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.matches").
		Columns(
			"organizer_id", "booking_id", "pitch_id",
			"title", "description", "format", "type",
			"date", "start_time", "end_time",
			"min_skill_level", "max_skill_level", "max_players",
			"cost_per_player", "currency", "status",
		).
		Values(
			m.OrganizerID, m.BookingID, m.PitchID,
			m.Title, m.Description, m.Format, m.Type,
			m.Date, m.StartTime, m.EndTime,
			m.MinSkillLevel, m.MaxSkillLevel, m.MaxPlayers,
			m.CostPerPlayer, m.Currency, m.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create match query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Match, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(matchColumns).
		From("public.matches m").
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get match query failed: %w", err)
	}
	return scanMatch(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Match, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(matchColumns + ", count(*) OVER() as total_count").
		From("public.matches m")

	if filter.PitchID != "" {
		query = query.Where(squirrel.Eq{"m.pitch_id": filter.PitchID})
	}
	if filter.OrganizerID != "" {
		query = query.Where(squirrel.Eq{"m.organizer_id": filter.OrganizerID})
	}
	if filter.Format != "" {
		query = query.Where(squirrel.Eq{"m.format": filter.Format})
	}
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"m.type": filter.Type})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"m.status": filter.Status})
	}
	if filter.FromDate != nil {
		query = query.Where(squirrel.GtOrEq{"m.date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		query = query.Where(squirrel.LtOrEq{"m.date": *filter.ToDate})
	}

	query = query.OrderBy("m.date ASC", "m.start_time ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list matches query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list matches failed: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	var total int

	for rows.Next() {
		m, err := scanMatch(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		matches = append(matches, m)
	}

	return matches, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, m *Match) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.matches").
		Set("title", m.Title).
		Set("description", m.Description).
		Set("min_skill_level", m.MinSkillLevel).
		Set("max_skill_level", m.MaxSkillLevel).
		Set("max_players", m.MaxPlayers).
		Set("cost_per_player", m.CostPerPlayer).
		Set("status", m.Status).
		Set("teams_assigned", m.TeamsAssigned).
		Set("score_team_a", m.ScoreTeamA).
		Set("score_team_b", m.ScoreTeamB).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update match query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const participantColumns = `id, match_id, user_id, status, team,
goals, assists, clean_sheet, joined_at, updated_at`

func scanParticipant(row pgx.Row) (*Participant, error) {
	var p Participant
	err := row.Scan(
		&p.ID, &p.MatchID, &p.UserID, &p.Status, &p.Team,
		&p.Goals, &p.Assists, &p.CleanSheet, &p.JoinedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("scan participant failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) AddParticipant(ctx context.Context, p *Participant) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.match_participants").
		Columns("match_id", "user_id", "status", "team").
		Values(p.MatchID, p.UserID, p.Status, p.Team).
		Suffix("RETURNING id, joined_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add participant query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.JoinedAt, &p.UpdatedAt)
}

func (r *pgxRepository) GetParticipant(ctx context.Context, matchID, userID string) (*Participant, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(participantColumns).
		From("public.match_participants").
		Where(squirrel.Eq{"match_id": matchID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get participant query failed: %w", err)
	}
	return scanParticipant(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) ListParticipants(ctx context.Context, matchID string) ([]*Participant, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(participantColumns).
		From("public.match_participants").
		Where(squirrel.Eq{"match_id": matchID}).
		OrderBy("joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list participants query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants failed: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

func (r *pgxRepository) UpdateParticipant(ctx context.Context, p *Participant) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.match_participants").
		Set("status", p.Status).
		Set("team", p.Team).
		Set("goals", p.Goals).
		Set("assists", p.Assists).
		Set("clean_sheet", p.CleanSheet).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update participant query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update participant failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

func (r *pgxRepository) CountConfirmed(ctx context.Context, matchID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.match_participants").
		Where(squirrel.Eq{"match_id": matchID, "status": ParticipantConfirmed}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count participants query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count participants failed: %w", err)
	}
	return count, nil
}
