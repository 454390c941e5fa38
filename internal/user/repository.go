package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Update(ctx context.Context, u *User) error

	GetProfile(ctx context.Context, userID string) (*PlayerProfile, error)
	CreateProfile(ctx context.Context, p *PlayerProfile) error
	UpdateProfile(ctx context.Context, p *PlayerProfile) error
	ApplyMatchOutcome(ctx context.Context, userID string, outcome MatchOutcome) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const userColumns = "id, email, phone, password_hash, role, status, email_verified, phone_verified, last_login_at, created_at, updated_at, deleted_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status,
		&u.EmailVerified, &u.PhoneVerified, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user failed: %w", err)
	}
	return &u, nil
}

func (r *pgxRepository) Create(ctx context.Context, u *User) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.users").
		Columns("email", "phone", "password_hash", "role", "status").
		Values(u.Email, u.Phone, u.PasswordHash, u.Role, u.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create user query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(userColumns).
		From("public.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query failed: %w", err)
	}
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(userColumns).
		From("public.users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user by email query failed: %w", err)
	}
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(userColumns + ", count(*) OVER() as total_count").
		From("public.users")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int

	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status,
			&u.EmailVerified, &u.PhoneVerified, &u.LastLoginAt,
			&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, &u)
	}

	return users, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, u *User) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.users").
		Set("phone", u.Phone).
		Set("role", u.Role).
		Set("status", u.Status).
		Set("email_verified", u.EmailVerified).
		Set("phone_verified", u.PhoneVerified).
		Set("last_login_at", u.LastLoginAt).
		Set("deleted_at", u.DeletedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) GetProfile(ctx context.Context, userID string) (*PlayerProfile, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "user_id", "display_name", "skill_level", "positions", "bio",
		"total_matches", "wins", "draws", "losses", "goals_scored", "assists", "clean_sheets",
		"created_at", "updated_at",
	).
		From("public.player_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile query failed: %w", err)
	}

	var p PlayerProfile
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.SkillLevel, &p.Positions, &p.Bio,
		&p.TotalMatches, &p.Wins, &p.Draws, &p.Losses, &p.GoalsScored, &p.Assists, &p.CleanSheets,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) CreateProfile(ctx context.Context, p *PlayerProfile) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.player_profiles").
		Columns("user_id", "display_name", "skill_level", "positions", "bio").
		Values(p.UserID, p.DisplayName, p.SkillLevel, p.Positions, p.Bio).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create profile query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *pgxRepository) UpdateProfile(ctx context.Context, p *PlayerProfile) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.player_profiles").
		Set("display_name", p.DisplayName).
		Set("skill_level", p.SkillLevel).
		Set("positions", p.Positions).
		Set("bio", p.Bio).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": p.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *pgxRepository) ApplyMatchOutcome(ctx context.Context, userID string, outcome MatchOutcome) error {
	wins, draws, losses := 0, 0, 0
	switch {
	case outcome.Won:
		wins = 1
	case outcome.Draw:
		draws = 1
	default:
		losses = 1
	}
	cleanSheets := 0
	if outcome.CleanSheet {
		cleanSheets = 1
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.player_profiles").
		Set("total_matches", squirrel.Expr("total_matches + 1")).
		Set("wins", squirrel.Expr("wins + ?", wins)).
		Set("draws", squirrel.Expr("draws + ?", draws)).
		Set("losses", squirrel.Expr("losses + ?", losses)).
		Set("goals_scored", squirrel.Expr("goals_scored + ?", outcome.Goals)).
		Set("assists", squirrel.Expr("assists + ?", outcome.Assists)).
		Set("clean_sheets", squirrel.Expr("clean_sheets + ?", cleanSheets)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build apply outcome query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply match outcome failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
