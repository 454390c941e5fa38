package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, rv *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	// GetByUserAndPitch looks up a user's live review of a pitch.
	GetByUserAndPitch(ctx context.Context, userID, pitchID string) (*Review, error)
	List(ctx context.Context, filter Filter) ([]*Review, int, error)
	Update(ctx context.Context, rv *Review) error
	SoftDelete(ctx context.Context, id string) error

	// UpsertHelpfulVote records a user's helpful/unhelpful vote on a review,
	// replacing any previous vote.
	UpsertHelpfulVote(ctx context.Context, reviewID, userID string, helpful bool) error
	// CountHelpfulVotes returns the current number of helpful votes.
	CountHelpfulVotes(ctx context.Context, reviewID string) (int, error)

	// RatingStats aggregates the live reviews of a pitch: the 2dp average
	// overall rating and the review count.
	RatingStats(ctx context.Context, pitchID string) (decimal.Decimal, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const reviewColumns = `id, user_id, pitch_id, booking_id,
rating, comment,
rating_surface, rating_facilities, rating_location, rating_value,
verified, owner_response, owner_responded_at,
helpful_count, flagged,
created_at, updated_at, deleted_at`

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	var rv Review
	dest := []any{
		&rv.ID, &rv.UserID, &rv.PitchID, &rv.BookingID,
		&rv.Rating, &rv.Comment,
		&rv.RatingSurface, &rv.RatingFacilities, &rv.RatingLocation, &rv.RatingValue,
		&rv.Verified, &rv.OwnerResponse, &rv.OwnerRespondedAt,
		&rv.HelpfulCount, &rv.Flagged,
		&rv.CreatedAt, &rv.UpdatedAt, &rv.DeletedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan review failed: %w", err)
	}
	return &rv, nil
}

func (r *pgxRepository) Create(ctx context.Context, rv *Review) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reviews").
		Columns(
			"user_id", "pitch_id", "booking_id",
			"rating", "comment",
			"rating_surface", "rating_facilities", "rating_location", "rating_value",
			"verified",
		).
		Values(
			rv.UserID, rv.PitchID, rv.BookingID,
			rv.Rating, rv.Comment,
			rv.RatingSurface, rv.RatingFacilities, rv.RatingLocation, rv.RatingValue,
			rv.Verified,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create review query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Review, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reviewColumns).
		From("public.reviews").
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get review query failed: %w", err)
	}
	return scanReview(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) GetByUserAndPitch(ctx context.Context, userID, pitchID string) (*Review, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reviewColumns).
		From("public.reviews").
		Where(squirrel.Eq{"user_id": userID, "pitch_id": pitchID}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user review query failed: %w", err)
	}
	return scanReview(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Review, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(reviewColumns + ", count(*) OVER() as total_count").
		From("public.reviews").
		Where("deleted_at IS NULL")

	if filter.PitchID != "" {
		query = query.Where(squirrel.Eq{"pitch_id": filter.PitchID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Verified != nil {
		query = query.Where(squirrel.Eq{"verified": *filter.Verified})
	}
	if filter.Flagged != nil {
		query = query.Where(squirrel.Eq{"flagged": *filter.Flagged})
	}

	query = query.OrderBy("created_at DESC")

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
		return nil, 0, fmt.Errorf("build list reviews query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews failed: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	var total int

	for rows.Next() {
		rv, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}

	return reviews, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, rv *Review) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reviews").
		Set("rating", rv.Rating).
		Set("comment", rv.Comment).
		Set("rating_surface", rv.RatingSurface).
		Set("rating_facilities", rv.RatingFacilities).
		Set("rating_location", rv.RatingLocation).
		Set("rating_value", rv.RatingValue).
		Set("owner_response", rv.OwnerResponse).
		Set("owner_responded_at", rv.OwnerRespondedAt).
		Set("helpful_count", rv.HelpfulCount).
		Set("flagged", rv.Flagged).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rv.ID}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update review query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update review failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SoftDelete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reviews").
		Set("deleted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete review query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete review failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpsertHelpfulVote(ctx context.Context, reviewID, userID string, helpful bool) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.review_votes").
		Columns("review_id", "user_id", "helpful").
		Values(reviewID, userID, helpful).
		Suffix("ON CONFLICT (review_id, user_id) DO UPDATE SET helpful = EXCLUDED.helpful, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build helpful vote query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("helpful vote failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) CountHelpfulVotes(ctx context.Context, reviewID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.review_votes").
		Where(squirrel.Eq{"review_id": reviewID, "helpful": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count votes query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) RatingStats(ctx context.Context, pitchID string) (decimal.Decimal, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("COALESCE(ROUND(AVG(rating), 2), 0)", "count(*)").
		From("public.reviews").
		Where(squirrel.Eq{"pitch_id": pitchID}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("build rating stats query failed: %w", err)
	}

	var avg decimal.Decimal
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&avg, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("rating stats failed: %w", err)
	}
	return avg, count, nil
}
