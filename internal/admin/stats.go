package admin

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PlatformStats is the admin dashboard snapshot.
type PlatformStats struct {
	TotalUsers    int
	TotalPitches  int
	TotalBookings int
	TotalMatches  int
	TotalReviews  int

	// BookingsLast30Days counts bookings created in the trailing window.
	BookingsLast30Days int

	// Revenue sums payments that reached the succeeded state, including
	// those later partially refunded; RefundedTotal tracks the outflow.
	Revenue       decimal.Decimal
	RefundedTotal decimal.Decimal

	AverageRating decimal.Decimal
}

// StatsRepository aggregates across module tables. It reads only; all
// writes stay with the owning modules.
type StatsRepository interface {
	Platform(ctx context.Context) (*PlatformStats, error)
}

type pgxStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPgxStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &pgxStatsRepository{pool: pool}
}

func (r *pgxStatsRepository) Platform(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	counts := []struct {
		query squirrel.SelectBuilder
		dest  *int
	}{
		{squirrel.Select("count(*)").From("public.users").Where("deleted_at IS NULL"), &stats.TotalUsers},
		{squirrel.Select("count(*)").From("public.pitches").Where("deleted_at IS NULL"), &stats.TotalPitches},
		{squirrel.Select("count(*)").From("public.bookings"), &stats.TotalBookings},
		{squirrel.Select("count(*)").From("public.matches"), &stats.TotalMatches},
		{squirrel.Select("count(*)").From("public.reviews").Where("deleted_at IS NULL"), &stats.TotalReviews},
		{squirrel.Select("count(*)").From("public.bookings").Where("created_at >= now() - interval '30 days'"), &stats.BookingsLast30Days},
	}
	for _, c := range counts {
		query, args, err := c.query.PlaceholderFormat(squirrel.Dollar).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build stats count query failed: %w", err)
		}
		if err := r.pool.QueryRow(ctx, query, args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats count failed: %w", err)
		}
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"COALESCE(SUM(amount), 0)",
		"COALESCE(SUM(refunded_amount), 0)",
	).
		From("public.payments").
		Where(squirrel.Eq{"status": []string{"succeeded", "partially_refunded", "refunded"}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build revenue query failed: %w", err)
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&stats.Revenue, &stats.RefundedTotal); err != nil {
		return nil, fmt.Errorf("revenue query failed: %w", err)
	}

	query, args, err = psql.Select("COALESCE(ROUND(AVG(rating), 2), 0)").
		From("public.reviews").
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build average rating query failed: %w", err)
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&stats.AverageRating); err != nil {
		return nil, fmt.Errorf("average rating query failed: %w", err)
	}

	return stats, nil
}
