package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goalline/pitch-booking-backend/internal/timeslot"
)

// activeStatuses are the states that occupy a slot. Cancelled and no-show
// bookings never block new reservations.
var activeStatuses = []Status{StatusPending, StatusConfirmed, StatusCompleted}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error

	// HasConflict reports whether any active booking on the pitch and date
	// overlaps the given interval. Intervals are half-open, so a booking
	// ending exactly when another starts does not conflict. excludeID, when
	// non-empty, leaves that booking out of the check.
	HasConflict(ctx context.Context, pitchID string, date time.Time, interval timeslot.Interval, excludeID string) (bool, error)

	// ListForPitchDate returns the active bookings on a pitch for one date,
	// ordered by start time. Used to compute availability.
	ListForPitchDate(ctx context.Context, pitchID string, date time.Time) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const bookingColumns = `b.id, b.user_id, b.pitch_id,
b.date, b.start_time, b.end_time, b.duration_hours,
b.total_amount, b.currency, b.status, b.payment_status,
b.notes, b.number_of_players,
b.cancelled_at, b.cancelled_by, b.cancellation_reason,
b.payment_intent_id, b.refund_id, b.refund_amount,
b.confirmed_at, b.completed_at,
b.created_at, b.updated_at`

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.UserID, &b.PitchID,
		&b.Date, &b.StartTime, &b.EndTime, &b.DurationHours,
		&b.TotalAmount, &b.Currency, &b.Status, &b.PaymentStatus,
		&b.Notes, &b.NumberOfPlayers,
		&b.CancelledAt, &b.CancelledBy, &b.CancellationReason,
		&b.PaymentIntentID, &b.RefundID, &b.RefundAmount,
		&b.ConfirmedAt, &b.CompletedAt,
		&b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"user_id", "pitch_id",
			"date", "start_time", "end_time", "duration_hours",
			"total_amount", "currency", "status", "payment_status",
			"notes", "number_of_players",
		).
		Values(
			b.UserID, b.PitchID,
			b.Date, b.StartTime, b.EndTime, b.DurationHours,
			b.TotalAmount, b.Currency, b.Status, b.PaymentStatus,
			b.Notes, b.NumberOfPlayers,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}
	return scanBooking(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns + ", count(*) OVER() as total_count").
		From("public.bookings b")

	if filter.PitchOwnerID != "" {
		query = query.
			Join("public.pitches p ON p.id = b.pitch_id").
			Where(squirrel.Eq{"p.owner_id": filter.PitchOwnerID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.PitchID != "" {
		query = query.Where(squirrel.Eq{"b.pitch_id": filter.PitchID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.PaymentStatus != "" {
		query = query.Where(squirrel.Eq{"b.payment_status": filter.PaymentStatus})
	}
	if filter.FromDate != nil {
		query = query.Where(squirrel.GtOrEq{"b.date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		query = query.Where(squirrel.LtOrEq{"b.date": *filter.ToDate})
	}

	query = query.OrderBy("b.date DESC", "b.start_time DESC")

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("payment_status", b.PaymentStatus).
		Set("notes", b.Notes).
		Set("number_of_players", b.NumberOfPlayers).
		Set("cancelled_at", b.CancelledAt).
		Set("cancelled_by", b.CancelledBy).
		Set("cancellation_reason", b.CancellationReason).
		Set("payment_intent_id", b.PaymentIntentID).
		Set("refund_id", b.RefundID).
		Set("refund_amount", b.RefundAmount).
		Set("confirmed_at", b.ConfirmedAt).
		Set("completed_at", b.CompletedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasConflict(ctx context.Context, pitchID string, date time.Time, interval timeslot.Interval, excludeID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"pitch_id": pitchID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"status": activeStatuses}).
		// Half-open overlap: existing.start < new.end AND existing.end > new.start.
		Where("start_time < ?", interval.End.String()).
		Where("end_time > ?", interval.Start.String()).
		Limit(1)

	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build conflict query failed: %w", err)
	}

	var one int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("conflict query failed: %w", err)
	}
	return true, nil
}

func (r *pgxRepository) ListForPitchDate(ctx context.Context, pitchID string, date time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Where(squirrel.Eq{"b.pitch_id": pitchID}).
		Where(squirrel.Eq{"b.date": date}).
		Where(squirrel.Eq{"b.status": activeStatuses}).
		OrderBy("b.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pitch day query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list pitch day bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
