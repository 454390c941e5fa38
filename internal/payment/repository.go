package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) (*Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const paymentColumns = `id, booking_id, user_id, amount, currency, status,
provider_intent_id, refunded_amount, last_refund_id, failure_message,
created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.Currency, &p.Status,
		&p.ProviderIntentID, &p.RefundedAmount, &p.LastRefundID, &p.FailureMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan payment failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Payment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.payments").
		Columns("booking_id", "user_id", "amount", "currency", "status", "provider_intent_id", "refunded_amount").
		Values(p.BookingID, p.UserID, p.Amount, p.Currency, p.Status, p.ProviderIntentID, p.RefundedAmount).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create payment query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Payment, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByBookingID(ctx context.Context, bookingID string) (*Payment, error) {
	return r.getBy(ctx, squirrel.Eq{"booking_id": bookingID})
}

func (r *pgxRepository) GetByIntentID(ctx context.Context, intentID string) (*Payment, error) {
	return r.getBy(ctx, squirrel.Eq{"provider_intent_id": intentID})
}

func (r *pgxRepository) getBy(ctx context.Context, pred squirrel.Eq) (*Payment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(paymentColumns).
		From("public.payments").
		Where(pred).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get payment query failed: %w", err)
	}
	return scanPayment(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) Update(ctx context.Context, p *Payment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.payments").
		Set("status", p.Status).
		Set("provider_intent_id", p.ProviderIntentID).
		Set("refunded_amount", p.RefundedAmount).
		Set("last_refund_id", p.LastRefundID).
		Set("failure_message", p.FailureMessage).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update payment query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update payment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
