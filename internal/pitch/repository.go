package pitch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *Pitch) error
	GetByID(ctx context.Context, id string) (*Pitch, error)
	List(ctx context.Context, filter Filter) ([]*Pitch, int, error)
	Update(ctx context.Context, p *Pitch) error
	SoftDelete(ctx context.Context, id string) error

	// IncrementTotalBookings bumps the externally-owned booking counter.
	IncrementTotalBookings(ctx context.Context, id string) error
	// SetRatingStats replaces the aggregate review stats (review module command).
	SetRatingStats(ctx context.Context, id string, averageRating decimal.Decimal, totalReviews int) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const pitchColumns = `id, owner_id, name, description,
address, city, country, postal_code, latitude, longitude,
surface_type, capacity, length, width, indoor, lighting, amenities,
hourly_rate, peak_hour_rate, currency, business_hours,
rules, cancellation_policy, min_cancellation_hours,
images, video_url,
average_rating, total_reviews, total_bookings,
status, verified, instant_booking,
created_at, updated_at, deleted_at`

func scanPitch(row pgx.Row, extra ...any) (*Pitch, error) {
	var p Pitch
	dest := []any{
		&p.ID, &p.OwnerID, &p.Name, &p.Description,
		&p.Address, &p.City, &p.Country, &p.PostalCode, &p.Latitude, &p.Longitude,
		&p.SurfaceType, &p.Capacity, &p.Length, &p.Width, &p.Indoor, &p.Lighting, &p.Amenities,
		&p.HourlyRate, &p.PeakHourRate, &p.Currency, &p.BusinessHours,
		&p.Rules, &p.CancellationPolicy, &p.MinCancellationHours,
		&p.Images, &p.VideoURL,
		&p.AverageRating, &p.TotalReviews, &p.TotalBookings,
		&p.Status, &p.Verified, &p.InstantBooking,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan pitch failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Pitch) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.pitches").
		Columns(
			"owner_id", "name", "description",
			"address", "city", "country", "postal_code", "latitude", "longitude",
			"surface_type", "capacity", "length", "width", "indoor", "lighting", "amenities",
			"hourly_rate", "peak_hour_rate", "currency", "business_hours",
			"rules", "cancellation_policy", "min_cancellation_hours",
			"images", "video_url", "status", "instant_booking",
		).
		Values(
			p.OwnerID, p.Name, p.Description,
			p.Address, p.City, p.Country, p.PostalCode, p.Latitude, p.Longitude,
			p.SurfaceType, p.Capacity, p.Length, p.Width, p.Indoor, p.Lighting, p.Amenities,
			p.HourlyRate, p.PeakHourRate, p.Currency, p.BusinessHours,
			p.Rules, p.CancellationPolicy, p.MinCancellationHours,
			p.Images, p.VideoURL, p.Status, p.InstantBooking,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create pitch query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Pitch, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(pitchColumns).
		From("public.pitches").
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get pitch query failed: %w", err)
	}
	return scanPitch(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Pitch, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(pitchColumns + ", count(*) OVER() as total_count").
		From("public.pitches").
		Where("deleted_at IS NULL")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+filter.City+"%")
	}
	if filter.Country != "" {
		query = query.Where("LOWER(country) LIKE LOWER(?)", "%"+filter.Country+"%")
	}

	// Radius search as a bounding-box approximation (1 degree ~ 111 km).
	if filter.Latitude != nil && filter.Longitude != nil && filter.RadiusKm != nil {
		latDiff := *filter.RadiusKm / 111
		lonDiff := *filter.RadiusKm / (111 * math.Cos(*filter.Latitude*math.Pi/180))
		query = query.
			Where(squirrel.GtOrEq{"latitude": *filter.Latitude - latDiff}).
			Where(squirrel.LtOrEq{"latitude": *filter.Latitude + latDiff}).
			Where(squirrel.GtOrEq{"longitude": *filter.Longitude - lonDiff}).
			Where(squirrel.LtOrEq{"longitude": *filter.Longitude + lonDiff})
	}

	if filter.SurfaceType != "" {
		query = query.Where(squirrel.Eq{"surface_type": filter.SurfaceType})
	}
	if filter.MinCapacity > 0 {
		query = query.Where(squirrel.GtOrEq{"capacity": filter.MinCapacity})
	}
	if filter.Indoor != nil {
		query = query.Where(squirrel.Eq{"indoor": *filter.Indoor})
	}
	if filter.Lighting != nil {
		query = query.Where(squirrel.Eq{"lighting": *filter.Lighting})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"hourly_rate": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"hourly_rate": *filter.MaxPrice})
	}
	if len(filter.Amenities) > 0 {
		query = query.Where("amenities @> ?", filter.Amenities)
	}

	orderBy := "created_at"
	switch filter.SortBy {
	case "name", "hourly_rate", "average_rating", "created_at":
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" || filter.SortOrder == "asc" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

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
		return nil, 0, fmt.Errorf("build list pitches query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pitches failed: %w", err)
	}
	defer rows.Close()

	var pitches []*Pitch
	var total int

	for rows.Next() {
		p, err := scanPitch(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		pitches = append(pitches, p)
	}

	return pitches, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Pitch) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pitches").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("address", p.Address).
		Set("city", p.City).
		Set("country", p.Country).
		Set("postal_code", p.PostalCode).
		Set("latitude", p.Latitude).
		Set("longitude", p.Longitude).
		Set("surface_type", p.SurfaceType).
		Set("capacity", p.Capacity).
		Set("length", p.Length).
		Set("width", p.Width).
		Set("indoor", p.Indoor).
		Set("lighting", p.Lighting).
		Set("amenities", p.Amenities).
		Set("hourly_rate", p.HourlyRate).
		Set("peak_hour_rate", p.PeakHourRate).
		Set("currency", p.Currency).
		Set("business_hours", p.BusinessHours).
		Set("rules", p.Rules).
		Set("cancellation_policy", p.CancellationPolicy).
		Set("min_cancellation_hours", p.MinCancellationHours).
		Set("images", p.Images).
		Set("video_url", p.VideoURL).
		Set("status", p.Status).
		Set("verified", p.Verified).
		Set("instant_booking", p.InstantBooking).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pitch query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pitch failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SoftDelete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pitches").
		Set("deleted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete pitch query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete pitch failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) IncrementTotalBookings(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pitches").
		Set("total_bookings", squirrel.Expr("total_bookings + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build increment bookings query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("increment bookings failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetRatingStats(ctx context.Context, id string, averageRating decimal.Decimal, totalReviews int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pitches").
		Set("average_rating", averageRating).
		Set("total_reviews", totalReviews).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set rating stats query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set rating stats failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
