package pitch

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name        string
	Description string

	Address    string
	City       string
	Country    string
	PostalCode *string
	Latitude   float64
	Longitude  float64

	SurfaceType string
	Capacity    int
	Length      float64
	Width       float64
	Indoor      bool
	Lighting    bool
	Amenities   []string

	HourlyRate   decimal.Decimal
	PeakHourRate *decimal.Decimal
	Currency     string

	BusinessHours map[string]DayHours

	Rules                *string
	CancellationPolicy   *string
	MinCancellationHours int

	Images         []string
	VideoURL       *string
	InstantBooking bool
}

type UpdateRequest struct {
	Name                 *string
	Description          *string
	HourlyRate           *decimal.Decimal
	PeakHourRate         *decimal.Decimal
	Amenities            []string
	BusinessHours        map[string]DayHours
	Rules                *string
	CancellationPolicy   *string
	MinCancellationHours *int
	Images               []string
	VideoURL             *string
	InstantBooking       *bool
}

type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Pitch, error)
	GetByID(ctx context.Context, id string) (*Pitch, error)
	List(ctx context.Context, filter Filter) ([]*Pitch, int, error)
	Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Pitch, error)
	Delete(ctx context.Context, id, actorID string) error
	SetStatus(ctx context.Context, id, actorID string, status Status) (*Pitch, error)

	// IncrementTotalBookings is invoked by the booking module when a booking
	// completes. The counter is owned here, not by the caller.
	IncrementTotalBookings(ctx context.Context, id string) error
	// SetRatingStats is invoked by the review module after recomputing a
	// pitch's aggregate rating.
	SetRatingStats(ctx context.Context, id string, averageRating decimal.Decimal, totalReviews int) error
	// SetVerified is an admin moderation action.
	SetVerified(ctx context.Context, id string, verified bool) (*Pitch, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

const defaultMinCancellationHours = 24

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Pitch, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !req.HourlyRate.IsPositive() {
		return nil, ErrInvalidRate
	}

	surface := SurfaceType(req.SurfaceType)
	valid := false
	for _, t := range ValidSurfaceTypes {
		if surface == t {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidSurface
	}

	minCancel := req.MinCancellationHours
	if minCancel <= 0 {
		minCancel = defaultMinCancellationHours
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "EUR"
	}

	p := &Pitch{
		OwnerID:              ownerID,
		Name:                 req.Name,
		Description:          req.Description,
		Address:              req.Address,
		City:                 req.City,
		Country:              req.Country,
		PostalCode:           req.PostalCode,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		SurfaceType:          surface,
		Capacity:             req.Capacity,
		Length:               req.Length,
		Width:                req.Width,
		Indoor:               req.Indoor,
		Lighting:             req.Lighting,
		Amenities:            req.Amenities,
		HourlyRate:           req.HourlyRate,
		PeakHourRate:         req.PeakHourRate,
		Currency:             currency,
		BusinessHours:        req.BusinessHours,
		Rules:                req.Rules,
		CancellationPolicy:   req.CancellationPolicy,
		MinCancellationHours: minCancel,
		Images:               req.Images,
		VideoURL:             req.VideoURL,
		Status:               StatusActive,
		InstantBooking:       req.InstantBooking,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Pitch, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Pitch, int, error) {
	if filter.Status == "" {
		filter.Status = StatusActive
	}
	return s.repo.List(ctx, filter)
}

func (s *service) getOwned(ctx context.Context, id, actorID string) (*Pitch, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Pitch, error) {
	p, err := s.getOwned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.HourlyRate != nil {
		if !req.HourlyRate.IsPositive() {
			return nil, ErrInvalidRate
		}
		p.HourlyRate = *req.HourlyRate
	}
	if req.PeakHourRate != nil {
		p.PeakHourRate = req.PeakHourRate
	}
	if req.Amenities != nil {
		p.Amenities = req.Amenities
	}
	if req.BusinessHours != nil {
		p.BusinessHours = req.BusinessHours
	}
	if req.Rules != nil {
		p.Rules = req.Rules
	}
	if req.CancellationPolicy != nil {
		p.CancellationPolicy = req.CancellationPolicy
	}
	if req.MinCancellationHours != nil && *req.MinCancellationHours > 0 {
		p.MinCancellationHours = *req.MinCancellationHours
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.VideoURL != nil {
		p.VideoURL = req.VideoURL
	}
	if req.InstantBooking != nil {
		p.InstantBooking = *req.InstantBooking
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id, actorID string) error {
	if _, err := s.getOwned(ctx, id, actorID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) SetStatus(ctx context.Context, id, actorID string, status Status) (*Pitch, error) {
	p, err := s.getOwned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	switch status {
	case StatusActive, StatusInactive, StatusMaintenance:
	default:
		return nil, ErrInvalidStatus
	}
	p.Status = status
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) IncrementTotalBookings(ctx context.Context, id string) error {
	return s.repo.IncrementTotalBookings(ctx, id)
}

func (s *service) SetRatingStats(ctx context.Context, id string, averageRating decimal.Decimal, totalReviews int) error {
	return s.repo.SetRatingStats(ctx, id, averageRating, totalReviews)
}

func (s *service) SetVerified(ctx context.Context, id string, verified bool) (*Pitch, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Verified = verified
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
