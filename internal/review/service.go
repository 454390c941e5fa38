package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

type CreateRequest struct {
	PitchID   string
	BookingID *string

	Rating  int
	Comment string

	RatingSurface    *int
	RatingFacilities *int
	RatingLocation   *int
	RatingValue      *int
}

type UpdateRequest struct {
	Rating  *int
	Comment *string

	RatingSurface    *int
	RatingFacilities *int
	RatingLocation   *int
	RatingValue      *int
}

// Notifier receives review events. Delivery is best effort.
type Notifier interface {
	ReviewReceived(ctx context.Context, rv *Review, pitchOwnerID string)
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Review, error)
	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, filter Filter) ([]*Review, int, error)
	Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Review, error)
	Delete(ctx context.Context, id, actorID string, actorRole user.Role) error

	// Respond stores the pitch owner's reply to a review.
	Respond(ctx context.Context, id, actorID, text string) (*Review, error)
	// Vote records a helpful/unhelpful vote and refreshes the counter.
	Vote(ctx context.Context, id, userID string, helpful bool) (*Review, error)
	// SetFlagged toggles the moderation flag (admin command).
	SetFlagged(ctx context.Context, id string, flagged bool) (*Review, error)
}

type service struct {
	repo     Repository
	bookings booking.Service
	pitches  pitch.Service
	notifier Notifier
}

func NewService(repo Repository, bookings booking.Service, pitches pitch.Service, notifier Notifier) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		pitches:  pitches,
		notifier: notifier,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Review, error) {
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	for _, sub := range []*int{req.RatingSurface, req.RatingFacilities, req.RatingLocation, req.RatingValue} {
		if sub != nil {
			if err := validateRating(*sub); err != nil {
				return nil, err
			}
		}
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	p, err := s.pitches.GetByID(ctx, req.PitchID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndPitch(ctx, userID, req.PitchID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	rv := &Review{
		UserID:           userID,
		PitchID:          req.PitchID,
		Rating:           req.Rating,
		Comment:          comment,
		RatingSurface:    req.RatingSurface,
		RatingFacilities: req.RatingFacilities,
		RatingLocation:   req.RatingLocation,
		RatingValue:      req.RatingValue,
	}

	// A review is verified only when it references the reviewer's own
	// completed booking on this pitch.
	if req.BookingID != nil {
		b, err := s.bookings.GetByID(ctx, *req.BookingID, booking.Actor{ID: userID, Role: user.RolePlayer})
		if err == nil && b.UserID == userID && b.PitchID == req.PitchID && b.Status == booking.StatusCompleted {
			rv.BookingID = req.BookingID
			rv.Verified = true
		}
	}

	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	if err := s.refreshPitchRating(ctx, req.PitchID); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReviewReceived(ctx, rv, p.OwnerID)
	}
	return rv, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Review, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Review, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.UserID != actorID {
		return nil, ErrPermissionDenied
	}

	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		rv.Rating = *req.Rating
	}
	if req.Comment != nil {
		comment := strings.TrimSpace(*req.Comment)
		if comment == "" {
			return nil, ErrEmptyComment
		}
		rv.Comment = comment
	}
	for _, pair := range []struct {
		src *int
		dst **int
	}{
		{req.RatingSurface, &rv.RatingSurface},
		{req.RatingFacilities, &rv.RatingFacilities},
		{req.RatingLocation, &rv.RatingLocation},
		{req.RatingValue, &rv.RatingValue},
	} {
		if pair.src != nil {
			if err := validateRating(*pair.src); err != nil {
				return nil, err
			}
			*pair.dst = pair.src
		}
	}

	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	if err := s.refreshPitchRating(ctx, rv.PitchID); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) Delete(ctx context.Context, id, actorID string, actorRole user.Role) error {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rv.UserID != actorID && actorRole != user.RoleAdmin {
		return ErrPermissionDenied
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.refreshPitchRating(ctx, rv.PitchID)
}

func (s *service) Respond(ctx context.Context, id, actorID, text string) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.pitches.GetByID(ctx, rv.PitchID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, ErrNotPitchOwner
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	now := time.Now()
	rv.OwnerResponse = &text
	rv.OwnerRespondedAt = &now
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) Vote(ctx context.Context, id, userID string, helpful bool) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertHelpfulVote(ctx, id, userID, helpful); err != nil {
		return nil, err
	}
	count, err := s.repo.CountHelpfulVotes(ctx, id)
	if err != nil {
		return nil, err
	}

	rv.HelpfulCount = count
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) SetFlagged(ctx context.Context, id string, flagged bool) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rv.Flagged = flagged
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) refreshPitchRating(ctx context.Context, pitchID string) error {
	avg, count, err := s.repo.RatingStats(ctx, pitchID)
	if err != nil {
		return err
	}
	return s.pitches.SetRatingStats(ctx, pitchID, avg, count)
}

func validateRating(r int) error {
	if r < 1 || r > 5 {
		return ErrInvalidRating
	}
	return nil
}
