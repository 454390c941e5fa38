package admin

import (
	"context"

	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/review"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

// Service is the moderation facade. It owns no state of its own: every
// command delegates to the module that owns the entity, so the domain
// rules live in exactly one place.
type Service interface {
	ListUsers(ctx context.Context, filter user.Filter) ([]*user.User, int, error)
	SetUserStatus(ctx context.Context, id string, status user.Status) (*user.User, error)
	SetUserRole(ctx context.Context, id string, role user.Role) (*user.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListPitches(ctx context.Context, filter pitch.Filter) ([]*pitch.Pitch, int, error)
	SetPitchVerified(ctx context.Context, id string, verified bool) (*pitch.Pitch, error)

	ListFlaggedReviews(ctx context.Context, page, pageSize int) ([]*review.Review, int, error)
	SetReviewFlagged(ctx context.Context, id string, flagged bool) (*review.Review, error)
	DeleteReview(ctx context.Context, id, actorID string) error

	Stats(ctx context.Context) (*PlatformStats, error)
}

type service struct {
	users   user.Service
	pitches pitch.Service
	reviews review.Service
	stats   StatsRepository
}

func NewService(users user.Service, pitches pitch.Service, reviews review.Service, stats StatsRepository) Service {
	return &service{
		users:   users,
		pitches: pitches,
		reviews: reviews,
		stats:   stats,
	}
}

func (s *service) ListUsers(ctx context.Context, filter user.Filter) ([]*user.User, int, error) {
	return s.users.List(ctx, filter)
}

func (s *service) SetUserStatus(ctx context.Context, id string, status user.Status) (*user.User, error) {
	return s.users.SetStatus(ctx, id, status)
}

func (s *service) SetUserRole(ctx context.Context, id string, role user.Role) (*user.User, error) {
	return s.users.SetRole(ctx, id, role)
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	return s.users.SoftDelete(ctx, id)
}

func (s *service) ListPitches(ctx context.Context, filter pitch.Filter) ([]*pitch.Pitch, int, error) {
	return s.pitches.List(ctx, filter)
}

func (s *service) SetPitchVerified(ctx context.Context, id string, verified bool) (*pitch.Pitch, error) {
	return s.pitches.SetVerified(ctx, id, verified)
}

func (s *service) ListFlaggedReviews(ctx context.Context, page, pageSize int) ([]*review.Review, int, error) {
	flagged := true
	return s.reviews.List(ctx, review.Filter{
		Flagged:  &flagged,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) SetReviewFlagged(ctx context.Context, id string, flagged bool) (*review.Review, error) {
	return s.reviews.SetFlagged(ctx, id, flagged)
}

func (s *service) DeleteReview(ctx context.Context, id, actorID string) error {
	return s.reviews.Delete(ctx, id, actorID, user.RoleAdmin)
}

func (s *service) Stats(ctx context.Context) (*PlatformStats, error) {
	return s.stats.Platform(ctx)
}
