package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/auth"
)

type RegisterRequest struct {
	Email    string
	Password string
	Phone    *string
	Role     Role
}

type ProfileRequest struct {
	DisplayName string
	SkillLevel  int
	Positions   []string
	Bio         *string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	SetStatus(ctx context.Context, id string, status Status) (*User, error)
	SetRole(ctx context.Context, id string, role Role) (*User, error)
	SoftDelete(ctx context.Context, id string) error

	GetProfile(ctx context.Context, userID string) (*PlayerProfile, error)
	// SkillLevel returns the player's skill level, falling back to the
	// default when no profile exists.
	SkillLevel(ctx context.Context, userID string) (int, error)
	UpsertProfile(ctx context.Context, userID string, req ProfileRequest) (*PlayerProfile, error)
	ApplyMatchOutcome(ctx context.Context, userID string, outcome MatchOutcome) error
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RolePlayer
	}

	u := &User{
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		Status:       StatusActive,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if u.Status != StatusActive {
		return nil, ErrSuspended
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Status = status
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) SetRole(ctx context.Context, id string, role Role) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) SoftDelete(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u.Status = StatusDeleted
	u.DeletedAt = &now
	return s.repo.Update(ctx, u)
}

func (s *service) GetProfile(ctx context.Context, userID string) (*PlayerProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) SkillLevel(ctx context.Context, userID string) (int, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return DefaultSkillLevel, nil
		}
		return 0, err
	}
	return p.SkillLevel, nil
}

func (s *service) UpsertProfile(ctx context.Context, userID string, req ProfileRequest) (*PlayerProfile, error) {
	if req.SkillLevel < 1 || req.SkillLevel > 5 {
		return nil, ErrInvalidSkillLevel
	}

	existing, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	if existing == nil {
		p := &PlayerProfile{
			UserID:      userID,
			DisplayName: req.DisplayName,
			SkillLevel:  req.SkillLevel,
			Positions:   req.Positions,
			Bio:         req.Bio,
		}
		if err := s.repo.CreateProfile(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	existing.DisplayName = req.DisplayName
	existing.SkillLevel = req.SkillLevel
	existing.Positions = req.Positions
	existing.Bio = req.Bio
	if err := s.repo.UpdateProfile(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) ApplyMatchOutcome(ctx context.Context, userID string, outcome MatchOutcome) error {
	err := s.repo.ApplyMatchOutcome(ctx, userID, outcome)
	if errors.Is(err, ErrProfileNotFound) {
		// Players without a profile simply accumulate no stats.
		return nil
	}
	return err
}
