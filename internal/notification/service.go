package notification

import (
	"context"
)

// Inbox groups a page of notifications with the user's unread counter.
type Inbox struct {
	Items  []*Notification
	Total  int
	Unread int
}

type Service interface {
	// Notify stores a notification for a user.
	Notify(ctx context.Context, n *Notification) error
	List(ctx context.Context, filter Filter) (*Inbox, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
	DeleteAll(ctx context.Context, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Notify(ctx context.Context, n *Notification) error {
	return s.repo.Create(ctx, n)
}

func (s *service) List(ctx context.Context, filter Filter) (*Inbox, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, filter.UserID)
	if err != nil {
		return nil, err
	}
	return &Inbox{Items: items, Total: total, Unread: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, id, userID string) error {
	if err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) DeleteAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAll(ctx, userID)
}

func (s *service) authorize(ctx context.Context, id, userID string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrPermissionDenied
	}
	return nil
}
