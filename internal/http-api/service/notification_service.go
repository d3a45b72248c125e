package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foundhub/internal/cache"
	"foundhub/internal/http-api/models"
	"foundhub/internal/http-api/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	List(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, recipientID string, notificationID int64) error
	ClearAll(ctx context.Context, recipientID string) (int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type notificationService struct {
	repo   repository.NotificationRepository
	unread *cache.UnreadCounter
}

func NewNotificationService(repo repository.NotificationRepository, unread *cache.UnreadCounter) NotificationService {
	return &notificationService{repo: repo, unread: unread}
}

func (s *notificationService) List(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.GetByRecipient(ctx, recipientID, unreadOnly)
}

func (s *notificationService) MarkAsRead(ctx context.Context, recipientID string, notificationID int64) error {
	// The repository enforces recipient ownership: a notification that exists
	// but belongs to someone else reads as not found.
	if err := s.repo.MarkAsRead(ctx, notificationID, recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	s.unread.Invalidate(ctx, recipientID)
	return nil
}

func (s *notificationService) ClearAll(ctx context.Context, recipientID string) (int64, error) {
	removed, err := s.repo.ClearAll(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	s.unread.Invalidate(ctx, recipientID)
	return removed, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if count, ok := s.unread.Get(ctx, recipientID); ok {
		return count, nil
	}
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	s.unread.Set(ctx, recipientID, count)
	return count, nil
}
