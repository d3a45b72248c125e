package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"foundhub/internal/cache"
	"foundhub/internal/http-api/models"
)

func newNotificationFixture() (*MockNotificationRepository, NotificationService) {
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo, cache.NewNoopUnreadCounter())
	return repo, svc
}

func TestNotificationList(t *testing.T) {
	repo, svc := newNotificationFixture()

	stored := []models.Notification{
		{ID: 2, RecipientID: "user-1", Title: "Claim Approved"},
		{ID: 1, RecipientID: "user-1", Title: "New Claim Attempt"},
	}
	repo.On("GetByRecipient", mock.Anything, "user-1", false).Return(stored, nil)

	list, err := svc.List(context.Background(), "user-1", false)

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
}

func TestNotificationList_UnreadOnly(t *testing.T) {
	repo, svc := newNotificationFixture()

	repo.On("GetByRecipient", mock.Anything, "user-1", true).Return([]models.Notification{}, nil)

	list, err := svc.List(context.Background(), "user-1", true)

	assert.NoError(t, err)
	assert.Empty(t, list)
	repo.AssertExpectations(t)
}

func TestMarkAsRead_Success(t *testing.T) {
	repo, svc := newNotificationFixture()

	repo.On("MarkAsRead", mock.Anything, int64(7), "user-1").Return(nil)

	err := svc.MarkAsRead(context.Background(), "user-1", 7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMarkAsRead_NotRecipient(t *testing.T) {
	repo, svc := newNotificationFixture()

	// The repository reports someone else's notification as not found.
	repo.On("MarkAsRead", mock.Anything, int64(7), "intruder").Return(gorm.ErrRecordNotFound)

	err := svc.MarkAsRead(context.Background(), "intruder", 7)

	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestClearAll(t *testing.T) {
	repo, svc := newNotificationFixture()

	repo.On("ClearAll", mock.Anything, "user-1").Return(int64(5), nil)

	removed, err := svc.ClearAll(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(5), removed)
}

func TestUnreadCount_FallsThroughToRepo(t *testing.T) {
	repo, svc := newNotificationFixture()

	repo.On("CountUnread", mock.Anything, "user-1").Return(int64(3), nil)

	count, err := svc.UnreadCount(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	repo.AssertExpectations(t)
}
