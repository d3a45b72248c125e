package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"foundhub/internal/http-api/models"
)

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newItemFixture() (*MockItemRepository, *MockCategoryRepository, ItemService) {
	itemRepo := new(MockItemRepository)
	categoryRepo := new(MockCategoryRepository)
	return itemRepo, categoryRepo, NewItemService(itemRepo, categoryRepo)
}

func TestItemCreate_UnknownCategory(t *testing.T) {
	itemRepo, categoryRepo, svc := newItemFixture()

	categoryRepo.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.Create(context.Background(), &models.Item{CategoryID: 9, Title: "Umbrella"})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
	itemRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestItemCreate_Success(t *testing.T) {
	itemRepo, categoryRepo, svc := newItemFixture()

	categoryRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Category{ID: 1, Name: "Keys"}, nil)
	itemRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Item")).Return(nil)

	err := svc.Create(context.Background(), &models.Item{
		CategoryID: 1,
		Title:      "Black Honda Key Fob",
		Type:       models.ItemTypeFound,
	})

	assert.NoError(t, err)
	itemRepo.AssertExpectations(t)
}

func TestItemUpdate_ImmutableFieldsSurviveApply(t *testing.T) {
	itemRepo, categoryRepo, svc := newItemFixture()

	now := time.Now()
	claimant := "claimant-1"
	stored := &models.Item{
		ID:                   42,
		PostedByID:           "poster-1",
		Title:                "Black Honda Key Fob",
		CategoryID:           1,
		VerificationQuestion: "What brand?",
		VerificationAnswer:   "Honda",
		IsClaimed:            true,
		ClaimDate:            &now,
		ClaimedByID:          &claimant,
	}
	itemRepo.On("GetByID", mock.Anything, int64(42)).Return(stored, nil)
	categoryRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Category{ID: 1}, nil)
	itemRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Item")).Return(nil)

	updated, err := svc.Update(context.Background(), "poster-1", 42, func(item *models.Item) {
		item.Title = "Black key fob"
		// A hostile apply tries to rewrite protected state.
		item.VerificationAnswer = "Toyota"
		item.IsClaimed = false
		item.ClaimedByID = nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "Black key fob", updated.Title)
	assert.Equal(t, "Honda", updated.VerificationAnswer)
	assert.True(t, updated.IsClaimed)
	assert.Equal(t, &claimant, updated.ClaimedByID)
}

func TestItemUpdate_NotPoster(t *testing.T) {
	itemRepo, _, svc := newItemFixture()

	itemRepo.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Item{ID: 42, PostedByID: "poster-1"}, nil)

	_, err := svc.Update(context.Background(), "intruder", 42, func(item *models.Item) {})

	assert.ErrorIs(t, err, ErrNotItemPoster)
	itemRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestItemDelete_PosterAllowed(t *testing.T) {
	itemRepo, _, svc := newItemFixture()

	itemRepo.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Item{ID: 42, PostedByID: "poster-1"}, nil)
	itemRepo.On("Delete", mock.Anything, int64(42)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "poster-1", "user", 42))
}

func TestItemDelete_AdminAllowed(t *testing.T) {
	itemRepo, _, svc := newItemFixture()

	itemRepo.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Item{ID: 42, PostedByID: "poster-1"}, nil)
	itemRepo.On("Delete", mock.Anything, int64(42)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "admin-user", "admin", 42))
}

func TestItemDelete_StrangerForbidden(t *testing.T) {
	itemRepo, _, svc := newItemFixture()

	itemRepo.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Item{ID: 42, PostedByID: "poster-1"}, nil)

	err := svc.Delete(context.Background(), "intruder", "user", 42)

	assert.ErrorIs(t, err, ErrNotItemPoster)
	itemRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
