package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foundhub/internal/http-api/models"
	"foundhub/internal/http-api/repository"
)

type ItemService interface {
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	List(ctx context.Context, f repository.ItemFilter) ([]models.Item, int64, error)
	Create(ctx context.Context, item *models.Item) error
	// Update applies mutable fields only; the verification question/answer
	// are set at creation and immutable thereafter, and claim state is owned
	// by the claim workflow. Poster-only.
	Update(ctx context.Context, callerID string, id int64, apply func(*models.Item)) (*models.Item, error)
	Delete(ctx context.Context, callerID, callerRole string, id int64) error
}

type itemService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
}

func NewItemService(itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository) ItemService {
	return &itemService{itemRepo: itemRepo, categoryRepo: categoryRepo}
}

func (s *itemService) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) List(ctx context.Context, f repository.ItemFilter) ([]models.Item, int64, error) {
	return s.itemRepo.List(ctx, f)
}

func (s *itemService) Create(ctx context.Context, item *models.Item) error {
	if _, err := s.categoryRepo.GetByID(ctx, item.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.itemRepo.Create(ctx, item)
}

func (s *itemService) Update(ctx context.Context, callerID string, id int64, apply func(*models.Item)) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.PostedByID != callerID {
		return nil, ErrNotItemPoster
	}

	// Snapshot the immutable fields so a careless apply cannot touch them.
	question, answer := item.VerificationQuestion, item.VerificationAnswer
	claimed, claimDate, claimedBy := item.IsClaimed, item.ClaimDate, item.ClaimedByID

	apply(item)

	item.VerificationQuestion = question
	item.VerificationAnswer = answer
	item.IsClaimed = claimed
	item.ClaimDate = claimDate
	item.ClaimedByID = claimedBy

	if item.CategoryID > 0 {
		if _, err := s.categoryRepo.GetByID(ctx, item.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, callerID, callerRole string, id int64) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if item.PostedByID != callerID && callerRole != "admin" {
		return ErrNotItemPoster
	}
	return s.itemRepo.Delete(ctx, id)
}
