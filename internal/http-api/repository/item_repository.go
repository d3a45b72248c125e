package repository

import (
	"context"
	"fmt"
	"strings"

	"foundhub/internal/http-api/models"

	"gorm.io/gorm"
)

// ItemFilter narrows List results. Zero values mean "no filter".
type ItemFilter struct {
	Type       models.ItemType
	CategoryID int64
	Query      string
	Claimed    *bool
	Page       int
	PageSize   int
}

type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	List(ctx context.Context, f ItemFilter) ([]models.Item, int64, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Preload("Category").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, f ItemFilter) ([]models.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Claimed != nil {
		q = q.Where("is_claimed = ?", *f.Claimed)
	}
	if f.Query != "" {
		tokens := strings.Fields(f.Query)
		for _, t := range tokens {
			p := "%" + t + "%"
			q = q.Where(
				"(title ILIKE ? OR description ILIKE ? OR location ILIKE ? OR COALESCE(brand,'') ILIKE ? OR COALESCE(color,'') ILIKE ?)",
				p, p, p, p, p,
			)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var list []models.Item
	if err := q.Preload("Category").
		Order("date_reported desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return list, total, nil
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Item{}, id).Error; err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

