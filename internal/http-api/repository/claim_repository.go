package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"foundhub/internal/http-api/models"
)

// ErrStaleItem is returned when the guarded claim update matched no row: the
// item is gone, already claimed, or was modified concurrently. Callers
// reload the item to tell the cases apart.
var ErrStaleItem = errors.New("item version conflict")

// ClaimRepository owns the claim state transition. The transition and the
// claimant's notification commit together or not at all, so a failed insert
// can never leave an item claimed with the approval event lost.
type ClaimRepository interface {
	// ApproveClaim performs the one-shot open->claimed transition guarded by
	// the optimistic version check and inserts the claimant's notification in
	// the same transaction. Returns ErrStaleItem when no row matched.
	ApproveClaim(ctx context.Context, itemID int64, claimantID string, version int64, notification *models.Notification) error
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) ApproveClaim(ctx context.Context, itemID int64, claimantID string, version int64, notification *models.Notification) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("id = ? AND version = ? AND is_claimed = false", itemID, version).
			Updates(map[string]interface{}{
				"is_claimed":    true,
				"claim_date":    now,
				"claimed_by_id": claimantID,
				"version":       gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return fmt.Errorf("mark item claimed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleItem
		}
		if err := tx.Create(notification).Error; err != nil {
			return fmt.Errorf("persist approval notification: %w", err)
		}
		return nil
	})
}
