package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"foundhub/internal/cache"
	"foundhub/internal/http-api/models"
	"foundhub/internal/http-api/repository"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotItemPoster       = errors.New("caller is not the item poster")
	ErrOwnItemClaim        = errors.New("cannot claim your own item")
	ErrAlreadyClaimed      = errors.New("item is already claimed")
	ErrConcurrencyConflict = errors.New("item was modified concurrently")
	ErrNoVerification      = errors.New("item has no verification question")
)

// ClaimService drives the claim lifecycle: a claimant submits a verification
// answer, the poster inspects the stored comparison result and approves or
// rejects. Every state-changing step persists a notification for its
// recipient before any live push is attempted.
type ClaimService interface {
	SubmitAttempt(ctx context.Context, claimantID string, itemID int64, answer string) error
	Approve(ctx context.Context, posterID string, itemID int64, claimantID string) error
	Reject(ctx context.Context, posterID string, itemID int64, claimantID string) error
	VerificationQuestion(ctx context.Context, itemID int64) (string, error)
}

type claimService struct {
	itemRepo         repository.ItemRepository
	claimRepo        repository.ClaimRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	pusher           Pusher
	unread           *cache.UnreadCounter
}

func NewClaimService(
	itemRepo repository.ItemRepository,
	claimRepo repository.ClaimRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	pusher Pusher,
	unread *cache.UnreadCounter,
) ClaimService {
	return &claimService{
		itemRepo:         itemRepo,
		claimRepo:        claimRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		unread:           unread,
	}
}

// answersMatch compares a submitted answer against the stored secret,
// ignoring case and surrounding whitespace: "Honda" matches " honda ".
func answersMatch(submitted, stored string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(stored))
}

func (s *claimService) SubmitAttempt(ctx context.Context, claimantID string, itemID int64, answer string) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	if item.PostedByID == claimantID {
		return ErrOwnItemClaim
	}
	if item.IsClaimed {
		return ErrAlreadyClaimed
	}

	status := models.VerificationStatusUnverified
	if answersMatch(answer, item.VerificationAnswer) {
		status = models.VerificationStatusVerified
	}

	payload := models.ClaimAttemptPayload{
		NotificationType:     models.NotificationTypeClaimAttempt,
		Title:                "New Claim Attempt",
		ItemTitle:            item.Title,
		ItemID:               item.ID,
		ClaimantID:           claimantID,
		VerificationQuestion: item.VerificationQuestion,
		ClaimantAnswer:       answer,
		VerificationStatus:   status,
	}
	message, err := payload.Encode()
	if err != nil {
		return fmt.Errorf("encode claim attempt payload: %w", err)
	}

	notification := &models.Notification{
		RecipientID: item.PostedByID,
		Type:        models.NotificationTypeClaimAttempt,
		Title:       payload.Title,
		Message:     message,
		ItemID:      &item.ID,
		ActorID:     &claimantID,
	}

	// The durable record comes first; a failed insert aborts the attempt and
	// no push happens for an event that was never recorded.
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("persist claim attempt notification: %w", err)
	}
	s.unread.Invalidate(ctx, item.PostedByID)

	// Best effort: the poster sees the durable notification either way. The
	// match result stays poster-only; the claimant just gets a confirmation.
	s.pusher.DeliverToUser(item.PostedByID, EventReceiveDetailedNotification, notification.Title, message)

	return nil
}

func (s *claimService) Approve(ctx context.Context, posterID string, itemID int64, claimantID string) error {
	item, err := s.authorizeDecision(ctx, posterID, itemID)
	if err != nil {
		return err
	}

	// Both lookups happen before the transition so a lookup failure cannot
	// strand a claimed item without its approval notification.
	claimant, err := s.userRepo.FindByID(claimantID)
	if err != nil {
		return ErrUserNotFound
	}
	poster, err := s.userRepo.FindByID(posterID)
	if err != nil {
		return ErrUserNotFound
	}

	contact := poster.Email
	if poster.Phone != "" {
		contact = fmt.Sprintf("%s / %s", poster.Email, poster.Phone)
	}
	notification := &models.Notification{
		RecipientID: claimant.ID,
		Type:        models.NotificationTypePlain,
		Title:       "Claim Approved",
		Message: fmt.Sprintf("Your claim for %q has been approved. Contact %s (%s) to arrange the handover.",
			item.Title, poster.Username, contact),
		ItemID:  &item.ID,
		ActorID: &poster.ID,
	}

	// One-shot transition: the version check makes the loser of a concurrent
	// approval fail instead of silently re-stamping the claim date. The
	// transition and the claimant's notification commit atomically.
	if err := s.claimRepo.ApproveClaim(ctx, item.ID, claimant.ID, item.Version, notification); err != nil {
		if errors.Is(err, repository.ErrStaleItem) {
			current, reloadErr := s.itemRepo.GetByID(ctx, item.ID)
			if reloadErr == nil && current.IsClaimed {
				return ErrAlreadyClaimed
			}
			return ErrConcurrencyConflict
		}
		return err
	}
	s.unread.Invalidate(ctx, claimant.ID)

	s.pusher.DeliverToUser(claimant.ID, EventReceiveNotification, notification.Title, notification.Message, notification.ID)

	return nil
}

func (s *claimService) Reject(ctx context.Context, posterID string, itemID int64, claimantID string) error {
	item, err := s.authorizeDecision(ctx, posterID, itemID)
	if err != nil {
		return err
	}

	claimant, err := s.userRepo.FindByID(claimantID)
	if err != nil {
		return ErrUserNotFound
	}

	// No item mutation: the item stays open for other claimants.
	notification := &models.Notification{
		RecipientID: claimant.ID,
		Type:        models.NotificationTypePlain,
		Title:       "Claim Rejected",
		Message:     fmt.Sprintf("Your claim for %q has been rejected by the poster.", item.Title),
		ItemID:      &item.ID,
		ActorID:     &posterID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("persist rejection notification: %w", err)
	}
	s.unread.Invalidate(ctx, claimant.ID)

	s.pusher.DeliverToUser(claimant.ID, EventReceiveNotification, notification.Title, notification.Message, notification.ID)

	return nil
}

func (s *claimService) VerificationQuestion(ctx context.Context, itemID int64) (string, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrItemNotFound
		}
		return "", err
	}
	if item.VerificationQuestion == "" {
		return "", ErrNoVerification
	}
	return item.VerificationQuestion, nil
}

// authorizeDecision loads the item and checks that the caller may decide
// claims on it: only the poster approves or rejects.
func (s *claimService) authorizeDecision(ctx context.Context, posterID string, itemID int64) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.PostedByID != posterID {
		return nil, ErrNotItemPoster
	}
	return item, nil
}
