package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"foundhub/internal/http-api/dto"
	"foundhub/internal/http-api/service"
)

type ClaimHandler struct {
	svc service.ClaimService
}

func NewClaimHandler(svc service.ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

// RegisterRoutes mounts the claim workflow under the items group. The attempt
// route carries the per-user rate limit; decision routes do not.
func (h *ClaimHandler) RegisterRoutes(rg *gin.RouterGroup, attemptLimit gin.HandlerFunc) {
	rg.GET("/:item_id/verification-question", h.VerificationQuestion)
	rg.POST("/:item_id/claim-attempts", attemptLimit, h.SubmitAttempt)
	rg.POST("/:item_id/claims/:claimant_id/approve", h.Approve)
	rg.POST("/:item_id/claims/:claimant_id/reject", h.Reject)
}

func (h *ClaimHandler) VerificationQuestion(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	question, err := h.svc.VerificationQuestion(ctx, itemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, service.ErrNoVerification):
			c.JSON(http.StatusNotFound, gin.H{"error": "item has no verification question"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.VerificationQuestionResponse{ItemID: itemID, Question: question})
}

func (h *ClaimHandler) SubmitAttempt(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req dto.ClaimAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.SubmitAttempt(ctx, userID.(string), itemID, req.Answer); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, service.ErrOwnItemClaim):
			c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot claim your own item"})
		case errors.Is(err, service.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "item is already claimed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// The match result is for the poster only, so the body never reveals it.
	c.JSON(http.StatusOK, dto.ClaimAttemptResponse{
		Success: true,
		Message: "Your claim has been submitted to the item poster.",
	})
}

func (h *ClaimHandler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

func (h *ClaimHandler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject)
}

func (h *ClaimHandler) decide(c *gin.Context, fn func(ctx context.Context, posterID string, itemID int64, claimantID string) error) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	claimantID := c.Param("claimant_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := fn(ctx, userID.(string), itemID, claimantID); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "claimant not found"})
		case errors.Is(err, service.ErrNotItemPoster):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the item poster may decide claims"})
		case errors.Is(err, service.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "item is already claimed"})
		case errors.Is(err, service.ErrConcurrencyConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "item was modified concurrently, reload and retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
