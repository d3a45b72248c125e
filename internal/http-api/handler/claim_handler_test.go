package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"foundhub/internal/http-api/dto"
	"foundhub/internal/http-api/service"
)

// MockClaimService mocks the ClaimService interface
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) SubmitAttempt(ctx context.Context, claimantID string, itemID int64, answer string) error {
	args := m.Called(ctx, claimantID, itemID, answer)
	return args.Error(0)
}

func (m *MockClaimService) Approve(ctx context.Context, posterID string, itemID int64, claimantID string) error {
	args := m.Called(ctx, posterID, itemID, claimantID)
	return args.Error(0)
}

func (m *MockClaimService) Reject(ctx context.Context, posterID string, itemID int64, claimantID string) error {
	args := m.Called(ctx, posterID, itemID, claimantID)
	return args.Error(0)
}

func (m *MockClaimService) VerificationQuestion(ctx context.Context, itemID int64) (string, error) {
	args := m.Called(ctx, itemID)
	return args.String(0), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser injects the identity the auth middleware would normally set.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func noLimit() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

func TestSubmitAttempt_OK(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("claimant-1"))
	handler.RegisterRoutes(group, noLimit())

	mockSvc.On("SubmitAttempt", mock.Anything, "claimant-1", int64(42), "Honda").Return(nil)

	body, _ := json.Marshal(dto.ClaimAttemptRequest{Answer: "Honda"})
	req, _ := http.NewRequest("POST", "/items/42/claim-attempts", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ClaimAttemptResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.True(t, resp.Success)
	// No verification outcome leaks to the claimant.
	assert.NotContains(t, w.Body.String(), "VERIFIED")
	mockSvc.AssertExpectations(t)
}

func TestSubmitAttempt_MissingAnswer(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("claimant-1"))
	handler.RegisterRoutes(group, noLimit())

	req, _ := http.NewRequest("POST", "/items/42/claim-attempts", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SubmitAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAttempt_OwnItem(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("poster-1"))
	handler.RegisterRoutes(group, noLimit())

	mockSvc.On("SubmitAttempt", mock.Anything, "poster-1", int64(42), "Honda").
		Return(service.ErrOwnItemClaim)

	body, _ := json.Marshal(dto.ClaimAttemptRequest{Answer: "Honda"})
	req, _ := http.NewRequest("POST", "/items/42/claim-attempts", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprove_OK(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("poster-1"))
	handler.RegisterRoutes(group, noLimit())

	mockSvc.On("Approve", mock.Anything, "poster-1", int64(42), "claimant-1").Return(nil)

	req, _ := http.NewRequest("POST", "/items/42/claims/claimant-1/approve", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestApprove_NotPoster(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("intruder"))
	handler.RegisterRoutes(group, noLimit())

	mockSvc.On("Approve", mock.Anything, "intruder", int64(42), "claimant-1").
		Return(service.ErrNotItemPoster)

	req, _ := http.NewRequest("POST", "/items/42/claims/claimant-1/approve", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApprove_Conflict(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("poster-1"))
	handler.RegisterRoutes(group, noLimit())

	mockSvc.On("Approve", mock.Anything, "poster-1", int64(42), "claimant-1").
		Return(service.ErrAlreadyClaimed)

	req, _ := http.NewRequest("POST", "/items/42/claims/claimant-1/approve", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReject_OK(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("poster-1"))
	handler.RegisterRoutes(group, noLimit())

	mockSvc.On("Reject", mock.Anything, "poster-1", int64(42), "claimant-1").Return(nil)

	req, _ := http.NewRequest("POST", "/items/42/claims/claimant-1/reject", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestVerificationQuestion_OK(t *testing.T) {
	mockSvc := new(MockClaimService)
	handler := NewClaimHandler(mockSvc)
	router := setupRouter()
	group := router.Group("/items")
	group.Use(asUser("claimant-1"))
	handler.RegisterRoutes(group, noLimit())

	mockSvc.On("VerificationQuestion", mock.Anything, int64(42)).
		Return("What brand is the key fob?", nil)

	req, _ := http.NewRequest("GET", "/items/42/verification-question", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.VerificationQuestionResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "What brand is the key fob?", resp.Question)
	assert.Equal(t, int64(42), resp.ItemID)
}
