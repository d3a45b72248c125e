package dto

// ClaimAttemptRequest is the body of POST /api/items/:item_id/claim-attempts.
type ClaimAttemptRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// ClaimAttemptResponse deliberately carries no verification outcome: the
// match result is poster-only information.
type ClaimAttemptResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type VerificationQuestionResponse struct {
	ItemID   int64  `json:"item_id"`
	Question string `json:"question"`
}
