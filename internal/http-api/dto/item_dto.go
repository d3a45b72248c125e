package dto

import (
	"time"

	"foundhub/internal/http-api/models"
)

// CreateItemForm is the multipart form for POST /api/items. The photo part
// travels separately as the "photo" file field.
type CreateItemForm struct {
	Title                string `form:"title" binding:"required"`
	Description          string `form:"description" binding:"required"`
	Type                 string `form:"type" binding:"required,oneof=lost found"`
	CategoryID           int64  `form:"category_id" binding:"required"`
	Brand                string `form:"brand"`
	Color                string `form:"color"`
	Location             string `form:"location" binding:"required"`
	DateReported         string `form:"date_reported" binding:"required"` // YYYY-MM-DD
	VerificationQuestion string `form:"verification_question" binding:"required"`
	VerificationAnswer   string `form:"verification_answer" binding:"required"`
}

// UpdateItemForm allows partial updates; verification fields and claim state
// are not part of the form because they are immutable after creation.
type UpdateItemForm struct {
	Title        *string `form:"title"`
	Description  *string `form:"description"`
	CategoryID   *int64  `form:"category_id"`
	Brand        *string `form:"brand"`
	Color        *string `form:"color"`
	Location     *string `form:"location"`
	DateReported *string `form:"date_reported"`
}

type ItemResponse struct {
	ID           int64      `json:"id"`
	PostedByID   string     `json:"posted_by_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Type         string     `json:"type"`
	CategoryID   int64      `json:"category_id"`
	CategoryName string     `json:"category_name,omitempty"`
	Brand        string     `json:"brand,omitempty"`
	Color        string     `json:"color,omitempty"`
	Location     string     `json:"location"`
	DateReported time.Time  `json:"date_reported"`
	PhotoPath    string     `json:"photo_path,omitempty"`
	IsClaimed    bool       `json:"is_claimed"`
	ClaimDate    *time.Time `json:"claim_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func FromItemModel(m models.Item) ItemResponse {
	resp := ItemResponse{
		ID:           m.ID,
		PostedByID:   m.PostedByID,
		Title:        m.Title,
		Description:  m.Description,
		Type:         string(m.Type),
		CategoryID:   m.CategoryID,
		Brand:        m.Brand,
		Color:        m.Color,
		Location:     m.Location,
		DateReported: m.DateReported,
		PhotoPath:    m.PhotoPath,
		IsClaimed:    m.IsClaimed,
		ClaimDate:    m.ClaimDate,
		CreatedAt:    m.CreatedAt,
	}
	if m.Category != nil {
		resp.CategoryName = m.Category.Name
	}
	return resp
}
