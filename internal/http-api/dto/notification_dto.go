package dto

import (
	"time"

	"foundhub/internal/http-api/models"
)

type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ItemID    *int64    `json:"item_id,omitempty"`
	ActorID   *string   `json:"actor_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func FromNotificationModel(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		ItemID:    n.ItemID,
		ActorID:   n.ActorID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type ClearAllResponse struct {
	Success bool  `json:"success"`
	Removed int64 `json:"removed"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
