package models

import (
	"encoding/json"
	"time"
)

// Notification payload discriminators. Structured payloads carry a
// notification_type tag inside the serialized message body so clients can
// tell a plain text message from a claim-attempt payload.
const (
	NotificationTypePlain        = "Plain"
	NotificationTypeClaimAttempt = "ClaimAttempt"
)

// Verification outcome labels shown to the item poster only.
const (
	VerificationStatusVerified   = "VERIFIED"
	VerificationStatusUnverified = "UNVERIFIED"
)

type Notification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID string    `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        string    `gorm:"not null" json:"type"` // Plain, ClaimAttempt
	Title       string    `gorm:"not null" json:"title"`
	Message     string    `gorm:"not null" json:"message"`
	ItemID      *int64    `json:"item_id,omitempty"`
	ActorID     *string   `gorm:"type:uuid" json:"actor_id,omitempty"` // counterpart user, e.g. the claimant
	Read        bool      `gorm:"default:false;index" json:"read"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Associations
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Actor     *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Item      *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ClaimAttemptPayload is the structured message body persisted for a claim
// attempt and pushed to the poster over the live channel.
type ClaimAttemptPayload struct {
	NotificationType     string `json:"notificationType"`
	Title                string `json:"title"`
	ItemTitle            string `json:"itemTitle"`
	ItemID               int64  `json:"itemId"`
	ClaimantID           string `json:"claimantId"`
	VerificationQuestion string `json:"verificationQuestion"`
	ClaimantAnswer       string `json:"claimantAnswer"`
	VerificationStatus   string `json:"verificationStatus"`
}

func (p ClaimAttemptPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeClaimAttemptPayload(message string) (*ClaimAttemptPayload, error) {
	var p ClaimAttemptPayload
	if err := json.Unmarshal([]byte(message), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
