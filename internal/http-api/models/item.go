package models

import "time"

type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// Item is a reported lost or found item. The verification answer is a
// plain-text secret shared between the poster and the claim workflow; it
// never leaves the server.
type Item struct {
	ID                   int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostedByID           string     `gorm:"type:uuid;not null;index" json:"posted_by_id"`
	Title                string     `gorm:"not null" json:"title"`
	Description          string     `gorm:"not null" json:"description"`
	Type                 ItemType   `gorm:"type:varchar(10);not null;index" json:"type"`
	CategoryID           int64      `gorm:"not null;index" json:"category_id"`
	Brand                string     `json:"brand,omitempty"`
	Color                string     `json:"color,omitempty"`
	Location             string     `gorm:"not null" json:"location"`
	DateReported         time.Time  `gorm:"not null" json:"date_reported"`
	PhotoPath            string     `json:"photo_path,omitempty"`
	VerificationQuestion string     `gorm:"not null" json:"-"`
	VerificationAnswer   string     `gorm:"not null" json:"-"`
	IsClaimed            bool       `gorm:"default:false;index" json:"is_claimed"`
	ClaimDate            *time.Time `json:"claim_date,omitempty"`
	ClaimedByID          *string    `gorm:"type:uuid" json:"claimed_by_id,omitempty"`
	Version              int64      `gorm:"default:0;not null" json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Associations
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PostedBy  *User     `gorm:"foreignKey:PostedByID" json:"posted_by,omitempty"`
	ClaimedBy *User     `gorm:"foreignKey:ClaimedByID" json:"claimed_by,omitempty"`
}

func (Item) TableName() string {
	return "items"
}
