package models

type Category struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	IconClass string `json:"icon_class"`

	Items []Item `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
