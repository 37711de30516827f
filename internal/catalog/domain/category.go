package domain

import "time"

// Category represents a product category; categories without a parent are
// top-level and shown on the landing page
type Category struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Title         string     `json:"title" gorm:"not null"`
	Icon          string     `json:"icon"`
	Slug          string     `json:"slug" gorm:"uniqueIndex;not null"`
	ParentID      *uint      `json:"parent_id" gorm:"index"`
	Subcategories []Category `json:"subcategories,omitempty" gorm:"foreignKey:ParentID"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// IsRoot reports whether the category is a top-level category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
