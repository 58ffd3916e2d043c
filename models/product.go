package models

import "time"

// Product is a sellable item owned by a business. BusinessID references the
// owning business user's UID. Price is in minor currency units.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BusinessID  string    `json:"businessId" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       int64     `json:"price" gorm:"not null"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	Available   bool      `json:"available" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
