package models

import "time"

// Carta item categories.
const (
	CategoryFood  = "food"
	CategoryDrink = "drink"
)

// CartaItem is a dish or drink shown on the public menu page.
type CartaItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string  `gorm:"type:varchar(255)" json:"imageUrl"`
	Category    string  `gorm:"type:varchar(32);not null" json:"category"` // food | drink

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
