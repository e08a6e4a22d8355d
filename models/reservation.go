package models

import "time"

// Sectors of the venue. Patio is open-air and effectively unconstrained,
// Esquina is the indoor room with a fixed table inventory.
const (
	SectorPatio   = "Patio"
	SectorEsquina = "Esquina"
)

// TimeSlots son los horarios que ofrece el formulario de reserva.
var TimeSlots = []string{"19:30", "20:00", "20:30", "21:00", "21:30", "21:45"}

// IsValidTimeSlot reports whether t is one of the offered slots.
func IsValidTimeSlot(t string) bool {
	for _, slot := range TimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// IsValidSector reports whether s is a known sector.
func IsValidSector(s string) bool {
	return s == SectorPatio || s == SectorEsquina
}

// Reservation is a booking row. Waitlisted rows are kept in the same table
// but never count against capacity; they only show up in the waitlist view.
type Reservation struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Email      string `gorm:"type:varchar(255);not null" json:"email"`
	Date       string `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	Time       string `gorm:"type:varchar(5)" json:"time"`                 // HH:MM, empty on waitlist rows
	PartySize  int    `gorm:"not null;default:0" json:"partySize"`
	Sector     string `gorm:"type:varchar(32);not null;index" json:"sector"`
	Waitlisted bool   `gorm:"not null;default:false;index" json:"waitlisted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
