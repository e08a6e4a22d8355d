package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rizoma-bar/rizoma-app/config"
	"github.com/rizoma-bar/rizoma-app/models"
)

// AvailabilityResult is the contract of GET /reservations/availability.
// Message carries "WhatsApp" when the party is too big for the online flow
// and has to be arranged directly with the venue.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// ManualChannelMessage marks the "contact us directly" outcome.
const ManualChannelMessage = "WhatsApp"

// AvailabilityChecker decide si un pedido de reserva entra en el sector.
// La simulación de mesas arranca de cero en cada llamada: se reconstruye el
// inventario del día a partir de las reservas ya guardadas, nunca se persiste.
type AvailabilityChecker struct {
	DB  *gorm.DB
	Cfg config.Capacity
	Now func() time.Time
}

func NewAvailabilityChecker(db *gorm.DB, cfg config.Capacity) *AvailabilityChecker {
	return &AvailabilityChecker{
		DB:  db,
		Cfg: cfg,
		Now: time.Now,
	}
}

// Check runs the availability decision for a prospective reservation.
//
//  1. Patio always admits: open-air seating, no table simulation at all.
//  2. Parties over the online limit get routed to the manual channel.
//  3. Otherwise the indoor inventory is replayed against the existing
//     non-waitlisted reservations of that date+sector and the new party is
//     seated greedily on whatever is left.
func (ac *AvailabilityChecker) Check(date, sector string, partySize int, timeSlot string) (AvailabilityResult, error) {
	if sector == models.SectorPatio {
		return AvailabilityResult{Available: true}, nil
	}
	if partySize > ac.Cfg.MaxOnlineParty {
		return AvailabilityResult{Available: false, Message: ManualChannelMessage}, nil
	}

	leadHours, err := ac.leadHours(date, timeSlot)
	if err != nil {
		return AvailabilityResult{}, err
	}

	var existing []models.Reservation
	if err := ac.DB.
		Where("date = ? AND sector = ? AND waitlisted = ?", date, sector, false).
		Find(&existing).Error; err != nil {
		return AvailabilityResult{}, err
	}

	sizes := make([]int, 0, len(existing))
	for _, r := range existing {
		sizes = append(sizes, r.PartySize)
	}

	available := simulateTables(partySize, leadHours, sizes, ac.Cfg)
	return AvailabilityResult{Available: available}, nil
}

// leadHours devuelve las horas que faltan para la reserva pedida (puede ser
// negativo o fraccionario).
func (ac *AvailabilityChecker) leadHours(date, timeSlot string) (float64, error) {
	at, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+timeSlot, time.Local)
	if err != nil {
		return 0, fmt.Errorf("fecha u hora inválida: %w", err)
	}
	return at.Sub(ac.Now()).Hours(), nil
}

// simulateTables replays the day's parties against a fresh inventory and then
// tries to seat the new one.
//
// Replay: a party of up to 3 takes a small table while there is one; a party
// of exactly 4 takes a large table; failing both, a small party may occupy a
// large table, but only inside the last-minute window. Note the window is
// evaluated against the NEW request's lead time even while replaying old
// parties; the front desk relies on that exact behavior, do not "fix" it.
//
// Seating: small tables are consumed three seats at a time (a heuristic, not
// seat-level accounting); large tables only go to parties of exactly 4 or to
// last-minute requests.
func simulateTables(partySize int, leadHours float64, existingSizes []int, cfg config.Capacity) bool {
	small := cfg.SmallTables
	large := cfg.LargeTables
	lastMinute := leadHours < cfg.LastMinuteHours

	for _, p := range existingSizes {
		switch {
		case p <= 3 && small > 0:
			small--
		case p == 4 && large > 0:
			large--
		case p <= 3 && large > 0 && lastMinute:
			large--
		}
	}

	remaining := partySize
	for remaining >= 2 && small > 0 {
		remaining -= 3
		small--
	}
	for remaining > 0 && large > 0 {
		if partySize == 4 || lastMinute {
			remaining -= 4
			large--
		} else {
			break
		}
	}

	return remaining <= 0
}
