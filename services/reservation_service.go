package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/rizoma-bar/rizoma-app/config"
	"github.com/rizoma-bar/rizoma-app/models"
)

// Errores de dominio del alta de reservas. El texto es el que ve el cliente.
var (
	ErrMissingFields = errors.New("Faltan campos obligatorios")
	ErrInvalidSector = errors.New("Sector inválido")
	ErrInvalidSlot   = errors.New("Horario inválido")
	ErrDailyCap      = errors.New("Capacidad diaria del sector superada. ¿Querés unirte a la lista de espera?")
	ErrSlotFull      = errors.New("Horario completo. Por favor elegí otro horario o unite a la lista de espera.")
	ErrNoTables      = errors.New("No hay mesas disponibles para esa fecha y horario. ¿Querés unirte a la lista de espera?")
	ErrLargeParty    = errors.New(ManualChannelMessage)
)

// ReservationService owns the write path. Every create runs the whole
// check-decide-insert sequence inside a per-(date,sector) critical section so
// two simultaneous requests cannot both squeeze past a cap.
type ReservationService struct {
	DB      *gorm.DB
	Cfg     config.Capacity
	Checker *AvailabilityChecker

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewReservationService(db *gorm.DB, cfg config.Capacity, checker *AvailabilityChecker) *ReservationService {
	return &ReservationService{
		DB:      db,
		Cfg:     cfg,
		Checker: checker,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *ReservationService) lockFor(date, sector string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := date + "|" + sector
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// Create validates, checks availability and both capacity ceilings, and only
// then inserts. Returns one of the sentinel errors above on rejection.
func (s *ReservationService) Create(res *models.Reservation) error {
	if res.Name == "" || res.Email == "" || res.Date == "" || res.Time == "" ||
		res.Sector == "" || res.PartySize < 1 {
		return ErrMissingFields
	}
	if !models.IsValidSector(res.Sector) {
		return ErrInvalidSector
	}
	if !models.IsValidTimeSlot(res.Time) {
		return ErrInvalidSlot
	}
	res.Waitlisted = false

	lock := s.lockFor(res.Date, res.Sector)
	lock.Lock()
	defer lock.Unlock()

	avail, err := s.Checker.Check(res.Date, res.Sector, res.PartySize, res.Time)
	if err != nil {
		return err
	}
	if !avail.Available {
		if avail.Message == ManualChannelMessage {
			return ErrLargeParty
		}
		return ErrNoTables
	}

	dayTotal, err := s.PartySizeTotal(res.Date, res.Sector)
	if err != nil {
		return err
	}
	if dayTotal+res.PartySize > s.Cfg.DailyCapFor(res.Sector) {
		return ErrDailyCap
	}

	slotTotal, err := s.slotTotal(res.Date, res.Sector, res.Time)
	if err != nil {
		return err
	}
	if slotTotal+res.PartySize > s.Cfg.SlotCap {
		return ErrSlotFull
	}

	return s.DB.Create(res).Error
}

// CreateWaitlisted persists the degraded-path record. It never counts against
// capacity and needs no time slot.
func (s *ReservationService) CreateWaitlisted(res *models.Reservation) error {
	if res.Name == "" || res.Email == "" || res.Date == "" || res.Sector == "" {
		return ErrMissingFields
	}
	if !models.IsValidSector(res.Sector) {
		return ErrInvalidSector
	}
	res.Waitlisted = true
	return s.DB.Create(res).Error
}

// Delete removes a reservation by id. A missing id is not an error: the row
// is gone either way.
func (s *ReservationService) Delete(id uint) error {
	return s.DB.Delete(&models.Reservation{}, id).Error
}

// PartySizeTotal suma las personas del día para un sector (sin lista de espera).
func (s *ReservationService) PartySizeTotal(date, sector string) (int, error) {
	var total int64
	err := s.DB.Model(&models.Reservation{}).
		Where("date = ? AND sector = ? AND waitlisted = ?", date, sector, false).
		Select("COALESCE(SUM(party_size), 0)").
		Scan(&total).Error
	return int(total), err
}

func (s *ReservationService) slotTotal(date, sector, timeSlot string) (int, error) {
	var total int64
	err := s.DB.Model(&models.Reservation{}).
		Where("date = ? AND sector = ? AND time = ? AND waitlisted = ?", date, sector, timeSlot, false).
		Select("COALESCE(SUM(party_size), 0)").
		Scan(&total).Error
	return int(total), err
}

// SlotCapacity returns the day total plus a per-slot people map, the shape the
// booking form uses to grey out full slots.
func (s *ReservationService) SlotCapacity(date, sector string) (int, map[string]int, error) {
	var reservations []models.Reservation
	if err := s.DB.
		Where("date = ? AND sector = ? AND waitlisted = ?", date, sector, false).
		Find(&reservations).Error; err != nil {
		return 0, nil, err
	}

	total := 0
	perSlot := make(map[string]int)
	for _, r := range reservations {
		total += r.PartySize
		perSlot[r.Time] += r.PartySize
	}
	return total, perSlot, nil
}
