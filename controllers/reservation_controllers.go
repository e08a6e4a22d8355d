package controllers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/rizoma-bar/rizoma-app/events"
	"github.com/rizoma-bar/rizoma-app/models"
	"github.com/rizoma-bar/rizoma-app/services"
	"github.com/rizoma-bar/rizoma-app/utils"
)

var errServer = errors.New("Error del servidor")

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
	Checker *services.AvailabilityChecker
	Hub     events.Broadcaster
	Mailer  *services.Mailer
}

func NewReservationController(db *gorm.DB, svc *services.ReservationService,
	checker *services.AvailabilityChecker, hub events.Broadcaster, mailer *services.Mailer) *ReservationController {
	return &ReservationController{
		DB:      db,
		Service: svc,
		Checker: checker,
		Hub:     hub,
		Mailer:  mailer,
	}
}

// domainError reports whether err is a rejection the client should see as-is.
func domainError(err error) bool {
	for _, derr := range []error{
		services.ErrMissingFields, services.ErrInvalidSector, services.ErrInvalidSlot,
		services.ErrDailyCap, services.ErrSlotFull, services.ErrNoTables, services.ErrLargeParty,
	} {
		if errors.Is(err, derr) {
			return true
		}
	}
	return false
}

// CreateReservation -> POST /reservations
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		Sector    string `json:"sector"`
		PartySize int    `json:"partySize"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, services.ErrMissingFields)
		return
	}

	res := models.Reservation{
		Name:      req.Name,
		Email:     req.Email,
		Date:      req.Date,
		Time:      req.Time,
		Sector:    req.Sector,
		PartySize: req.PartySize,
	}

	if err := rc.Service.Create(&res); err != nil {
		if domainError(err) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.ErrorLogger.Printf("error al guardar reserva: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	rc.Hub.ReservationCreated(res.Name, res.Time, res.Date, res.Sector)
	rc.Mailer.SendReservationConfirmation(&res)

	utils.RespondJSON(c, http.StatusCreated, "Reserva guardada correctamente", gin.H{
		"id": res.ID,
	})
}

// GetReservationsByDate -> GET /reservations?date=YYYY-MM-DD
// Ordered by sector and then time so the front desk listing is stable.
func (rc *ReservationController) GetReservationsByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Fecha requerida"))
		return
	}

	var reservations []models.Reservation
	if err := rc.DB.
		Where("date = ? AND waitlisted = ?", date, false).
		Order("sector asc, time asc").
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservas del día", reservations)
}

// GetOccupiedTimes -> GET /reservations/occupied-times?date=
func (rc *ReservationController) GetOccupiedTimes(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Fecha requerida"))
		return
	}

	var times []string
	if err := rc.DB.Model(&models.Reservation{}).
		Where("date = ? AND waitlisted = ? AND time <> ''", date, false).
		Distinct().
		Pluck("time", &times).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Horarios ocupados", times)
}

// GetSectorCapacity -> GET /reservations/capacity?date=&sector=
func (rc *ReservationController) GetSectorCapacity(c *gin.Context) {
	date := c.Query("date")
	sector := c.Query("sector")
	if date == "" || sector == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Fecha y sector requeridos"))
		return
	}

	total, err := rc.Service.PartySizeTotal(date, sector)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Capacidad del sector", gin.H{
		"totalPeople": total,
	})
}

// GetSlotCapacity -> GET /reservations/slot-capacity?date=&sector=
// Day total plus a people-per-slot map, used to grey out full slots in the form.
func (rc *ReservationController) GetSlotCapacity(c *gin.Context) {
	date := c.Query("date")
	sector := c.Query("sector")
	if date == "" || sector == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Fecha y sector requeridos"))
		return
	}

	total, perSlot, err := rc.Service.SlotCapacity(date, sector)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Capacidad por horario", gin.H{
		"totalPeopleDay": total,
		"peoplePerSlot":  perSlot,
	})
}

// CheckAvailability -> GET /reservations/availability?date=&sector=&partySize=&time=
// Responds with the raw {available, message?} contract the booking form expects.
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	sector := c.Query("sector")
	partySizeStr := c.Query("partySize")
	timeSlot := c.Query("time")

	if date == "" || sector == "" || partySizeStr == "" || timeSlot == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Faltan datos para verificar disponibilidad"))
		return
	}

	partySize, err := strconv.Atoi(partySizeStr)
	if err != nil || partySize < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Cantidad de personas inválida"))
		return
	}

	result, err := rc.Checker.Check(date, sector, partySize, timeSlot)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateWaitlistEntry -> POST /reservations/waitlist
func (rc *ReservationController) CreateWaitlistEntry(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Date      string `json:"date"`
		Sector    string `json:"sector"`
		PartySize int    `json:"partySize"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, services.ErrMissingFields)
		return
	}

	res := models.Reservation{
		Name:      req.Name,
		Email:     req.Email,
		Date:      req.Date,
		Sector:    req.Sector,
		PartySize: req.PartySize,
	}

	if err := rc.Service.CreateWaitlisted(&res); err != nil {
		if domainError(err) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.ErrorLogger.Printf("error al guardar en lista de espera: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Agregado a la lista de espera.", gin.H{
		"id": res.ID,
	})
}

// GetWaitlist -> GET /reservations/waitlist?date=
func (rc *ReservationController) GetWaitlist(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Fecha requerida"))
		return
	}

	var entries []models.Reservation
	if err := rc.DB.
		Where("date = ? AND waitlisted = ?", date, true).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Lista de espera", entries)
}

// DeleteReservation -> DELETE /reservations/:id
// Lenient on missing ids: the row is gone either way, and the dashboards get
// exactly one deletion event.
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ID inválido"))
		return
	}

	if err := rc.Service.Delete(uint(id)); err != nil {
		utils.ErrorLogger.Printf("error al eliminar reserva %d: %v", id, err)
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	rc.Hub.ReservationDeleted(uint(id))

	utils.RespondJSON(c, http.StatusOK, "Reserva eliminada con éxito", gin.H{
		"id": id,
	})
}

// ExportPDF -> GET /reservations/export-pdf?date=
func (rc *ReservationController) ExportPDF(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Fecha requerida"))
		return
	}

	reservations, err := rc.listForExport(date)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Reservas del día %s", date)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for i, r := range reservations {
		line := fmt.Sprintf("%d. %s - %s - %s - %s hs - %d personas",
			i+1, r.Name, r.Email, r.Sector, r.Time, r.PartySize)
		pdf.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.ErrorLogger.Printf("error al generar PDF: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Error al generar PDF"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reservas_%s.pdf"`, date))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportCSV -> GET /reservations/export-csv?date=
func (rc *ReservationController) ExportCSV(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Fecha requerida"))
		return
	}

	reservations, err := rc.listForExport(date)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"nombre", "email", "fecha", "hora", "sector", "personas"})
	for _, r := range reservations {
		w.Write([]string{r.Name, r.Email, r.Date, r.Time, r.Sector, strconv.Itoa(r.PartySize)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reservas_%s.csv"`, date))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (rc *ReservationController) listForExport(date string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := rc.DB.
		Where("date = ? AND waitlisted = ?", date, false).
		Order("sector asc, time asc").
		Find(&reservations).Error
	return reservations, err
}

// GetSummary -> GET /reservations/summary?from=&to=
// Aggregate people totals by sector and by time slot across a date range.
func (rc *ReservationController) GetSummary(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Parámetros 'from' y 'to' requeridos"))
		return
	}

	var reservations []models.Reservation
	if err := rc.DB.
		Where("date >= ? AND date <= ? AND waitlisted = ?", from, to, false).
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	totalPeople := 0
	bySector := make(map[string]int)
	bySlot := make(map[string]int)
	for _, r := range reservations {
		totalPeople += r.PartySize
		bySector[r.Sector] += r.PartySize
		bySlot[r.Time] += r.PartySize
	}

	utils.RespondJSON(c, http.StatusOK, "Resumen de reservas", gin.H{
		"totalPeople": totalPeople,
		"bySector":    bySector,
		"bySlot":      bySlot,
	})
}
