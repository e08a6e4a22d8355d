package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rizoma-bar/rizoma-app/config"
	"github.com/rizoma-bar/rizoma-app/controllers"
	"github.com/rizoma-bar/rizoma-app/events"
	"github.com/rizoma-bar/rizoma-app/middlewares"
	"github.com/rizoma-bar/rizoma-app/services"
)

// SetupRouter wires middlewares, services and controllers. The websocket hub
// comes in from main so the HTTP layer never owns realtime state.
func SetupRouter(db *gorm.DB, cfg *config.Config, hub *events.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	mailer := services.NewMailer(cfg)
	checker := services.NewAvailabilityChecker(db, cfg.Capacity)
	reservationSvc := services.NewReservationService(db, cfg.Capacity, checker)

	reservationCtrl := controllers.NewReservationController(db, reservationSvc, checker, hub, mailer)
	cartaCtrl := controllers.NewCartaController(db)
	userCtrl := controllers.NewUserController(db, mailer)
	wsCtrl := controllers.NewWSController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------

	authGroup := r.Group("/auth")
	authGroup.Use(middlewares.NewStrictRateLimiter())
	{
		authGroup.POST("/register", userCtrl.Register)
		authGroup.POST("/login", userCtrl.Login)
	}

	// Booking flow (no login: customers book directly from the site)
	r.POST("/reservations", reservationCtrl.CreateReservation)
	r.GET("/reservations", reservationCtrl.GetReservationsByDate)
	r.GET("/reservations/occupied-times", reservationCtrl.GetOccupiedTimes)
	r.GET("/reservations/capacity", reservationCtrl.GetSectorCapacity)
	r.GET("/reservations/slot-capacity", reservationCtrl.GetSlotCapacity)
	r.GET("/reservations/availability", reservationCtrl.CheckAvailability)
	r.POST("/reservations/waitlist", reservationCtrl.CreateWaitlistEntry)

	// Public menu page
	r.GET("/menu-items", cartaCtrl.GetCarta)

	// Realtime channel for the admin dashboards
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", wsCtrl.Handle)
	}

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------

	staff := r.Group("/")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.DELETE("/reservations/:id", reservationCtrl.DeleteReservation)
		staff.GET("/reservations/waitlist", reservationCtrl.GetWaitlist)
		staff.GET("/reservations/export-pdf", reservationCtrl.ExportPDF)
		staff.GET("/reservations/export-csv", reservationCtrl.ExportCSV)
		staff.GET("/reservations/summary", reservationCtrl.GetSummary)

		staff.POST("/menu-items", cartaCtrl.CreateItem)
		staff.PUT("/menu-items/:id", cartaCtrl.UpdateItem)
		staff.DELETE("/menu-items/:id", cartaCtrl.DeleteItem)
	}

	return r
}
