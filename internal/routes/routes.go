package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub003/internal/config"
	"github.com/ilya24037/www.spa.com-sub003/internal/handlers"
	"github.com/ilya24037/www.spa.com-sub003/internal/middleware"
)

type Handlers struct {
	Public    *handlers.PublicHandler
	Booking   *handlers.BookingHandler
	Provider  *handlers.ProviderHandler
	AuditLogs *handlers.AuditLogsHandler
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, log *zap.Logger, h Handlers) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		public := api.Group("/public")
		public.Use(middleware.RateLimit(cfg.PublicRatePerMin, log))
		{
			public.GET("/providers/:id/slots", h.Public.Slots)
			public.GET("/providers/:id/next-slot", h.Public.NextSlot)
			public.GET("/providers/:id/availability", h.Public.Availability)
			public.POST("/quote", h.Public.Quote)
			public.POST("/promo", h.Public.Promo)
			public.POST("/package-quote", h.Public.PackageQuote)
		}

		// ------------------------------
		// SECURED API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.POST("/bookings", h.Booking.Create)
			secured.GET("/bookings/:id", h.Booking.Get)
			secured.GET("/bookings/number/:number", h.Booking.GetByNumber)
			secured.GET("/bookings/:id/cancellation-fee", h.Booking.CancellationFee)
			secured.GET("/bookings/:id/events", h.AuditLogs.List)

			secured.POST("/bookings/:id/confirm", h.Booking.Confirm)
			secured.POST("/bookings/:id/start", h.Booking.Start)
			secured.POST("/bookings/:id/complete", h.Booking.Complete)
			secured.POST("/bookings/:id/cancel", h.Booking.Cancel)
			secured.POST("/bookings/:id/no-show", h.Booking.NoShow)
			secured.POST("/bookings/:id/reschedule", h.Booking.Reschedule)

			secured.POST("/bookings/:id/pay", h.Booking.Pay)
			secured.POST("/bookings/:id/payment-link", h.Booking.PaymentLink)

			secured.GET("/providers/:id/occupancy", h.Provider.Occupancy)
			secured.GET("/providers/:id/bookings", h.Provider.Bookings)
		}
	}
}
