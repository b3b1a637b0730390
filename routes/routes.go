package routes

import (
	"net/http"
	"time"

	"clinicbook/handlers"
	"clinicbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the inbound WhatsApp webhook.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/webhook", hb.HandleIncoming)
}

// RegisterAdminRoutes registers the token-protected admin API.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AdminAuthMiddleware())

		api.POST("/doctors", hb.CreateDoctorHandler)
		api.GET("/doctors", hb.GetAllDoctorsHandler)
		api.GET("/doctors/:id", hb.GetDoctorByIDHandler)
		api.GET("/doctors/:id/availability", hb.GetDoctorAvailabilityHandler)
		api.DELETE("/doctors/:id", hb.DeleteDoctorHandler)

		api.POST("/bookings", hb.CreateBookingHandler)
		api.GET("/bookings", hb.ListBookingsHandler)
		api.DELETE("/bookings/:id", hb.CancelBookingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "WhatsApp booking backend is running!")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes wires every route group onto the engine.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	RegisterHealthRoute(r)
	RegisterWebhookRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
