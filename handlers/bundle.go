package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handler funcs the router wires up.
type HandlerBundle struct {
	// Webhook endpoint.
	HandleIncoming gin.HandlerFunc

	// Doctor admin endpoints.
	CreateDoctorHandler          gin.HandlerFunc
	GetDoctorByIDHandler         gin.HandlerFunc
	GetAllDoctorsHandler         gin.HandlerFunc
	DeleteDoctorHandler          gin.HandlerFunc
	GetDoctorAvailabilityHandler gin.HandlerFunc

	// Booking admin endpoints.
	CreateBookingHandler gin.HandlerFunc
	ListBookingsHandler  gin.HandlerFunc
	CancelBookingHandler gin.HandlerFunc
}
