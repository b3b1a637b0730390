package handlers

import (
	"errors"
	"net/http"

	"clinicbook/models"
	"clinicbook/services/booking"
	"clinicbook/services/doctor"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the admin booking endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBookingHandler creates a booking directly (the web channel).
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.Source == "" {
		input.Source = models.SourceWeb
	}

	record, err := h.Service.CreateBooking(c.Request.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotAlreadyBooked):
			utils.JSONError(c, http.StatusConflict, "slot already booked", "")
		case errors.Is(err, doctor.ErrDoctorNotFound):
			utils.JSONError(c, http.StatusNotFound, "doctor not found", "")
		case booking.IsValidation(err):
			utils.JSONError(c, http.StatusBadRequest, "invalid booking", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListBookingsHandler lists bookings by phone number or doctor id.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	phone := c.Query("phone")
	doctorID := c.Query("doctorId")

	var (
		bookings []models.Booking
		err      error
	)
	switch {
	case phone != "":
		bookings, err = h.Service.GetBookingsByPhone(c.Request.Context(), phone)
	case doctorID != "":
		bookings, err = h.Service.GetBookingsByDoctor(c.Request.Context(), doctorID)
	default:
		utils.JSONError(c, http.StatusBadRequest, "missing filter", "provide a phone or doctorId query parameter")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch bookings", err.Error())
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBookingHandler removes a booking and its doctor-side mirror.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	if err := h.Service.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
