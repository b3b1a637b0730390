package handlers

import (
	"errors"
	"net/http"

	"clinicbook/models"
	"clinicbook/services/availability"
	"clinicbook/services/doctor"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

// DoctorHandler exposes the admin doctor-roster endpoints.
type DoctorHandler struct {
	Service      doctor.DoctorService
	Availability availability.AvailabilityService
}

// NewDoctorHandler constructs a DoctorHandler.
func NewDoctorHandler(svc doctor.DoctorService, avail availability.AvailabilityService) *DoctorHandler {
	return &DoctorHandler{Service: svc, Availability: avail}
}

// CreateDoctorHandler registers a new doctor with template slots and
// working hours.
func (h *DoctorHandler) CreateDoctorHandler(c *gin.Context) {
	var input models.Doctor
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateDoctor(c.Request.Context(), &input)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to create doctor", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DoctorHandler) GetDoctorByIDHandler(c *gin.Context) {
	doc, err := h.Service.GetDoctorByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			utils.JSONError(c, http.StatusNotFound, "doctor not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch doctor", err.Error())
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DoctorHandler) GetAllDoctorsHandler(c *gin.Context) {
	doctors, err := h.Service.GetAllDoctors(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch doctors", err.Error())
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *DoctorHandler) DeleteDoctorHandler(c *gin.Context) {
	if err := h.Service.DeleteDoctor(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			utils.JSONError(c, http.StatusNotFound, "doctor not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete doctor", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDoctorAvailabilityHandler returns the doctor's open slots for a date.
func (h *DoctorHandler) GetDoctorAvailabilityHandler(c *gin.Context) {
	date := c.Query("date")
	if !utils.IsValidDate(date) {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "the date query parameter must be YYYY-MM-DD")
		return
	}

	slots, err := h.Availability.ListAvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			utils.JSONError(c, http.StatusNotFound, "doctor not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		return
	}
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": c.Param("id"), "date": date, "availableSlots": slots})
}
