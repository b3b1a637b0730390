package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	bookingRepo "clinicbook/database/repository/booking"
	"clinicbook/models"
	"clinicbook/services/doctor"
	"clinicbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReason = "Not specified"

// CreateBooking validates the input, canonicalizes the slot, and commits
// the booking row plus the doctor-side mirror entry as one transaction.
// Validation fails fast: the first violation wins.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input *models.BookingInput) (*models.Booking, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	canonicalTime, err := utils.CanonicalizeSlot(input.Time)
	if err != nil {
		return nil, &ValidationError{Field: "time", Message: err.Error()}
	}

	// Read check first; cheap rejection for the common case. The unique
	// index inside the transaction settles true races.
	taken, err := s.Repo.Exists(ctx, input.Doctor.ID, input.Date, canonicalTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		return nil, ErrSlotAlreadyBooked
	}

	reason := input.Reason
	if reason == "" {
		reason = defaultReason
	}
	source := input.Source
	if source == "" {
		source = models.SourceWhatsApp
	}

	record := &models.Booking{
		ID:          uuid.New().String(),
		PatientName: input.PatientName,
		PhoneNumber: input.PhoneNumber,
		Reason:      reason,
		Service:     input.Service,
		Doctor:      input.Doctor,
		Date:        input.Date,
		Time:        canonicalTime,
		Source:      source,
		CreatedAt:   time.Now(),
	}

	if err := s.Repo.CreateWithMirror(ctx, record); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrDuplicateSlot):
			return nil, ErrSlotAlreadyBooked
		case errors.Is(err, bookingRepo.ErrDoctorMissing):
			return nil, doctor.ErrDoctorNotFound
		default:
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
	}

	utils.GetLogger().Info("booking created",
		zap.String("bookingId", record.ID),
		zap.String("doctorId", record.Doctor.ID),
		zap.String("date", record.Date),
		zap.String("time", record.Time),
		zap.String("source", record.Source))
	return record, nil
}

// CancelBooking atomically removes the booking and its doctor-side mirror.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	deleted, err := s.Repo.DeleteWithMirror(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingId", deleted.ID),
		zap.String("doctorId", deleted.Doctor.ID),
		zap.String("date", deleted.Date),
		zap.String("time", deleted.Time))
	return nil
}

func (s *DefaultBookingService) IsSlotBooked(ctx context.Context, doctorID, date, slot string) (bool, error) {
	canonical, err := utils.CanonicalizeSlot(slot)
	if err != nil {
		return false, &ValidationError{Field: "time", Message: err.Error()}
	}
	return s.Repo.Exists(ctx, doctorID, date, canonical)
}

// GetBookedSlots returns the booked slots for a doctor and date, in
// canonical form. Stored times predating the canonical-only rule are
// normalized on the way out.
func (s *DefaultBookingService) GetBookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	raw, err := s.Repo.GetBookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	booked := make([]string, 0, len(raw))
	for _, t := range raw {
		canonical, err := utils.CanonicalizeSlot(t)
		if err != nil {
			return nil, fmt.Errorf("stored booking time %q is malformed: %w", t, err)
		}
		booked = append(booked, canonical)
	}
	return booked, nil
}

func (s *DefaultBookingService) GetBookingsByPhone(ctx context.Context, phoneNumber string) ([]models.Booking, error) {
	return s.Repo.GetByPhone(ctx, phoneNumber)
}

func (s *DefaultBookingService) GetBookingsByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error) {
	return s.Repo.GetByDoctor(ctx, doctorID)
}

func validateInput(input *models.BookingInput) error {
	switch {
	case input.PatientName == "":
		return &ValidationError{Field: "patientName", Message: "required field is missing"}
	case input.PhoneNumber == "":
		return &ValidationError{Field: "phoneNumber", Message: "required field is missing"}
	case input.Doctor.ID == "":
		return &ValidationError{Field: "doctor", Message: "required field is missing"}
	case input.Date == "":
		return &ValidationError{Field: "date", Message: "required field is missing"}
	case input.Time == "":
		return &ValidationError{Field: "time", Message: "required field is missing"}
	}

	if !utils.IsValidPhoneNumber(input.PhoneNumber) {
		return &ValidationError{Field: "phoneNumber", Message: "must be in E.164 format"}
	}
	if !utils.IsValidDate(input.Date) {
		return &ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	if input.Reason != "" {
		if utf8.RuneCountInString(input.Reason) < 5 {
			return &ValidationError{Field: "reason", Message: "must be at least 5 characters"}
		}
		if utf8.RuneCountInString(input.Reason) > 500 {
			return &ValidationError{Field: "reason", Message: "must be at most 500 characters"}
		}
	}
	return nil
}
