package availability

import (
	"context"
	"time"

	doctorRepo "clinicbook/database/repository/doctor"
	"clinicbook/models"
	"clinicbook/services/booking"
)

// AvailabilityService computes real-time bookable slots: the doctor's
// canonical template slots minus booked slots and, on the current date,
// minus slots whose start has already passed, gated by the working-day
// calendar.
type AvailabilityService interface {
	// ListAvailableDoctors returns every doctor working on the date's
	// weekday who still has at least one open slot.
	ListAvailableDoctors(ctx context.Context, date string) ([]models.DoctorSummary, error)
	// ListAvailableSlots returns the open slots for one doctor on a date.
	// Fails with doctor.ErrDoctorNotFound when the id does not resolve.
	ListAvailableSlots(ctx context.Context, doctorID, date string) ([]string, error)
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Doctors doctorRepo.DoctorRepository
	Ledger  booking.BookingService

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
