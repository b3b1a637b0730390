package booking

import (
	"context"

	bookingRepo "clinicbook/database/repository/booking"
	"clinicbook/models"
)

// BookingService is the booking ledger: it owns atomic creation and
// cancellation of bookings together with the mirrored entry on the doctor
// record, and answers booked-slot queries in canonical form.
type BookingService interface {
	CreateBooking(ctx context.Context, input *models.BookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
	IsSlotBooked(ctx context.Context, doctorID, date, slot string) (bool, error)
	GetBookedSlots(ctx context.Context, doctorID, date string) ([]string, error)
	GetBookingsByPhone(ctx context.Context, phoneNumber string) ([]models.Booking, error)
	GetBookingsByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo bookingRepo.BookingRepository
}
