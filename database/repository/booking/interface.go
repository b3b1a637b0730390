// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a booking id does not resolve.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicateSlot is returned when the unique (doctor, date, time)
	// index rejects an insert.
	ErrDuplicateSlot = errors.New("slot already booked")
	// ErrDoctorMissing is returned when the doctor document the mirror
	// entry should land on does not exist.
	ErrDoctorMissing = errors.New("doctor document not found")
)

// BookingRepository owns the bookings collection together with the
// appointmentsBooked mirror on the doctors collection. The two are only
// ever written inside the same multi-document transaction.
type BookingRepository interface {
	// CreateWithMirror inserts the booking and appends its mirror entry to
	// the doctor document as one atomic unit. Both writes commit or both
	// roll back. A unique-index rejection surfaces as ErrDuplicateSlot.
	CreateWithMirror(ctx context.Context, booking *models.Booking) error

	// DeleteWithMirror removes the booking and pulls its mirror entry from
	// the doctor document atomically. Returns the deleted booking.
	DeleteWithMirror(ctx context.Context, bookingID string) (*models.Booking, error)

	Exists(ctx context.Context, doctorID, date, slot string) (bool, error)
	GetBookedTimes(ctx context.Context, doctorID, date string) ([]string, error)
	GetByPhone(ctx context.Context, phoneNumber string) ([]models.Booking, error)
	GetByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error)
	EnsureIndexes() error
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	doctorColl  *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoBookingRepo.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.DB()
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		doctorColl:  db.Collection("doctors"),
	}
}
