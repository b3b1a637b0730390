package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotAlreadyBooked signals a lost race: another booking holds the
	// same (doctor, date, time). Recoverable, the conversation returns to
	// slot selection.
	ErrSlotAlreadyBooked = errors.New("this time slot is already booked")

	// ErrBookingNotFound signals that a booking id does not resolve.
	ErrBookingNotFound = errors.New("booking not found")
)

// ValidationError reports a malformed booking field. Always recoverable:
// the caller reprompts without touching stored state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
