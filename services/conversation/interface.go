package conversation

import (
	"context"

	sessionRepo "clinicbook/database/repository/session"
	"clinicbook/services/availability"
	"clinicbook/services/booking"
	"clinicbook/services/notification"
)

// ConversationService drives the per-phone-number booking conversation.
// HandleTurn is the single entry point: one call per inbound message,
// returning the reply text. At-least-once delivery from the transport is
// safe; the ledger's uniqueness guarantee is the backstop against a
// redelivered confirmation double-booking.
type ConversationService interface {
	HandleTurn(ctx context.Context, phoneNumber, body string) (string, error)
}

// Locker serializes turns for the same phone number so a session
// read-modify-write never races with itself.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// DefaultConversationService implements ConversationService.
type DefaultConversationService struct {
	Sessions     sessionRepo.SessionRepository
	Availability availability.AvailabilityService
	Ledger       booking.BookingService
	Reminders    notification.ReminderScheduler // optional
	Locks        Locker                         // optional
}
