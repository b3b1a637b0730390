package notification

import (
	"context"

	"clinicbook/models"
)

// NotificationService sends outbound WhatsApp messages.
type NotificationService interface {
	SendWhatsApp(ctx context.Context, phoneNumber, body string) error
}

// ReminderScheduler queues an appointment reminder to fire ahead of the
// slot start. Best-effort: callers log failures and move on.
type ReminderScheduler interface {
	ScheduleBookingReminder(ctx context.Context, booking *models.Booking) error
}
