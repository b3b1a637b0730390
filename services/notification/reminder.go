package notification

import (
	"context"
	"fmt"
	"time"

	"clinicbook/config"
	"clinicbook/models"
	"clinicbook/services/tasks"
	"clinicbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqReminderScheduler queues appointment reminders on Redis via asynq,
// to be delivered by the reminder worker.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

// NewAsynqReminderScheduler builds a scheduler over the queue Redis DB.
func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		Client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

// ScheduleBookingReminder enqueues a reminder to fire the configured lead
// time before the slot start. Appointments starting too soon get no
// reminder rather than an instant one.
func (s *AsynqReminderScheduler) ScheduleBookingReminder(ctx context.Context, booking *models.Booking) error {
	start, err := utils.SlotStart(booking.Date, booking.Time)
	if err != nil {
		return fmt.Errorf("cannot schedule reminder: %w", err)
	}

	lead := time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute
	fireAt := start.Add(-lead)
	if !fireAt.After(time.Now()) {
		utils.GetLogger().Info("skipping reminder for imminent appointment",
			zap.String("bookingId", booking.ID),
			zap.Time("slotStart", start))
		return nil
	}

	payload := models.ReminderPayload{
		BookingID:   booking.ID,
		PhoneNumber: booking.PhoneNumber,
		FireDate:    fireAt.Format(time.RFC3339),
		Body: fmt.Sprintf("⏰ Reminder: your appointment with Dr. %s is at %s on %s. See you at %s!",
			booking.Doctor.Name, booking.Time, booking.Date, config.AppConfig.ClinicAddress),
	}

	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	utils.GetLogger().Info("reminder scheduled",
		zap.String("bookingId", booking.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
