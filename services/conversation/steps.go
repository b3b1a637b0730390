package conversation

import (
	"context"
	"errors"
	"strconv"
	"time"
	"unicode/utf8"

	"clinicbook/models"
	"clinicbook/services/booking"
	"clinicbook/services/doctor"
	"clinicbook/utils"

	"go.uber.org/zap"
)

func (s *DefaultConversationService) handleSelectService(ctx context.Context, session *models.Session, msg string) (string, error) {
	switch msg {
	case "1":
		session.Service = "General Consultation"
		session.Step = models.StepSelectDate
		if _, err := s.Sessions.Upsert(ctx, session); err != nil {
			return "", err
		}
		return msgAskDate(), nil
	case "2":
		session.Step = models.StepHelp
		if _, err := s.Sessions.Upsert(ctx, session); err != nil {
			return "", err
		}
		return msgHelp(), nil
	default:
		return msgInvalidService(), nil
	}
}

func (s *DefaultConversationService) handleHelp(ctx context.Context, session *models.Session, msg string) (string, error) {
	if msg == "back" {
		session.Step = models.StepSelectService
		if _, err := s.Sessions.Upsert(ctx, session); err != nil {
			return "", err
		}
		return msgWelcome(), nil
	}
	return msgHelp(), nil
}

func (s *DefaultConversationService) handleSelectDate(ctx context.Context, session *models.Session, text string) (string, error) {
	if !utils.IsValidDate(text) {
		return msgInvalidDate(), nil
	}
	// Regex-valid but impossible dates ("2025-13-40") fail here.
	if _, err := utils.DayName(text); err != nil {
		return msgInvalidDate(), nil
	}
	if utils.IsPastDate(text, time.Now()) {
		return msgPastDate(), nil
	}

	doctors, err := s.Availability.ListAvailableDoctors(ctx, text)
	if err != nil {
		return "", err
	}
	if len(doctors) == 0 {
		return msgNoDoctors(), nil
	}

	session.Date = text
	session.AvailableDoctors = doctors
	session.Step = models.StepSelectDoctor
	// Entering a new date invalidates anything chosen on an earlier path.
	session.DoctorID = ""
	session.DoctorName = ""
	session.DoctorSpecialization = ""
	session.AvailableSlots = nil
	session.SelectedSlot = ""
	if _, err := s.Sessions.Upsert(ctx, session); err != nil {
		return "", err
	}
	return msgDoctorList(doctors), nil
}

func (s *DefaultConversationService) handleSelectDoctor(ctx context.Context, session *models.Session, text string) (string, error) {
	idx, err := strconv.Atoi(text)
	if err != nil || idx < 1 || idx > len(session.AvailableDoctors) {
		return msgInvalidDoctorChoice(), nil
	}
	chosen := session.AvailableDoctors[idx-1]

	slots, err := s.Availability.ListAvailableSlots(ctx, chosen.ID, session.Date)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return msgDoctorGone(chosen.Name), nil
		}
		return "", err
	}
	if len(slots) == 0 {
		return msgNoSlotsForDoctor(chosen.Name), nil
	}

	session.DoctorID = chosen.ID
	session.DoctorName = chosen.Name
	session.DoctorSpecialization = chosen.Specialization
	// Switching doctor invalidates any previously computed slot snapshot.
	session.AvailableSlots = slots
	session.SelectedSlot = ""
	session.Step = models.StepSelectSlot
	if _, err := s.Sessions.Upsert(ctx, session); err != nil {
		return "", err
	}
	return msgSlotList(chosen.Name, slots), nil
}

func (s *DefaultConversationService) handleSelectSlot(ctx context.Context, session *models.Session, text string) (string, error) {
	idx, err := strconv.Atoi(text)
	if err != nil || idx < 1 || idx > len(session.AvailableSlots) {
		return msgInvalidSlotChoice(), nil
	}

	session.SelectedSlot = session.AvailableSlots[idx-1]
	session.Step = models.StepGetReason
	if _, err := s.Sessions.Upsert(ctx, session); err != nil {
		return "", err
	}
	return msgAskReason(), nil
}

func (s *DefaultConversationService) handleGetReason(ctx context.Context, session *models.Session, text string) (string, error) {
	if utf8.RuneCountInString(text) < 5 {
		return msgReasonTooShort(), nil
	}
	if utf8.RuneCountInString(text) > 500 {
		return msgReasonTooLong(), nil
	}

	session.Reason = text
	session.Step = models.StepGetName
	if _, err := s.Sessions.Upsert(ctx, session); err != nil {
		return "", err
	}
	return msgAskName(), nil
}

func (s *DefaultConversationService) handleGetName(ctx context.Context, session *models.Session, text string) (string, error) {
	if text == "" {
		return msgAskName(), nil
	}

	session.PatientName = text
	session.Step = models.StepConfirmBooking
	if _, err := s.Sessions.Upsert(ctx, session); err != nil {
		return "", err
	}
	return msgConfirmSummary(session), nil
}

func (s *DefaultConversationService) handleConfirmBooking(ctx context.Context, session *models.Session, msg string) (string, error) {
	if msg != "1" {
		if err := s.Sessions.Delete(ctx, session.PhoneNumber); err != nil {
			return "", err
		}
		return msgBookingAborted(), nil
	}

	input := &models.BookingInput{
		PatientName: session.PatientName,
		PhoneNumber: session.PhoneNumber,
		Reason:      session.Reason,
		Service:     session.Service,
		Doctor: models.DoctorRef{
			ID:             session.DoctorID,
			Name:           session.DoctorName,
			Specialization: session.DoctorSpecialization,
		},
		Date:   session.Date,
		Time:   session.SelectedSlot,
		Source: models.SourceWhatsApp,
	}

	record, err := s.Ledger.CreateBooking(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotAlreadyBooked):
			return s.recoverFromLostRace(ctx, session)
		case errors.Is(err, doctor.ErrDoctorNotFound):
			return s.recoverFromMissingDoctor(ctx, session)
		case booking.IsValidation(err):
			// The accumulated answers failed ledger validation; stay at
			// confirmation so the caller can cancel and restart cleanly.
			return msgConfirmRejected(err), nil
		default:
			return "", err
		}
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleBookingReminder(ctx, record); err != nil {
			utils.GetLogger().Warn("failed to schedule reminder",
				zap.String("bookingId", record.ID), zap.Error(err))
		}
	}

	if err := s.Sessions.Delete(ctx, session.PhoneNumber); err != nil {
		// The booking is committed; a leftover session must not fail the
		// confirmation the user is about to read.
		utils.GetLogger().Warn("failed to clear session after booking",
			zap.String("phone", session.PhoneNumber), zap.Error(err))
	}
	return msgBookingConfirmed(record), nil
}

// recoverFromLostRace routes a lost (doctor, date, time) race back into the
// conversation: re-list what is still open and drop the user at the
// narrowest step that can still succeed.
func (s *DefaultConversationService) recoverFromLostRace(ctx context.Context, session *models.Session) (string, error) {
	slots, err := s.Availability.ListAvailableSlots(ctx, session.DoctorID, session.Date)
	if err != nil && !errors.Is(err, doctor.ErrDoctorNotFound) {
		return "", err
	}

	if len(slots) > 0 {
		session.AvailableSlots = slots
		session.SelectedSlot = ""
		session.Step = models.StepSelectSlot
		if _, err := s.Sessions.Upsert(ctx, session); err != nil {
			return "", err
		}
		return msgSlotTaken(session.DoctorName, slots), nil
	}

	doctors, err := s.Availability.ListAvailableDoctors(ctx, session.Date)
	if err != nil {
		return "", err
	}
	if len(doctors) > 0 {
		session.AvailableDoctors = doctors
		session.DoctorID = ""
		session.DoctorName = ""
		session.DoctorSpecialization = ""
		session.AvailableSlots = nil
		session.SelectedSlot = ""
		session.Step = models.StepSelectDoctor
		if _, err := s.Sessions.Upsert(ctx, session); err != nil {
			return "", err
		}
		return msgSlotTakenNewDoctorList(doctors), nil
	}

	if err := s.Sessions.Delete(ctx, session.PhoneNumber); err != nil {
		return "", err
	}
	return msgNoAvailabilityLeft(), nil
}

// recoverFromMissingDoctor handles a doctor deleted between selection and
// confirmation: back to date entry with everything downstream cleared.
func (s *DefaultConversationService) recoverFromMissingDoctor(ctx context.Context, session *models.Session) (string, error) {
	name := session.DoctorName
	session.Step = models.StepSelectDate
	session.Date = ""
	session.DoctorID = ""
	session.DoctorName = ""
	session.DoctorSpecialization = ""
	session.AvailableDoctors = nil
	session.AvailableSlots = nil
	session.SelectedSlot = ""
	if _, err := s.Sessions.Upsert(ctx, session); err != nil {
		return "", err
	}
	return msgDoctorVanished(name), nil
}
