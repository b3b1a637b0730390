package conversation

import (
	"context"
	"strings"

	"clinicbook/models"
)

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "start": true,
}

// HandleTurn loads the caller's session, dispatches on the current step,
// persists the next state, and returns the reply. Every path either
// advances the step through a persisted update or leaves it untouched;
// state is always persisted before the reply is returned.
func (s *DefaultConversationService) HandleTurn(ctx context.Context, phoneNumber, body string) (string, error) {
	if s.Locks != nil {
		release, err := s.Locks.Acquire(ctx, phoneNumber)
		if err != nil {
			return "", err
		}
		defer release()
	}

	text := strings.TrimSpace(body)
	msg := strings.ToLower(text)

	session, err := s.Sessions.GetByPhone(ctx, phoneNumber)
	if err != nil {
		return "", err
	}
	if session == nil {
		session = &models.Session{PhoneNumber: phoneNumber, Step: models.StepGreeting}
	}

	// Global commands, recognized in every state.
	if greetings[msg] {
		fresh := &models.Session{PhoneNumber: phoneNumber, Step: models.StepSelectService}
		if _, err := s.Sessions.Upsert(ctx, fresh); err != nil {
			return "", err
		}
		return msgWelcome(), nil
	}
	if msg == "cancel" {
		if err := s.Sessions.Delete(ctx, phoneNumber); err != nil {
			return "", err
		}
		return msgCancelled(), nil
	}

	switch session.Step {
	case models.StepSelectService:
		return s.handleSelectService(ctx, session, msg)
	case models.StepHelp:
		return s.handleHelp(ctx, session, msg)
	case models.StepSelectDate:
		return s.handleSelectDate(ctx, session, text)
	case models.StepSelectDoctor:
		return s.handleSelectDoctor(ctx, session, text)
	case models.StepSelectSlot:
		return s.handleSelectSlot(ctx, session, text)
	case models.StepGetReason:
		return s.handleGetReason(ctx, session, text)
	case models.StepGetName:
		return s.handleGetName(ctx, session, text)
	case models.StepConfirmBooking:
		return s.handleConfirmBooking(ctx, session, msg)
	default:
		// Unknown or pre-greeting step: generic reprompt, no state change.
		return msgUnknownInput(), nil
	}
}
