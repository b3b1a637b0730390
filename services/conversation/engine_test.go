package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clinicbook/models"
	"clinicbook/services/booking"
	"clinicbook/services/doctor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPhone  = "+15551234567"
	futureDate = "2099-01-04" // far enough out to never be in the past
)

// memSessionRepo is an in-memory SessionRepository for engine tests.
type memSessionRepo struct {
	sessions map[string]*models.Session
	getErr   error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*models.Session{}}
}

func (m *memSessionRepo) GetByPhone(ctx context.Context, phone string) (*models.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[phone]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) Upsert(ctx context.Context, s *models.Session) (*models.Session, error) {
	cp := *s
	m.sessions[s.PhoneNumber] = &cp
	return s, nil
}

func (m *memSessionRepo) Delete(ctx context.Context, phone string) error {
	delete(m.sessions, phone)
	return nil
}

func (m *memSessionRepo) EnsureIndexes() error { return nil }

// fakeAvailability serves fixed doctor and slot listings.
type fakeAvailability struct {
	doctors  []models.DoctorSummary
	slots    map[string][]string // doctorID -> open slots
	slotsErr error
}

func (f *fakeAvailability) ListAvailableDoctors(ctx context.Context, date string) ([]models.DoctorSummary, error) {
	return f.doctors, nil
}

func (f *fakeAvailability) ListAvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return f.slots[doctorID], nil
}

// fakeLedger returns a canned result or error from CreateBooking.
type fakeLedger struct {
	createErr error
	created   []*models.BookingInput
}

func (f *fakeLedger) CreateBooking(ctx context.Context, in *models.BookingInput) (*models.Booking, error) {
	f.created = append(f.created, in)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Booking{
		ID:          "bk-1",
		PatientName: in.PatientName,
		PhoneNumber: in.PhoneNumber,
		Reason:      in.Reason,
		Service:     in.Service,
		Doctor:      in.Doctor,
		Date:        in.Date,
		Time:        in.Time,
		Source:      in.Source,
	}, nil
}

func (f *fakeLedger) CancelBooking(ctx context.Context, bookingID string) error { return nil }
func (f *fakeLedger) IsSlotBooked(ctx context.Context, doctorID, date, slot string) (bool, error) {
	return false, nil
}
func (f *fakeLedger) GetBookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	return nil, nil
}
func (f *fakeLedger) GetBookingsByPhone(ctx context.Context, phone string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeLedger) GetBookingsByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error) {
	return nil, nil
}

type fakeScheduler struct {
	scheduled []*models.Booking
	err       error
}

func (f *fakeScheduler) ScheduleBookingReminder(ctx context.Context, b *models.Booking) error {
	f.scheduled = append(f.scheduled, b)
	return f.err
}

func fixtureDoctors() []models.DoctorSummary {
	return []models.DoctorSummary{
		{ID: "doc-1", Name: "Dr. Smith", Specialization: "General Medicine",
			Slots: []string{"09:00 AM - 09:30 AM", "02:00 PM - 02:30 PM"}},
		{ID: "doc-2", Name: "Dr. Jones", Specialization: "Pediatrics",
			Slots: []string{"10:00 AM - 10:30 AM"}},
	}
}

func newEngine() (*DefaultConversationService, *memSessionRepo, *fakeAvailability, *fakeLedger) {
	sessions := newMemSessionRepo()
	avail := &fakeAvailability{
		doctors: fixtureDoctors(),
		slots: map[string][]string{
			"doc-1": {"09:00 AM - 09:30 AM", "02:00 PM - 02:30 PM"},
			"doc-2": {"10:00 AM - 10:30 AM"},
		},
	}
	ledger := &fakeLedger{}
	svc := &DefaultConversationService{
		Sessions:     sessions,
		Availability: avail,
		Ledger:       ledger,
	}
	return svc, sessions, avail, ledger
}

func turn(t *testing.T, svc *DefaultConversationService, body string) string {
	t.Helper()
	reply, err := svc.HandleTurn(context.Background(), testPhone, body)
	require.NoError(t, err)
	return reply
}

func TestGreetingStartsFreshSession(t *testing.T) {
	svc, sessions, _, _ := newEngine()

	for _, greeting := range []string{"hi", "Hello", "HEY", "start", "  Start  "} {
		reply := turn(t, svc, greeting)
		assert.Contains(t, reply, "Welcome")

		stored := sessions.sessions[testPhone]
		require.NotNil(t, stored)
		assert.Equal(t, models.StepSelectService, stored.Step)
	}
}

func TestGreetingMidFlowDiscardsProgress(t *testing.T) {
	svc, sessions, _, _ := newEngine()

	turn(t, svc, "start")
	turn(t, svc, "1")
	turn(t, svc, futureDate)

	turn(t, svc, "hi")
	stored := sessions.sessions[testPhone]
	require.NotNil(t, stored)
	assert.Equal(t, models.StepSelectService, stored.Step)
	assert.Empty(t, stored.Date, "restart clears the earlier date")
	assert.Empty(t, stored.AvailableDoctors)
}

func TestCancelDeletesSession(t *testing.T) {
	svc, sessions, _, _ := newEngine()

	turn(t, svc, "start")
	turn(t, svc, "1")

	reply := turn(t, svc, "cancel")
	assert.Contains(t, reply, "canceled")
	assert.NotContains(t, sessions.sessions, testPhone)
}

func TestUnknownFirstContact(t *testing.T) {
	svc, sessions, _, _ := newEngine()

	reply := turn(t, svc, "what's up")
	assert.Contains(t, reply, "Type START")
	assert.NotContains(t, sessions.sessions, testPhone, "no session persisted for noise")
}

func TestServiceMenu(t *testing.T) {
	t.Run("book moves to date entry", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		turn(t, svc, "start")

		reply := turn(t, svc, "1")
		assert.Contains(t, reply, "YYYY-MM-DD")
		assert.Equal(t, models.StepSelectDate, sessions.sessions[testPhone].Step)
		assert.Equal(t, "General Consultation", sessions.sessions[testPhone].Service)
	})

	t.Run("help and back", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		turn(t, svc, "start")

		reply := turn(t, svc, "2")
		assert.Contains(t, reply, "book a doctor's appointment")
		assert.Equal(t, models.StepHelp, sessions.sessions[testPhone].Step)

		// Anything but "back" re-shows help.
		reply = turn(t, svc, "ok")
		assert.Contains(t, reply, "book a doctor's appointment")

		reply = turn(t, svc, "back")
		assert.Contains(t, reply, "Welcome")
		assert.Equal(t, models.StepSelectService, sessions.sessions[testPhone].Step)
	})

	t.Run("invalid option reprompts in place", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		turn(t, svc, "start")

		reply := turn(t, svc, "7")
		assert.Contains(t, reply, "Invalid option")
		assert.Equal(t, models.StepSelectService, sessions.sessions[testPhone].Step)
	})
}

func TestDateEntry(t *testing.T) {
	t.Run("bad format reprompts", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		turn(t, svc, "start")
		turn(t, svc, "1")

		for _, bad := range []string{"tomorrow", "04-01-2099", "2099-1-4"} {
			reply := turn(t, svc, bad)
			assert.Contains(t, reply, "Invalid date")
		}
		assert.Equal(t, models.StepSelectDate, sessions.sessions[testPhone].Step)
	})

	t.Run("impossible calendar date reprompts", func(t *testing.T) {
		svc, _, _, _ := newEngine()
		turn(t, svc, "start")
		turn(t, svc, "1")

		reply := turn(t, svc, "2099-13-40")
		assert.Contains(t, reply, "Invalid date")
	})

	t.Run("past date reprompts", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		turn(t, svc, "start")
		turn(t, svc, "1")

		reply := turn(t, svc, "2020-01-01")
		assert.Contains(t, reply, "already passed")
		assert.Equal(t, models.StepSelectDate, sessions.sessions[testPhone].Step)
	})

	t.Run("no doctors reprompts without advancing", func(t *testing.T) {
		svc, sessions, avail, _ := newEngine()
		avail.doctors = nil
		turn(t, svc, "start")
		turn(t, svc, "1")

		reply := turn(t, svc, futureDate)
		assert.Contains(t, reply, "No doctors available")
		assert.Equal(t, models.StepSelectDate, sessions.sessions[testPhone].Step)
		assert.Empty(t, sessions.sessions[testPhone].Date)
	})

	t.Run("valid date lists doctors and snapshots them", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		turn(t, svc, "start")
		turn(t, svc, "1")

		reply := turn(t, svc, futureDate)
		assert.Contains(t, reply, "1. Dr. Smith")
		assert.Contains(t, reply, "2. Dr. Jones")

		stored := sessions.sessions[testPhone]
		assert.Equal(t, models.StepSelectDoctor, stored.Step)
		assert.Equal(t, futureDate, stored.Date)
		require.Len(t, stored.AvailableDoctors, 2)
	})
}

func TestDoctorSelection(t *testing.T) {
	toDoctorList := func(t *testing.T, svc *DefaultConversationService) {
		turn(t, svc, "start")
		turn(t, svc, "1")
		turn(t, svc, futureDate)
	}

	t.Run("out of range reprompts", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		toDoctorList(t, svc)

		for _, bad := range []string{"0", "3", "-1", "abc"} {
			reply := turn(t, svc, bad)
			assert.Contains(t, reply, "Invalid selection")
		}
		assert.Equal(t, models.StepSelectDoctor, sessions.sessions[testPhone].Step)
	})

	t.Run("valid pick snapshots fresh slots", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		toDoctorList(t, svc)

		reply := turn(t, svc, "1")
		assert.Contains(t, reply, "Available Slots for Dr. Smith")
		assert.Contains(t, reply, "1. Slot 09:00 AM - 09:30 AM")

		stored := sessions.sessions[testPhone]
		assert.Equal(t, models.StepSelectSlot, stored.Step)
		assert.Equal(t, "doc-1", stored.DoctorID)
		assert.Equal(t, []string{"09:00 AM - 09:30 AM", "02:00 PM - 02:30 PM"}, stored.AvailableSlots)
	})

	t.Run("doctor deleted since listing", func(t *testing.T) {
		svc, sessions, avail, _ := newEngine()
		toDoctorList(t, svc)
		avail.slotsErr = doctor.ErrDoctorNotFound

		reply := turn(t, svc, "1")
		assert.Contains(t, reply, "no longer available")
		assert.Equal(t, models.StepSelectDoctor, sessions.sessions[testPhone].Step)
	})

	t.Run("doctor fully booked since listing", func(t *testing.T) {
		svc, sessions, avail, _ := newEngine()
		toDoctorList(t, svc)
		avail.slots["doc-1"] = nil

		reply := turn(t, svc, "1")
		assert.Contains(t, reply, "No slots available for Dr. Smith")
		assert.Equal(t, models.StepSelectDoctor, sessions.sessions[testPhone].Step)
	})
}

func TestReasonAndName(t *testing.T) {
	toReason := func(t *testing.T, svc *DefaultConversationService) {
		turn(t, svc, "start")
		turn(t, svc, "1")
		turn(t, svc, futureDate)
		turn(t, svc, "1")
		turn(t, svc, "1")
	}

	t.Run("short reason reprompts", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		toReason(t, svc)

		reply := turn(t, svc, "hm")
		assert.Contains(t, reply, "at least 5 characters")
		assert.Equal(t, models.StepGetReason, sessions.sessions[testPhone].Step)
	})

	t.Run("reason length counts characters not bytes", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		toReason(t, svc)

		// Three characters, six bytes.
		reply := turn(t, svc, "ñññ")
		assert.Contains(t, reply, "at least 5 characters")
		assert.Equal(t, models.StepGetReason, sessions.sessions[testPhone].Step)

		reply = turn(t, svc, "dolor de cabeza")
		assert.Contains(t, reply, "full name")
	})

	t.Run("overlong reason reprompts", func(t *testing.T) {
		svc, _, _, _ := newEngine()
		toReason(t, svc)

		reply := turn(t, svc, strings.Repeat("x", 501))
		assert.Contains(t, reply, "at most 500 characters")
	})

	t.Run("empty name reprompts", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		toReason(t, svc)
		turn(t, svc, "Persistent headache")

		reply := turn(t, svc, "   ")
		assert.Contains(t, reply, "full name")
		assert.Equal(t, models.StepGetName, sessions.sessions[testPhone].Step)
	})

	t.Run("name accepted shows summary", func(t *testing.T) {
		svc, sessions, _, _ := newEngine()
		toReason(t, svc)
		turn(t, svc, "Persistent headache")

		reply := turn(t, svc, "Jane Doe")
		assert.Contains(t, reply, "Doctor: Dr. Smith (General Medicine)")
		assert.Contains(t, reply, "Slot: 09:00 AM - 09:30 AM")
		assert.Contains(t, reply, "Name: Jane Doe")
		assert.Equal(t, models.StepConfirmBooking, sessions.sessions[testPhone].Step)
	})
}

func toConfirm(t *testing.T, svc *DefaultConversationService) {
	t.Helper()
	turn(t, svc, "start")
	turn(t, svc, "1")
	turn(t, svc, futureDate)
	turn(t, svc, "1")
	turn(t, svc, "1")
	turn(t, svc, "Persistent headache")
	turn(t, svc, "Jane Doe")
}

func TestHappyPathBooksAndClearsSession(t *testing.T) {
	svc, sessions, _, ledger := newEngine()
	scheduler := &fakeScheduler{}
	svc.Reminders = scheduler

	toConfirm(t, svc)
	reply := turn(t, svc, "1")

	assert.Contains(t, reply, "Booking confirmed")
	assert.NotContains(t, sessions.sessions, testPhone, "session gone after confirmation")

	require.Len(t, ledger.created, 1)
	in := ledger.created[0]
	assert.Equal(t, testPhone, in.PhoneNumber)
	assert.Equal(t, "doc-1", in.Doctor.ID)
	assert.Equal(t, futureDate, in.Date)
	assert.Equal(t, "09:00 AM - 09:30 AM", in.Time)
	assert.Equal(t, models.SourceWhatsApp, in.Source)

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, "bk-1", scheduler.scheduled[0].ID)
}

func TestConfirmDeclinedAbortsFlow(t *testing.T) {
	svc, sessions, _, ledger := newEngine()
	toConfirm(t, svc)

	reply := turn(t, svc, "2")
	assert.Contains(t, reply, "canceled")
	assert.NotContains(t, sessions.sessions, testPhone)
	assert.Empty(t, ledger.created)
}

func TestConfirmLostRaceReturnsToSlotSelection(t *testing.T) {
	svc, sessions, avail, ledger := newEngine()
	toConfirm(t, svc)

	ledger.createErr = booking.ErrSlotAlreadyBooked
	avail.slots["doc-1"] = []string{"02:00 PM - 02:30 PM"}

	reply := turn(t, svc, "1")
	assert.Contains(t, reply, "just booked by someone else")
	assert.Contains(t, reply, "1. Slot 02:00 PM - 02:30 PM")

	stored := sessions.sessions[testPhone]
	require.NotNil(t, stored)
	assert.Equal(t, models.StepSelectSlot, stored.Step)
	assert.Equal(t, []string{"02:00 PM - 02:30 PM"}, stored.AvailableSlots)
	assert.Empty(t, stored.SelectedSlot)

	// The refreshed listing is live: picking slot 1 books the new one.
	ledger.createErr = nil
	turn(t, svc, "1")
	turn(t, svc, "Persistent headache")
	turn(t, svc, "Jane Doe")
	reply = turn(t, svc, "1")
	assert.Contains(t, reply, "Booking confirmed")
	last := ledger.created[len(ledger.created)-1]
	assert.Equal(t, "02:00 PM - 02:30 PM", last.Time)
}

func TestConfirmLostRaceDoctorExhausted(t *testing.T) {
	svc, sessions, avail, ledger := newEngine()
	toConfirm(t, svc)

	ledger.createErr = booking.ErrSlotAlreadyBooked
	avail.slots["doc-1"] = nil
	avail.doctors = []models.DoctorSummary{
		{ID: "doc-2", Name: "Dr. Jones", Specialization: "Pediatrics",
			Slots: []string{"10:00 AM - 10:30 AM"}},
	}

	reply := turn(t, svc, "1")
	assert.Contains(t, reply, "fully booked")
	assert.Contains(t, reply, "1. Dr. Jones")

	stored := sessions.sessions[testPhone]
	assert.Equal(t, models.StepSelectDoctor, stored.Step)
	assert.Empty(t, stored.DoctorID)
	require.Len(t, stored.AvailableDoctors, 1)
	assert.Equal(t, "doc-2", stored.AvailableDoctors[0].ID)
}

func TestConfirmLostRaceNothingLeft(t *testing.T) {
	svc, sessions, avail, ledger := newEngine()
	toConfirm(t, svc)

	ledger.createErr = booking.ErrSlotAlreadyBooked
	avail.slots["doc-1"] = nil
	avail.doctors = nil

	reply := turn(t, svc, "1")
	assert.Contains(t, reply, "no availability left")
	assert.NotContains(t, sessions.sessions, testPhone)
}

func TestConfirmDoctorVanished(t *testing.T) {
	svc, sessions, _, ledger := newEngine()
	toConfirm(t, svc)

	ledger.createErr = doctor.ErrDoctorNotFound
	reply := turn(t, svc, "1")
	assert.Contains(t, reply, "Dr. Smith")
	assert.Contains(t, reply, "no longer available")
	assert.Contains(t, reply, "YYYY-MM-DD")

	stored := sessions.sessions[testPhone]
	assert.Equal(t, models.StepSelectDate, stored.Step)
	assert.Empty(t, stored.DoctorID)
	assert.Empty(t, stored.Date)
}

func TestConfirmValidationFailureStays(t *testing.T) {
	svc, sessions, _, ledger := newEngine()
	toConfirm(t, svc)

	ledger.createErr = &booking.ValidationError{Field: "phoneNumber", Message: "must be in E.164 format"}
	reply := turn(t, svc, "1")
	assert.Contains(t, reply, "couldn't confirm")
	assert.Equal(t, models.StepConfirmBooking, sessions.sessions[testPhone].Step)
}

func TestConfirmInfrastructureErrorBubbles(t *testing.T) {
	svc, _, _, ledger := newEngine()
	toConfirm(t, svc)

	ledger.createErr = errors.New("mongo: connection reset")
	_, err := svc.HandleTurn(context.Background(), testPhone, "1")
	assert.Error(t, err)
}

func TestReminderFailureDoesNotBlockConfirmation(t *testing.T) {
	svc, sessions, _, _ := newEngine()
	svc.Reminders = &fakeScheduler{err: errors.New("queue down")}
	toConfirm(t, svc)

	reply := turn(t, svc, "1")
	assert.Contains(t, reply, "Booking confirmed")
	assert.NotContains(t, sessions.sessions, testPhone)
}

func TestSessionLoadFailureBubbles(t *testing.T) {
	svc, sessions, _, _ := newEngine()
	sessions.getErr = errors.New("mongo: server selection timeout")

	_, err := svc.HandleTurn(context.Background(), testPhone, "hi")
	assert.Error(t, err)
}

func TestStaleStepFallsThroughToReprompt(t *testing.T) {
	svc, sessions, _, _ := newEngine()
	sessions.sessions[testPhone] = &models.Session{
		PhoneNumber: testPhone,
		Step:        models.Step("select_symptoms"),
	}

	reply := turn(t, svc, "anything")
	assert.Contains(t, reply, "Type START")
}
