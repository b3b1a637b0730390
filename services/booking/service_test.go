package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	bookingRepo "clinicbook/database/repository/booking"
	"clinicbook/models"
	"clinicbook/services/doctor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingRepo enforces the (doctor, date, time) uniqueness invariant
// in memory, under a mutex, the way the compound index does in Mongo.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking // keyed by booking id
	slots    map[string]string          // doctorID|date|time -> booking id

	existsErr error
	createErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[string]*models.Booking),
		slots:    make(map[string]string),
	}
}

func slotKey(doctorID, date, slot string) string {
	return doctorID + "|" + date + "|" + slot
}

func (f *fakeBookingRepo) CreateWithMirror(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := slotKey(b.Doctor.ID, b.Date, b.Time)
	if _, taken := f.slots[key]; taken {
		return bookingRepo.ErrDuplicateSlot
	}
	f.slots[key] = b.ID
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) DeleteWithMirror(ctx context.Context, bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	delete(f.bookings, bookingID)
	delete(f.slots, slotKey(b.Doctor.ID, b.Date, b.Time))
	return b, nil
}

func (f *fakeBookingRepo) Exists(ctx context.Context, doctorID, date, slot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.slots[slotKey(doctorID, date, slot)]
	return ok, nil
}

func (f *fakeBookingRepo) GetBookedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, b := range f.bookings {
		if b.Doctor.ID == doctorID && b.Date == date {
			out = append(out, b.Time)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByPhone(ctx context.Context, phoneNumber string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.PhoneNumber == phoneNumber {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Doctor.ID == doctorID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) EnsureIndexes() error { return nil }

func validInput() *models.BookingInput {
	return &models.BookingInput{
		PatientName: "Jane Doe",
		PhoneNumber: "+15551234567",
		Reason:      "Persistent headache",
		Service:     "General Consultation",
		Doctor:      models.DoctorRef{ID: "doc-1", Name: "Dr. Smith", Specialization: "General Medicine"},
		Date:        "2026-09-07",
		Time:        "2:00 PM - 2:30 PM",
	}
}

func TestCreateBookingHappyPath(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := &DefaultBookingService{Repo: repo}

	got, err := svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "02:00 PM - 02:30 PM", got.Time, "slot stored canonical")
	assert.Equal(t, models.SourceWhatsApp, got.Source)
	assert.False(t, got.CreatedAt.IsZero())

	taken, err := svc.IsSlotBooked(context.Background(), "doc-1", "2026-09-07", "02:00 PM - 02:30 PM")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCreateBookingDefaultsReason(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := &DefaultBookingService{Repo: repo}

	in := validInput()
	in.Reason = ""
	got, err := svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Not specified", got.Reason)
}

func TestCreateBookingValidationOrder(t *testing.T) {
	svc := &DefaultBookingService{Repo: newFakeBookingRepo()}

	tests := []struct {
		name      string
		mutate    func(*models.BookingInput)
		wantField string
	}{
		{"missing name", func(in *models.BookingInput) { in.PatientName = "" }, "patientName"},
		{"missing phone", func(in *models.BookingInput) { in.PhoneNumber = "" }, "phoneNumber"},
		{"missing doctor", func(in *models.BookingInput) { in.Doctor.ID = "" }, "doctor"},
		{"missing date", func(in *models.BookingInput) { in.Date = "" }, "date"},
		{"missing time", func(in *models.BookingInput) { in.Time = "" }, "time"},
		{"bad phone format", func(in *models.BookingInput) { in.PhoneNumber = "not-a-phone" }, "phoneNumber"},
		{"bad date format", func(in *models.BookingInput) { in.Date = "07-09-2026" }, "date"},
		{"reason too short", func(in *models.BookingInput) { in.Reason = "hm" }, "reason"},
		{"reason too short in runes", func(in *models.BookingInput) { in.Reason = "ñññ" }, "reason"},
		{"malformed slot", func(in *models.BookingInput) { in.Time = "garbage" }, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			_, err := svc.CreateBooking(context.Background(), in)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}

	// Missing name wins over missing phone: first violation reported.
	in := validInput()
	in.PatientName = ""
	in.PhoneNumber = ""
	_, err := svc.CreateBooking(context.Background(), in)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "patientName", ve.Field)
}

func TestCreateBookingDuplicateSlot(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := &DefaultBookingService{Repo: repo}

	_, err := svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.PhoneNumber = "+15559876543"
	in.Time = "02:00 PM - 02:30 PM" // equivalent padded form
	_, err = svc.CreateBooking(context.Background(), in)
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestCreateBookingLostRaceAfterReadCheck(t *testing.T) {
	// Exists says free, insert still collides: ErrDuplicateSlot from the
	// repo must surface as ErrSlotAlreadyBooked.
	repo := newFakeBookingRepo()
	repo.createErr = bookingRepo.ErrDuplicateSlot
	svc := &DefaultBookingService{Repo: repo}

	_, err := svc.CreateBooking(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestCreateBookingDoctorVanished(t *testing.T) {
	repo := newFakeBookingRepo()
	repo.createErr = bookingRepo.ErrDoctorMissing
	svc := &DefaultBookingService{Repo: repo}

	_, err := svc.CreateBooking(context.Background(), validInput())
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := &DefaultBookingService{Repo: repo}

	const contenders = 8
	errs := make(chan error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), validInput())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotAlreadyBooked):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one contender may win the slot")
	assert.Equal(t, contenders-1, losses)
}

func TestCancelBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := &DefaultBookingService{Repo: repo}

	created, err := svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(context.Background(), created.ID))

	// Slot is free again.
	taken, err := svc.IsSlotBooked(context.Background(), "doc-1", "2026-09-07", "02:00 PM - 02:30 PM")
	require.NoError(t, err)
	assert.False(t, taken)

	// And can be rebooked.
	_, err = svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelBooking(context.Background(), created.ID), ErrBookingNotFound)
}

func TestGetBookedSlotsCanonicalizesStoredTimes(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := &DefaultBookingService{Repo: repo}

	// Legacy row written before the canonical-only rule.
	repo.bookings["legacy"] = &models.Booking{
		ID:     "legacy",
		Doctor: models.DoctorRef{ID: "doc-1"},
		Date:   "2026-09-07",
		Time:   "2:00 PM - 2:30 PM",
	}

	got, err := svc.GetBookedSlots(context.Background(), "doc-1", "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"02:00 PM - 02:30 PM"}, got)
}

func TestGetBookingsByPhone(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := &DefaultBookingService{Repo: repo}

	_, err := svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	got, err := svc.GetBookingsByPhone(context.Background(), "+15551234567")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jane Doe", got[0].PatientName)

	none, err := svc.GetBookingsByPhone(context.Background(), "+15550000000")
	require.NoError(t, err)
	assert.Empty(t, none)
}
