package availability

import (
	"context"
	"errors"
	"fmt"

	doctorRepo "clinicbook/database/repository/doctor"
	"clinicbook/models"
	"clinicbook/services/doctor"
	"clinicbook/utils"
)

// ListAvailableDoctors resolves the date's weekday, then for each doctor
// working that day subtracts their booked slots from the canonical template
// set. Doctors left with no open slots are excluded.
func (s *DefaultAvailabilityService) ListAvailableDoctors(ctx context.Context, date string) ([]models.DoctorSummary, error) {
	day, err := utils.DayName(date)
	if err != nil {
		return nil, err
	}

	doctors, err := s.Doctors.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctors: %w", err)
	}

	var result []models.DoctorSummary
	for i := range doctors {
		d := &doctors[i]
		if !d.WorksOn(day) {
			continue
		}
		open, err := s.openSlots(ctx, d, date)
		if err != nil {
			return nil, err
		}
		if len(open) == 0 {
			continue
		}
		result = append(result, models.DoctorSummary{
			ID:             d.ID,
			Name:           d.Name,
			Specialization: d.Specialization,
			Slots:          open,
		})
	}
	return result, nil
}

// ListAvailableSlots computes the open slots for one doctor on a date.
func (s *DefaultAvailabilityService) ListAvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	d, err := s.Doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, err
	}

	day, err := utils.DayName(date)
	if err != nil {
		return nil, err
	}
	if !d.WorksOn(day) {
		return nil, nil
	}

	return s.openSlots(ctx, d, date)
}

// openSlots is the core subtraction: canonical template minus canonical
// booked, preserving template order, with past-start slots dropped when the
// date is today.
func (s *DefaultAvailabilityService) openSlots(ctx context.Context, d *models.Doctor, date string) ([]string, error) {
	template, err := utils.CanonicalizeSlots(d.AvailableSlots)
	if err != nil {
		return nil, fmt.Errorf("doctor %s has malformed template slots: %w", d.ID, err)
	}

	booked, err := s.Ledger.GetBookedSlots(ctx, d.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booked slots for doctor %s: %w", d.ID, err)
	}

	open := utils.SubtractSlots(template, booked)

	now := s.now()
	if utils.IsToday(date, now) {
		var upcoming []string
		for _, slot := range open {
			start, err := utils.SlotStart(date, slot)
			if err != nil {
				return nil, err
			}
			if start.After(now) {
				upcoming = append(upcoming, slot)
			}
		}
		open = upcoming
	}
	return open, nil
}
