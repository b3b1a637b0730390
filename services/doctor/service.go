package doctor

import (
	"context"
	"errors"
	"fmt"

	doctorRepo "clinicbook/database/repository/doctor"
	"clinicbook/models"
	"clinicbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// CreateDoctor validates and stores a new doctor. Template slots are
// canonicalized at write time so every later comparison is canonical-only.
func (s *DefaultDoctorService) CreateDoctor(ctx context.Context, input *models.Doctor) (*models.Doctor, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("doctor name is required")
	}
	if input.Specialization == "" {
		return nil, fmt.Errorf("doctor specialization is required")
	}
	if len(input.AvailableSlots) == 0 {
		return nil, fmt.Errorf("at least one template slot is required")
	}
	if len(input.WorkingHours) == 0 {
		return nil, fmt.Errorf("at least one working-hours entry is required")
	}
	for _, wh := range input.WorkingHours {
		if !weekdays[wh.Day] {
			return nil, fmt.Errorf("invalid working day %q", wh.Day)
		}
	}

	canonical, err := utils.CanonicalizeSlots(input.AvailableSlots)
	if err != nil {
		return nil, fmt.Errorf("invalid template slots: %w", err)
	}
	input.AvailableSlots = canonical

	if input.ID == "" {
		input.ID = uuid.New().String()
	}

	if err := s.Repo.Create(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	utils.GetLogger().Info("doctor created",
		zap.String("doctorId", input.ID),
		zap.String("name", input.Name),
		zap.String("specialization", input.Specialization))
	return input, nil
}

func (s *DefaultDoctorService) GetDoctorByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doc, err := s.Repo.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *DefaultDoctorService) GetAllDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.Repo.GetAll(ctx)
}

func (s *DefaultDoctorService) DeleteDoctor(ctx context.Context, doctorID string) error {
	if err := s.Repo.Delete(ctx, doctorID); err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return ErrDoctorNotFound
		}
		return err
	}
	return nil
}
