package doctor

import (
	"context"

	doctorRepo "clinicbook/database/repository/doctor"
	"clinicbook/models"
)

// DoctorService manages the clinic's doctor roster.
type DoctorService interface {
	CreateDoctor(ctx context.Context, input *models.Doctor) (*models.Doctor, error)
	GetDoctorByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	GetAllDoctors(ctx context.Context) ([]models.Doctor, error)
	DeleteDoctor(ctx context.Context, doctorID string) error
}

// DefaultDoctorService implements DoctorService.
type DefaultDoctorService struct {
	Repo doctorRepo.DoctorRepository
}
