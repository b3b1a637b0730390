// File: database/repository/doctor/interface.go
package doctorRepo

import (
	"context"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DoctorRepository owns reads and administrative writes on the doctors
// collection. The appointmentsBooked mirror is never touched here; the
// booking repository updates it inside its transactions.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	GetAll(ctx context.Context) ([]models.Doctor, error)
	Update(ctx context.Context, doctor *models.Doctor) error
	Delete(ctx context.Context, doctorID string) error
	EnsureIndexes() error
}

// MongoDoctorRepo implements DoctorRepository using MongoDB.
type MongoDoctorRepo struct {
	coll *mongo.Collection
}

// NewMongoDoctorRepo constructs a new MongoDoctorRepo.
func NewMongoDoctorRepo() *MongoDoctorRepo {
	return &MongoDoctorRepo{
		coll: database.DB().Collection("doctors"),
	}
}
