// File: database/repository/doctor/doctor_mongo.go
package doctorRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a doctor id does not resolve.
var ErrNotFound = errors.New("doctor not found")

func (r *MongoDoctorRepo) Create(ctx context.Context, doctor *models.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	if doctor.AppointmentsBooked == nil {
		doctor.AppointmentsBooked = []models.AppointmentRef{}
	}

	if _, err := r.coll.InsertOne(ctx, doctor); err != nil {
		return fmt.Errorf("error creating doctor: %w", err)
	}
	return nil
}

func (r *MongoDoctorRepo) GetByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctor models.Doctor
	filter := bson.M{"id": doctorID}
	if err := r.coll.FindOne(ctx, filter).Decode(&doctor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching doctor with id %s: %w", doctorID, err)
	}
	return &doctor, nil
}

func (r *MongoDoctorRepo) GetAll(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("error decoding doctors: %w", err)
	}
	return doctors, nil
}

func (r *MongoDoctorRepo) Update(ctx context.Context, doctor *models.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doctor.UpdatedAt = time.Now()
	filter := bson.M{"id": doctor.ID}
	res, err := r.coll.ReplaceOne(ctx, filter, doctor)
	if err != nil {
		return fmt.Errorf("error updating doctor %s: %w", doctor.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDoctorRepo) Delete(ctx context.Context, doctorID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": doctorID})
	if err != nil {
		return fmt.Errorf("error deleting doctor %s: %w", doctorID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
