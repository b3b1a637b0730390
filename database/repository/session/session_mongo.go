// File: database/repository/session/session_mongo.go
package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoSessionRepo) GetByPhone(ctx context.Context, phoneNumber string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	filter := bson.M{"phoneNumber": phoneNumber}
	if err := r.coll.FindOne(ctx, filter).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching session for %s: %w", phoneNumber, err)
	}
	return &session, nil
}

// Upsert writes the session via $set so concurrent metadata on the document
// is merged rather than clobbered. Every conversation field is written
// explicitly, including empty ones: a restarted flow must clear the stale
// snapshot fields of the abandoned path.
func (r *MongoSessionRepo) Upsert(ctx context.Context, session *models.Session) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	availableDoctors := session.AvailableDoctors
	if availableDoctors == nil {
		availableDoctors = []models.DoctorSummary{}
	}
	availableSlots := session.AvailableSlots
	if availableSlots == nil {
		availableSlots = []string{}
	}

	filter := bson.M{"phoneNumber": session.PhoneNumber}
	update := bson.M{
		"$set": bson.M{
			"step":                 session.Step,
			"service":              session.Service,
			"date":                 session.Date,
			"doctorId":             session.DoctorID,
			"doctorName":           session.DoctorName,
			"doctorSpecialization": session.DoctorSpecialization,
			"availableDoctors":     availableDoctors,
			"availableSlots":       availableSlots,
			"selectedSlot":         session.SelectedSlot,
			"reason":               session.Reason,
			"patientName":          session.PatientName,
			"updated_at":           now,
		},
		"$setOnInsert": bson.M{
			"phoneNumber": session.PhoneNumber,
			"created_at":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Session
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("error upserting session for %s: %w", session.PhoneNumber, err)
	}
	return &stored, nil
}

func (r *MongoSessionRepo) Delete(ctx context.Context, phoneNumber string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"phoneNumber": phoneNumber}); err != nil {
		return fmt.Errorf("error deleting session for %s: %w", phoneNumber, err)
	}
	return nil
}
