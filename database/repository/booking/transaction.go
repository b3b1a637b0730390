// File: database/repository/booking/transaction.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateWithMirror inserts the booking document and embeds the mirror entry
// into the doctor document inside a single transaction. The pre-write
// existence check done by the service layer is an optimization; the unique
// index on (doctor.id, date, time) inside this transaction is the guarantee.
func (r *MongoBookingRepo) CreateWithMirror(ctx context.Context, booking *models.Booking) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateSlot
			}
			return fmt.Errorf("insert booking failed: %w", err)
		}

		mirror := models.AppointmentRef{
			BookingID: booking.ID,
			Date:      booking.Date,
			Time:      booking.Time,
			Source:    booking.Source,
		}
		filter := bson.M{"id": booking.Doctor.ID}
		update := bson.M{"$addToSet": bson.M{"appointmentsBooked": mirror}}

		res, err := r.doctorColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("embed appointment reference failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrDoctorMissing
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrDuplicateSlot) || errors.Is(err, ErrDoctorMissing) {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}

// DeleteWithMirror is the exact inverse of CreateWithMirror: it removes the
// booking row and pulls the mirror entry from the doctor document as one
// atomic unit.
func (r *MongoBookingRepo) DeleteWithMirror(ctx context.Context, bookingID string) (*models.Booking, error) {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var deleted models.Booking
	txnFn := func(sc mongo.SessionContext) error {
		if err := r.bookingColl.FindOne(sc, bson.M{"id": bookingID}).Decode(&deleted); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch booking failed: %w", err)
		}

		if _, err := r.bookingColl.DeleteOne(sc, bson.M{"id": bookingID}); err != nil {
			return fmt.Errorf("delete booking failed: %w", err)
		}

		filter := bson.M{"id": deleted.Doctor.ID}
		update := bson.M{"$pull": bson.M{"appointmentsBooked": bson.M{"bookingId": bookingID}}}
		if _, err := r.doctorColl.UpdateOne(sc, filter, update); err != nil {
			return fmt.Errorf("pull appointment reference failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cancellation transaction failed: %w", err)
	}

	return &deleted, nil
}
