// File: database/repository/booking/booking_mongo.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoBookingRepo) Exists(ctx context.Context, doctorID, date, slot string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctor.id": doctorID, "date": date, "time": slot}
	count, err := r.bookingColl.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking slot booking: %w", err)
	}
	return count > 0, nil
}

func (r *MongoBookingRepo) GetBookedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctor.id": doctorID, "date": date}
	opts := options.Find().SetProjection(bson.M{"time": 1, "_id": 0})
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching booked slots: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Time string `bson:"time"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding booked slots: %w", err)
	}

	times := make([]string, 0, len(rows))
	for _, row := range rows {
		times = append(times, row.Time)
	}
	return times, nil
}

func (r *MongoBookingRepo) GetByPhone(ctx context.Context, phoneNumber string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"phoneNumber": phoneNumber})
}

func (r *MongoBookingRepo) GetByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"doctor.id": doctorID})
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
