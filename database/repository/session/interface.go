// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository is the conversation engine's only mutable memory across
// turns: a durable mapping from phone number to conversation state.
type SessionRepository interface {
	// GetByPhone returns the session, or (nil, nil) when none exists.
	GetByPhone(ctx context.Context, phoneNumber string) (*models.Session, error)
	// Upsert merges the session fields into the stored document, creating
	// it if absent, and returns the stored state.
	Upsert(ctx context.Context, session *models.Session) (*models.Session, error)
	Delete(ctx context.Context, phoneNumber string) error
	EnsureIndexes() error
}

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a new MongoSessionRepo.
func NewMongoSessionRepo() *MongoSessionRepo {
	return &MongoSessionRepo{
		coll: database.DB().Collection("sessions"),
	}
}
