package databases

//go generate: mockery --name LockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const lockName = "scheduler_locks"

// LockDatabase provides a mongo-backed distributed lock so scheduled jobs
// run on a single instance at a time.
type LockDatabase interface {
	TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, instanceID string) error
}

type lockDatabase struct {
	db DatabaseHelper
}

// NewLockDatabase initializes a new instance of lock database with the provided db connection
func NewLockDatabase(db DatabaseHelper) LockDatabase {
	return &lockDatabase{
		db: db,
	}
}

func (l *lockDatabase) TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()
	expiresAt := primitive.NewDateTimeFromTime(now.Add(ttl))

	// Take over an expired lock if one exists.
	res, err := l.db.Collection(lockName).UpdateOne(ctx,
		bson.M{"_id": name, "expires_at": bson.M{"$lt": primitive.NewDateTimeFromTime(now)}},
		bson.M{"$set": bson.M{"holder": instanceID, "expires_at": expiresAt}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}

	// Otherwise insert; a duplicate key means another instance holds it.
	_, err = l.db.Collection(lockName).InsertOne(ctx, bson.M{
		"_id":        name,
		"holder":     instanceID,
		"expires_at": expiresAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *lockDatabase) ReleaseLock(ctx context.Context, name, instanceID string) error {
	_, err := l.db.Collection(lockName).DeleteOne(ctx, bson.M{"_id": name, "holder": instanceID})
	return err
}
