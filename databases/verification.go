package databases

//go generate: mockery --name VerificationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motog-app/motog-app-be/models"
)

const verificationName = "vehicle_verifications"

// VerificationDatabase contains the methods to use with the vehicle verification database
type VerificationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.VehicleVerification, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.VehicleVerification, error)
	InsertOne(ctx context.Context, verification models.VehicleVerification) (interface{}, error)
}

type verificationDatabase struct {
	db DatabaseHelper
}

// NewVerificationDatabase initializes a new instance of verification database with the provided db connection
func NewVerificationDatabase(db DatabaseHelper) VerificationDatabase {
	return &verificationDatabase{
		db: db,
	}
}

func (c *verificationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.VehicleVerification, error) {
	verification := &models.VehicleVerification{}
	err := c.db.Collection(verificationName).FindOne(ctx, filter).Decode(&verification)
	if err != nil {
		return nil, err
	}
	return verification, nil
}

func (c *verificationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.VehicleVerification, error) {
	cursor, err := c.db.Collection(verificationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var verifications []models.VehicleVerification
	if err := cursor.Decode(&verifications); err != nil {
		return nil, err
	}
	return verifications, nil
}

func (c *verificationDatabase) InsertOne(ctx context.Context, verification models.VehicleVerification) (interface{}, error) {
	res, err := c.db.Collection(verificationName).InsertOne(ctx, verification)
	if err != nil {
		return nil, err
	}
	return res.Decode(), nil
}
