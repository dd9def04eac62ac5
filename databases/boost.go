package databases

//go generate: mockery --name BoostDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motog-app/motog-app-be/models"
)

const boostName = "user_boosts"

// BoostDatabase contains the methods to use with the user boost database
type BoostDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.UserBoost, error)
	InsertOne(ctx context.Context, boost models.UserBoost) (interface{}, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type boostDatabase struct {
	db DatabaseHelper
}

// NewBoostDatabase initializes a new instance of boost database with the provided db connection
func NewBoostDatabase(db DatabaseHelper) BoostDatabase {
	return &boostDatabase{
		db: db,
	}
}

func (c *boostDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.UserBoost, error) {
	cursor, err := c.db.Collection(boostName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var boosts []models.UserBoost
	if err := cursor.Decode(&boosts); err != nil {
		return nil, err
	}
	return boosts, nil
}

func (c *boostDatabase) InsertOne(ctx context.Context, boost models.UserBoost) (interface{}, error) {
	res, err := c.db.Collection(boostName).InsertOne(ctx, boost)
	if err != nil {
		return nil, err
	}
	return res.Decode(), nil
}

func (c *boostDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(boostName).CountDocuments(ctx, filter)
}
