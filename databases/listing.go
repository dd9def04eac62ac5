package databases

//go generate: mockery --name ListingDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motog-app/motog-app-be/models"
)

const listingName = "vehicle_listings"

// ListingDatabase contains the methods to use with the listing database
type ListingDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Listing, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Listing, error)
	InsertOne(ctx context.Context, listing models.Listing) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type listingDatabase struct {
	db DatabaseHelper
}

// NewListingDatabase initializes a new instance of listing database with the provided db connection
func NewListingDatabase(db DatabaseHelper) ListingDatabase {
	return &listingDatabase{
		db: db,
	}
}

func (c *listingDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Listing, error) {
	listing := &models.Listing{}
	err := c.db.Collection(listingName).FindOne(ctx, filter).Decode(&listing)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (c *listingDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Listing, error) {
	cursor, err := c.db.Collection(listingName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var listings []models.Listing
	if err := cursor.Decode(&listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *listingDatabase) InsertOne(ctx context.Context, listing models.Listing) (interface{}, error) {
	res, err := c.db.Collection(listingName).InsertOne(ctx, listing)
	if err != nil {
		return nil, err
	}
	return res.Decode(), nil
}

func (c *listingDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return c.db.Collection(listingName).UpdateOne(ctx, filter, update)
}

func (c *listingDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(listingName).CountDocuments(ctx, filter)
}
