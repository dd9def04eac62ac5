package databases

//go generate: mockery --name ImageDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motog-app/motog-app-be/models"
)

const imageName = "listing_images"

// ImageDatabase contains the methods to use with the listing image database
type ImageDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.ListingImage, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ListingImage, error)
	InsertMany(ctx context.Context, images []models.ListingImage) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type imageDatabase struct {
	db DatabaseHelper
}

// NewImageDatabase initializes a new instance of image database with the provided db connection
func NewImageDatabase(db DatabaseHelper) ImageDatabase {
	return &imageDatabase{
		db: db,
	}
}

func (c *imageDatabase) FindOne(ctx context.Context, filter interface{}) (*models.ListingImage, error) {
	image := &models.ListingImage{}
	err := c.db.Collection(imageName).FindOne(ctx, filter).Decode(&image)
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (c *imageDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ListingImage, error) {
	cursor, err := c.db.Collection(imageName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var images []models.ListingImage
	if err := cursor.Decode(&images); err != nil {
		return nil, err
	}
	return images, nil
}

func (c *imageDatabase) InsertMany(ctx context.Context, images []models.ListingImage) error {
	docs := make([]interface{}, len(images))
	for i, img := range images {
		docs[i] = img
	}
	return c.db.Collection(imageName).InsertMany(ctx, docs)
}

func (c *imageDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return c.db.Collection(imageName).UpdateOne(ctx, filter, update)
}

func (c *imageDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return c.db.Collection(imageName).UpdateMany(ctx, filter, update)
}

func (c *imageDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.db.Collection(imageName).DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *imageDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(imageName).CountDocuments(ctx, filter)
}
