package databases

//go generate: mockery --name ViewDatabase

import (
	"context"

	"github.com/motog-app/motog-app-be/models"
)

const viewName = "listing_views"

// ViewDatabase contains the methods to use with the listing view database.
// Views are append-only; there is no update or delete path.
type ViewDatabase interface {
	InsertOne(ctx context.Context, view models.ListingView) (interface{}, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type viewDatabase struct {
	db DatabaseHelper
}

// NewViewDatabase initializes a new instance of view database with the provided db connection
func NewViewDatabase(db DatabaseHelper) ViewDatabase {
	return &viewDatabase{
		db: db,
	}
}

func (c *viewDatabase) InsertOne(ctx context.Context, view models.ListingView) (interface{}, error) {
	res, err := c.db.Collection(viewName).InsertOne(ctx, view)
	if err != nil {
		return nil, err
	}
	return res.Decode(), nil
}

func (c *viewDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(viewName).CountDocuments(ctx, filter)
}
