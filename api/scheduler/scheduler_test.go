package scheduler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motog-app/motog-app-be/api/scheduler"
	"github.com/motog-app/motog-app-be/databases/mocks"
	"github.com/motog-app/motog-app-be/geocode"
	"github.com/motog-app/motog-app-be/models"
)

type stubGeocoder struct {
	byCity map[string]*models.Location
}

func (s *stubGeocoder) Geocode(_ context.Context, address string) (*models.Location, error) {
	if loc, ok := s.byCity[address]; ok {
		return loc, nil
	}
	return nil, geocode.ErrNoResults
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*models.Location, error) {
	return nil, geocode.ErrNoResults
}

func (s *stubGeocoder) Autocomplete(_ context.Context, _ string, _, _ *float64) ([]models.LocationSuggestion, error) {
	return nil, nil
}

func TestBackfillCoordinatesResolvesPendingListings(t *testing.T) {
	pending := []models.Listing{
		{ID: primitive.NewObjectID(), UsrInpCity: "Bengaluru", IsActive: true},
		{ID: primitive.NewObjectID(), UsrInpCity: "Atlantis", IsActive: true},
	}

	listingDB := &mocks.ListingDatabase{}
	listingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(pending, nil)
	listingDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	lockDB := &mocks.LockDatabase{}
	lockDB.On("TryAcquireLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	lockDB.On("ReleaseLock", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	geo := &stubGeocoder{byCity: map[string]*models.Location{
		"Bengaluru": {MainText: "Bengaluru", Lat: 12.9716, Lng: 77.5946},
	}}

	s := scheduler.NewScheduler(listingDB, lockDB, geo)
	s.BackfillCoordinates()

	// one resolved city gets written; the unresolvable one is left for a
	// later run
	listingDB.AssertNumberOfCalls(t, "UpdateOne", 1)
	lockDB.AssertCalled(t, "ReleaseLock", mock.Anything, "geocode_backfill_job", mock.Anything)
}

func TestBackfillCoordinatesSkipsWhenLockHeld(t *testing.T) {
	listingDB := &mocks.ListingDatabase{}

	lockDB := &mocks.LockDatabase{}
	lockDB.On("TryAcquireLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	s := scheduler.NewScheduler(listingDB, lockDB, &stubGeocoder{})
	s.BackfillCoordinates()

	listingDB.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}
