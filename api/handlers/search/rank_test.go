package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motog-app/motog-app-be/api/handlers/search"
	"github.com/motog-app/motog-app-be/databases/mocks"
	"github.com/motog-app/motog-app-be/models"
)

const (
	centerLat = 12.9716
	centerLng = 77.5946
)

var engineNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func geoListing(n byte, dLat, dLng float64, regNo string, owner primitive.ObjectID) models.Listing {
	lat := centerLat + dLat
	lng := centerLng + dLng
	return models.Listing{
		ID:          oid(n),
		VehicleType: models.VehicleTypeCar,
		RegNo:       regNo,
		IsActive:    true,
		UserID:      owner,
		Latitude:    &lat,
		Longitude:   &lng,
	}
}

func verification(regNo, manufacturer, model, regDate string) models.VehicleVerification {
	return models.VehicleVerification{
		RegNo:  regNo,
		Status: "success",
		RawData: map[string]interface{}{
			models.RawKeyManufacturer: manufacturer,
			models.RawKeyModel:        model,
			models.RawKeyRegDate:      regDate,
		},
	}
}

func newTestEngine(listings []models.Listing, verifications []models.VehicleVerification, boosts []models.UserBoost, images []models.ListingImage) *search.Engine {
	listingDB := new(mocks.ListingDatabase)
	listingDB.On("Find", mock.Anything, mock.Anything).Return(listings, nil)
	verificationDB := new(mocks.VerificationDatabase)
	verificationDB.On("Find", mock.Anything, mock.Anything).Return(verifications, nil)
	imageDB := new(mocks.ImageDatabase)
	imageDB.On("Find", mock.Anything, mock.Anything).Return(images, nil)
	boostDB := new(mocks.BoostDatabase)
	boostDB.On("Find", mock.Anything, mock.Anything).Return(boosts, nil)

	e := search.NewEngine(listingDB, verificationDB, imageDB, boostDB)
	e.Now = func() time.Time { return engineNow }
	return e
}

func defaultImages() []models.ListingImage {
	return []models.ListingImage{
		{ID: oid(61), ListingID: oid(1), URL: "https://img.example/1.jpg", IsPrimary: true},
		{ID: oid(62), ListingID: oid(2), URL: "https://img.example/2.jpg", IsPrimary: true},
		{ID: oid(63), ListingID: oid(3), URL: "https://img.example/3.jpg", IsPrimary: true},
	}
}

// The standard fixture: three verified, photographed listings in range of a
// 30 km search, plus one inside the bounding box but beyond the exact radius
// and one that was never geocoded.
func fixtureEngine(boosts []models.UserBoost) *search.Engine {
	images := defaultImages()
	listings := []models.Listing{
		geoListing(1, 0.02, 0, "KA01AA0001", oid(100)),  // ~2.2 km
		geoListing(2, 0.05, 0, "KA01AA0002", oid(100)),  // ~5.6 km
		geoListing(3, 0.10, 0, "KA01AA0003", oid(101)),  // ~11.1 km
		geoListing(4, 0.26, 0.27, "KA01AA0004", oid(101)), // box corner, >30 km away
	}
	listings = append(listings, models.Listing{
		ID: oid(5), VehicleType: models.VehicleTypeCar, RegNo: "KA01AA0005",
		IsActive: true, UserID: oid(101),
	})
	verifications := []models.VehicleVerification{
		verification("KA01AA0001", "Honda", "City", "2019-05-01"),
		verification("KA01AA0002", "Honda", "Civic", "2021-03-15"),
		verification("KA01AA0003", "Maruti Suzuki", "Swift", "2020-01-01"),
	}
	return newTestEngine(listings, verifications, boosts, images)
}

func singleBoostOn(n byte, owner primitive.ObjectID) []models.UserBoost {
	id := oid(n)
	return []models.UserBoost{{
		ID:        oid(50),
		UserID:    owner,
		ListingID: &id,
		StartDate: primitive.NewDateTimeFromTime(engineNow.Add(-time.Hour)),
		EndDate:   primitive.NewDateTimeFromTime(engineNow.Add(time.Hour)),
	}}
}

func baseParams() search.Params {
	return search.Params{Lat: centerLat, Lng: centerLng, RadiusKM: 30, Limit: 50}
}

func resultIDs(out []models.ListingResponse) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	return ids
}

func TestEnginePageOrdersBoostedFirst(t *testing.T) {
	e := fixtureEngine(singleBoostOn(3, oid(101)))

	out, err := e.Page(context.Background(), baseParams())

	assert.NoError(t, err)
	// the boosted listing sorts first despite being the farthest, the rest
	// follow by distance
	assert.Equal(t, []primitive.ObjectID{oid(3), oid(1), oid(2)}, resultIDs(out))
	assert.True(t, out[0].IsBoosted)
	assert.False(t, out[1].IsBoosted)
	assert.Less(t, out[1].DistanceKM, out[2].DistanceKM)
}

func TestEnginePageExcludesBeyondRadius(t *testing.T) {
	e := fixtureEngine(nil)

	out, err := e.Page(context.Background(), baseParams())

	assert.NoError(t, err)
	for _, r := range out {
		assert.NotEqual(t, oid(4), r.ID, "bounding-box survivors beyond the radius must not leak through")
		assert.Less(t, r.DistanceKM, 30.0)
	}
}

func TestEnginePageSkipsUngeocodedListings(t *testing.T) {
	e := fixtureEngine(nil)

	out, err := e.Page(context.Background(), baseParams())

	assert.NoError(t, err)
	assert.NotContains(t, resultIDs(out), oid(5))
}

func TestEnginePageKeywordFilter(t *testing.T) {
	e := fixtureEngine(nil)

	p := baseParams()
	p.Query = "honda"
	out, err := e.Page(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{oid(1), oid(2)}, resultIDs(out))

	p.Query = "hon cit"
	out, err = e.Page(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{oid(1)}, resultIDs(out), "every keyword must match; Civic does not contain cit")
}

func TestEnginePageYearFilter(t *testing.T) {
	e := fixtureEngine(nil)

	minYear := 2020
	p := baseParams()
	p.MinYear = &minYear
	out, err := e.Page(context.Background(), p)

	assert.NoError(t, err)
	// the 2019 registration drops out
	assert.Equal(t, []primitive.ObjectID{oid(2), oid(3)}, resultIDs(out))
}

func TestEnginePageOrdersByRegistrationDateThenID(t *testing.T) {
	listings := []models.Listing{
		geoListing(7, 0.02, 0, "KA02BB0007", oid(100)),
		geoListing(9, 0.02, 0, "KA02BB0009", oid(100)),
		geoListing(8, 0.02, 0, "KA02BB0008", oid(100)),
	}
	verifications := []models.VehicleVerification{
		verification("KA02BB0007", "Honda", "City", "2021-01-01"),
		verification("KA02BB0009", "Honda", "City", "2021-01-01"),
		verification("KA02BB0008", "Honda", "City", "2023-06-01"),
	}
	images := []models.ListingImage{
		{ID: oid(67), ListingID: oid(7), URL: "https://img.example/7.jpg", IsPrimary: true},
		{ID: oid(68), ListingID: oid(8), URL: "https://img.example/8.jpg", IsPrimary: true},
		{ID: oid(69), ListingID: oid(9), URL: "https://img.example/9.jpg", IsPrimary: true},
	}
	e := newTestEngine(listings, verifications, nil, images)

	out, err := e.Page(context.Background(), baseParams())

	assert.NoError(t, err)
	// equal distances: newest registration first, then id descending
	assert.Equal(t, []primitive.ObjectID{oid(8), oid(9), oid(7)}, resultIDs(out))
}

func TestEnginePagePagination(t *testing.T) {
	e := fixtureEngine(singleBoostOn(3, oid(101)))

	p := baseParams()
	p.Skip = 1
	p.Limit = 1
	out, err := e.Page(context.Background(), p)

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{oid(1)}, resultIDs(out))
}

func TestEnginePageSkipPastEnd(t *testing.T) {
	e := fixtureEngine(nil)

	p := baseParams()
	p.Skip = 50
	out, err := e.Page(context.Background(), p)

	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestEnginePageAttachesImagesAndRCDetails(t *testing.T) {
	e := fixtureEngine(nil)

	out, err := e.Page(context.Background(), baseParams())

	assert.NoError(t, err)
	byID := map[primitive.ObjectID]models.ListingResponse{}
	for _, r := range out {
		byID[r.ID] = r
	}
	assert.Len(t, byID[oid(1)].Images, 1)
	assert.Equal(t, "https://img.example/1.jpg", byID[oid(1)].Images[0].URL)
	assert.Equal(t, "Honda", byID[oid(1)].RCDetails[models.RawKeyManufacturer])
	assert.Equal(t, "Maruti Suzuki", byID[oid(3)].RCDetails[models.RawKeyManufacturer])
}

func TestEnginePageExcludesImagelessFromDiscovery(t *testing.T) {
	listings := []models.Listing{
		geoListing(1, 0.02, 0, "KA01AA0001", oid(100)),
		geoListing(2, 0.05, 0, "KA01AA0002", oid(100)),
	}
	verifications := []models.VehicleVerification{
		verification("KA01AA0001", "Honda", "City", "2019-05-01"),
		verification("KA01AA0002", "Honda", "Civic", "2021-03-15"),
	}
	images := []models.ListingImage{
		{ID: oid(61), ListingID: oid(1), URL: "https://img.example/1.jpg", IsPrimary: true},
	}
	e := newTestEngine(listings, verifications, nil, images)

	out, err := e.Page(context.Background(), baseParams())
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{oid(1)}, resultIDs(out), "a listing without photos is not publicly discoverable")

	// the owner's own view lifts the rule
	p := baseParams()
	p.AllowImageless = true
	out, err = e.Page(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{oid(1), oid(2)}, resultIDs(out))
}

func TestEnginePageExcludesUnverifiedListings(t *testing.T) {
	listings := []models.Listing{
		geoListing(1, 0.02, 0, "KA01AA0001", oid(100)),
		geoListing(2, 0.05, 0, "KA01AA0002", oid(100)),
	}
	// only the first listing has a verification record
	verifications := []models.VehicleVerification{
		verification("KA01AA0001", "Honda", "City", "2019-05-01"),
	}
	e := newTestEngine(listings, verifications, nil, defaultImages())

	out, err := e.Page(context.Background(), baseParams())

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{oid(1)}, resultIDs(out))
}

func TestEnginePageListingQueryError(t *testing.T) {
	listingDB := new(mocks.ListingDatabase)
	listingDB.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	e := search.NewEngine(listingDB, new(mocks.VerificationDatabase), new(mocks.ImageDatabase), new(mocks.BoostDatabase))

	_, err := e.Page(context.Background(), baseParams())

	assert.EqualError(t, err, "mocked-error")
}
