package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/api/handlers"
	"github.com/motog-app/motog-app-be/databases/mocks"
	"github.com/motog-app/motog-app-be/models"
)

var (
	testUserID    = primitive.NewObjectID()
	testListingID = primitive.NewObjectID()
)

func authed(req *http.Request, userID primitive.ObjectID) *http.Request {
	return req.WithContext(api.ContextWithUserID(req.Context(), userID.Hex()))
}

func validListingBody() string {
	return `{
		"vehicleType": "car",
		"regNo": "ka01ab1234",
		"kilometersDriven": 42000,
		"price": 550000,
		"city": "Bengaluru",
		"latitude": 12.9716,
		"longitude": 77.5946,
		"sellerPhone": "9812345678",
		"description": "single owner"
	}`
}

func TestListing_CreateListingHandler(t *testing.T) {
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	l := handlers.Listing{DB: listingDB}

	req := authed(httptest.NewRequest("POST", "/api/v1/listings", strings.NewReader(validListingBody())), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.CreateListingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var created models.Listing
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "KA01AB1234", created.RegNo)
	assert.Equal(t, testUserID, created.UserID)
	assert.True(t, created.IsActive)
}

func TestListing_CreateListingHandlerDuplicateRegNo(t *testing.T) {
	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, dupErr)

	l := handlers.Listing{DB: listingDB}

	req := authed(httptest.NewRequest("POST", "/api/v1/listings", strings.NewReader(validListingBody())), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.CreateListingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already exists")
}

func TestListing_CreateListingHandlerRejectsBadPrice(t *testing.T) {
	l := handlers.Listing{}

	body := strings.Replace(validListingBody(), "550000", "0", 1)
	req := authed(httptest.NewRequest("POST", "/api/v1/listings", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.CreateListingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListing_CreateListingHandlerRequiresAuth(t *testing.T) {
	l := handlers.Listing{}

	req := httptest.NewRequest("POST", "/api/v1/listings", strings.NewReader(validListingBody()))
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.CreateListingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListing_UpdateListingHandlerNotOwner(t *testing.T) {
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	l := handlers.Listing{DB: listingDB}

	req := authed(httptest.NewRequest("PUT", "/api/v1/listing/"+testListingID.Hex(), strings.NewReader(`{"price": 600000}`)), testUserID)
	req = mux.SetURLVars(req, map[string]string{"listing_id": testListingID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.UpdateListingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "listing not found or not authorized")
}

func TestListing_DeleteListingHandler(t *testing.T) {
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	l := handlers.Listing{DB: listingDB}

	req := authed(httptest.NewRequest("DELETE", "/api/v1/listing/"+testListingID.Hex(), nil), testUserID)
	req = mux.SetURLVars(req, map[string]string{"listing_id": testListingID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.DeleteListingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestListing_MyListingsHandlerPageDoesNotLeakBetweenRequests(t *testing.T) {
	var skips []int64
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		opts := args.Get(2).(*options.FindOptions)
		skips = append(skips, *opts.Skip)
	}).Return([]models.Listing{}, nil)
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{ID: testUserID, Email: "owner@example.com"}, nil)

	l := handlers.Listing{DB: listingDB, UDB: userDB}

	req := authed(httptest.NewRequest("GET", "/api/v1/listings/my-listings?page=3&limit=10", nil), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.MyListingsHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// a request without a page param starts from the first page, whatever
	// the previous request asked for
	req = authed(httptest.NewRequest("GET", "/api/v1/listings/my-listings?limit=10", nil), testUserID)
	rr = httptest.NewRecorder()
	http.HandlerFunc(l.MyListingsHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, []int64{30, 0}, skips)
}

func listingFixture() *models.Listing {
	lat, lng := 12.9716, 77.5946
	return &models.Listing{
		ID:          testListingID,
		VehicleType: models.VehicleTypeCar,
		RegNo:       "KA01AB1234",
		Price:       550000,
		City:        "Bengaluru",
		Latitude:    &lat,
		Longitude:   &lng,
		SellerPhone: "9812345678",
		IsActive:    true,
		UserID:      testUserID,
	}
}

func listingByIDHandlerFixture() handlers.Listing {
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("FindOne", mock.Anything, mock.Anything).Return(listingFixture(), nil)

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{ID: testUserID, Email: "seller@example.com"}, nil)

	verificationDB := &mocks.VerificationDatabase{}
	verificationDB.On("Find", mock.Anything, mock.Anything).Return([]models.VehicleVerification{}, nil)

	imageDB := &mocks.ImageDatabase{}
	imageDB.On("Find", mock.Anything, mock.Anything).Return([]models.ListingImage{}, nil)

	boostDB := &mocks.BoostDatabase{}
	boostDB.On("Find", mock.Anything, mock.Anything).Return([]models.UserBoost{}, nil)

	viewDB := &mocks.ViewDatabase{}
	viewDB.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	return handlers.Listing{DB: listingDB, VDB: verificationDB, IDB: imageDB, BDB: boostDB, UDB: userDB, Views: viewDB}
}

func TestListing_ListingByIDHandlerMasksContactForAnonymous(t *testing.T) {
	l := listingByIDHandlerFixture()

	req := httptest.NewRequest("GET", "/api/v1/listing/"+testListingID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"listing_id": testListingID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.ListingByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.ListingResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "please@log.in", resp.OwnerEmail)
	assert.Equal(t, "9876543210", resp.SellerPhone)
}

func TestListing_ListingByIDHandlerShowsContactWhenAuthenticated(t *testing.T) {
	l := listingByIDHandlerFixture()

	req := authed(httptest.NewRequest("GET", "/api/v1/listing/"+testListingID.Hex(), nil), primitive.NewObjectID())
	req = mux.SetURLVars(req, map[string]string{"listing_id": testListingID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.ListingByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.ListingResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "seller@example.com", resp.OwnerEmail)
	assert.Equal(t, "9812345678", resp.SellerPhone)
}

func TestListing_ListingByIDHandlerNotFound(t *testing.T) {
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, errors.New("mongo: no documents in result"))

	l := handlers.Listing{DB: listingDB}

	req := httptest.NewRequest("GET", "/api/v1/listing/"+testListingID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"listing_id": testListingID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.ListingByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
