package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/api/handlers/search"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/geocode"
	"github.com/motog-app/motog-app-be/models"
)

// Contact details shown on a listing when the viewer is not signed in.
const (
	maskedOwnerEmail  = "please@log.in"
	maskedSellerPhone = "9876543210"
)

// Listing exported for testing purposes
type Listing struct {
	DB    databases.ListingDatabase
	VDB   databases.VerificationDatabase
	IDB   databases.ImageDatabase
	BDB   databases.BoostDatabase
	UDB   databases.UserDatabase
	Views databases.ViewDatabase
	Geo   geocode.Geocoder
}

type createListingRequest struct {
	VehicleType      string   `json:"vehicleType"`
	RegNo            string   `json:"regNo"`
	KilometersDriven int      `json:"kilometersDriven"`
	Price            int      `json:"price"`
	City             string   `json:"city"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	SellerPhone      string   `json:"sellerPhone"`
	Description      string   `json:"description"`
}

type updateListingRequest struct {
	KilometersDriven *int     `json:"kilometersDriven"`
	Price            *int     `json:"price"`
	City             *string  `json:"city"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	SellerPhone      *string  `json:"sellerPhone"`
	Description      *string  `json:"description"`
}

func (req *createListingRequest) validate() error {
	if !models.ValidVehicleType(req.VehicleType) {
		return fmt.Errorf("vehicle type must be one of: %s, %s", models.VehicleTypeCar, models.VehicleTypeBike)
	}
	req.RegNo = strings.ToUpper(strings.TrimSpace(req.RegNo))
	if len(req.RegNo) < 7 || len(req.RegNo) > 10 {
		return fmt.Errorf("registration number must be 7-10 characters")
	}
	if req.KilometersDriven < 0 {
		return fmt.Errorf("kilometers driven cannot be negative")
	}
	if req.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if len(strings.TrimSpace(req.City)) < 2 {
		return fmt.Errorf("city is required")
	}
	if len(req.SellerPhone) < 10 || len(req.SellerPhone) > 15 {
		return fmt.Errorf("seller phone must be 10-15 digits")
	}
	return nil
}

// CreateListingHandler creates a vehicle listing for the authenticated user
func (l Listing) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := req.validate(); err != nil {
		config.ErrorStatus("invalid listing", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lat, lng := req.Latitude, req.Longitude
	if (lat == nil || lng == nil) && l.Geo != nil {
		// resolve the seller-entered city; a failure degrades to null
		// coordinates, backfilled later by the scheduler
		loc, err := l.Geo.Geocode(ctx, req.City)
		if err != nil {
			zap.S().Warnw("geocoding failed, creating listing without coordinates", "city", req.City, "error", err)
		} else {
			lat, lng = &loc.Lat, &loc.Lng
		}
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	listing := models.Listing{
		ID:               primitive.NewObjectID(),
		VehicleType:      req.VehicleType,
		RegNo:            req.RegNo,
		KilometersDriven: req.KilometersDriven,
		Price:            req.Price,
		UsrInpCity:       req.City,
		City:             req.City,
		Latitude:         lat,
		Longitude:        lng,
		SellerPhone:      req.SellerPhone,
		Description:      req.Description,
		IsActive:         true,
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// the partial unique index on reg_no makes this race-free under
	// concurrent submissions of the same registration number
	if _, err := l.DB.InsertOne(ctx, listing); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("an active listing with this registration number already exists", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to create listing", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(listing)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateListingHandler applies a partial update to a listing owned by the
// authenticated user. A missing listing and someone else's listing are
// indistinguishable in the response.
func (l Listing) UpdateListingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	listingID, err := primitive.ObjectIDFromHex(mux.Vars(r)["listing_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req updateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"updated_at": primitive.NewDateTimeFromTime(time.Now())}
	if req.KilometersDriven != nil {
		if *req.KilometersDriven < 0 {
			config.ErrorStatus("invalid listing", http.StatusBadRequest, w, fmt.Errorf("kilometers driven cannot be negative"))
			return
		}
		set["kilometers_driven"] = *req.KilometersDriven
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			config.ErrorStatus("invalid listing", http.StatusBadRequest, w, fmt.Errorf("price must be positive"))
			return
		}
		set["price"] = *req.Price
	}
	if req.City != nil {
		set["city"] = *req.City
		set["usr_inp_city"] = *req.City
	}
	if req.Latitude != nil {
		set["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		set["longitude"] = *req.Longitude
	}
	if req.SellerPhone != nil {
		set["seller_phone"] = *req.SellerPhone
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := l.DB.UpdateOne(ctx,
		bson.M{"_id": listingID, "user_id": userID, "is_active": true},
		bson.M{"$set": set},
	)
	if err != nil {
		config.ErrorStatus("failed to update listing", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("listing not found or not authorized", http.StatusNotFound, w, fmt.Errorf("no matching listing for caller"))
		return
	}

	updated, err := l.DB.FindOne(ctx, bson.M{"_id": listingID})
	if err != nil {
		config.ErrorStatus("failed to get listing by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteListingHandler soft-deletes a listing owned by the authenticated
// user; images, boosts, and views stay referentially linked.
func (l Listing) DeleteListingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	listingID, err := primitive.ObjectIDFromHex(mux.Vars(r)["listing_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := l.DB.UpdateOne(ctx,
		bson.M{"_id": listingID, "user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": primitive.NewDateTimeFromTime(time.Now())}},
	)
	if err != nil {
		config.ErrorStatus("failed to delete listing", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("listing not found or not authorized", http.StatusNotFound, w, fmt.Errorf("no matching listing for caller"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyListingsHandler returns the authenticated user's active listings with
// boost status. The photos-required discovery rule does not apply here.
func (l Listing) MyListingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v", "10"))
		Limit = 10
	}
	limit64 := int64(Limit)
	Page := getPage(0, r)
	skip64 := int64(Page * Limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	listings, err := l.DB.Find(ctx,
		bson.M{"user_id": userID, "is_active": true},
		&options.FindOptions{Limit: &limit64, Skip: &skip64, Sort: bson.D{{Key: "created_at", Value: -1}}},
	)
	if err != nil {
		config.ErrorStatus("failed to get listings", http.StatusNotFound, w, err)
		return
	}

	owner, err := l.UDB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	out, err := l.enrich(ctx, listings, owner.Email)
	if err != nil {
		config.ErrorStatus("failed to enrich listings", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(out)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ListingByIDHandler returns one active listing. A view event is recorded,
// and seller contact details are masked for anonymous callers.
func (l Listing) ListingByIDHandler(w http.ResponseWriter, r *http.Request) {
	listingID, err := primitive.ObjectIDFromHex(mux.Vars(r)["listing_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	listing, err := l.DB.FindOne(ctx, bson.M{"_id": listingID, "is_active": true})
	if err != nil {
		config.ErrorStatus("listing not found", http.StatusNotFound, w, err)
		return
	}

	owner, err := l.UDB.FindOne(ctx, bson.M{"_id": listing.UserID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
		return
	}

	out, err := l.enrich(ctx, []models.Listing{*listing}, owner.Email)
	if err != nil {
		config.ErrorStatus("failed to enrich listing", http.StatusInternalServerError, w, err)
		return
	}
	resp := out[0]

	viewerID, authenticated := api.UserIDFromContext(r.Context())
	l.recordView(listingID, viewerID, authenticated)

	if !authenticated {
		resp.OwnerEmail = maskedOwnerEmail
		resp.SellerPhone = maskedSellerPhone
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// recordView appends a view event. Failures are logged, never surfaced; a
// stats miss must not break the listing page.
func (l Listing) recordView(listingID, viewerID primitive.ObjectID, authenticated bool) {
	view := models.ListingView{
		ID:        primitive.NewObjectID(),
		ListingID: listingID,
		ViewedAt:  primitive.NewDateTimeFromTime(time.Now()),
	}
	if authenticated {
		view.ViewerID = &viewerID
	}
	ctx, cancel := context.WithTimeout(context.Background(), api.QueryTimeout)
	defer cancel()
	if _, err := l.Views.InsertOne(ctx, view); err != nil {
		zap.S().Warnw("failed to record listing view", "listing_id", listingID.Hex(), "error", err)
	}
}

// enrich attaches verification documents, images, and boost flags to a batch
// of listings, each via a single query.
func (l Listing) enrich(ctx context.Context, listings []models.Listing, ownerEmail string) ([]models.ListingResponse, error) {
	out := make([]models.ListingResponse, 0, len(listings))
	if len(listings) == 0 {
		return out, nil
	}

	regNos := make([]string, 0, len(listings))
	ids := make([]primitive.ObjectID, 0, len(listings))
	for _, listing := range listings {
		regNos = append(regNos, listing.RegNo)
		ids = append(ids, listing.ID)
	}

	verifications, err := l.VDB.Find(ctx, bson.M{"_id": bson.M{"$in": regNos}})
	if err != nil {
		return nil, err
	}
	rcByRegNo := make(map[string]map[string]interface{}, len(verifications))
	for _, v := range verifications {
		rcByRegNo[v.RegNo] = v.RawData
	}

	images, err := l.IDB.Find(ctx, bson.M{"listing_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	imagesByListing := map[primitive.ObjectID][]models.ListingImage{}
	for _, img := range images {
		imagesByListing[img.ListingID] = append(imagesByListing[img.ListingID], img)
	}

	boosted, err := search.ResolveBoosts(ctx, l.BDB, time.Now(), listings)
	if err != nil {
		return nil, err
	}

	for _, listing := range listings {
		imgs := imagesByListing[listing.ID]
		if imgs == nil {
			imgs = []models.ListingImage{}
		}
		out = append(out, models.ListingResponse{
			Listing:    listing,
			OwnerEmail: ownerEmail,
			RCDetails:  rcByRegNo[listing.RegNo],
			Images:     imgs,
			IsBoosted:  boosted[listing.ID],
		})
	}
	return out, nil
}

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}
