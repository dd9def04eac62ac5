package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/api/handlers/search"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/models"
)

// Searcher runs one adaptive expanding-radius search.
type Searcher interface {
	Search(ctx context.Context, p search.Params) ([]models.ListingResponse, error)
}

// Discovery exported for testing purposes
type Discovery struct {
	Search   Searcher
	Homepage Searcher
}

// DiscoveryHandler is the main listing search: geo-filtered, keyword-filtered,
// boosted-first, expanding the radius until enough results are found.
func (d Discovery) DiscoveryHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := discoveryParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	results, err := d.Search.Search(ctx, p)
	if err != nil {
		config.ErrorStatus("failed to search listings", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(results)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// HomepageHandler is the lighter search variant backing the app's landing
// screen: no filters, a single wide radius, a lower result floor.
func (d Discovery) HomepageHandler(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := coordinates(w, r)
	if !ok {
		return
	}
	skip, limit := pagination(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	results, err := d.Homepage.Search(ctx, search.Params{Lat: lat, Lng: lng, Skip: skip, Limit: limit})
	if err != nil {
		config.ErrorStatus("failed to search listings", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(results)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func coordinates(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		config.ErrorStatus("lat is required and must be a number", http.StatusBadRequest, w, err)
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		config.ErrorStatus("lng is required and must be a number", http.StatusBadRequest, w, err)
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		config.ErrorStatus("coordinates out of range", http.StatusBadRequest, w, fmt.Errorf("lat=%v lng=%v", lat, lng))
		return 0, 0, false
	}
	return lat, lng, true
}

func pagination(r *http.Request) (skip, limit int64) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v", "10"))
		Limit = 10
	}
	page := getPage(0, r)
	return int64(page * Limit), int64(Limit)
}

func intQuery(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("ignoring non-numeric %s: %v", name, raw))
		return nil
	}
	return &n
}

func discoveryParams(w http.ResponseWriter, r *http.Request) (search.Params, bool) {
	lat, lng, ok := coordinates(w, r)
	if !ok {
		return search.Params{}, false
	}

	vehicleType := r.URL.Query().Get("vehicle_type")
	if vehicleType != "" && !models.ValidVehicleType(vehicleType) {
		config.ErrorStatus("invalid vehicle type", http.StatusBadRequest, w, fmt.Errorf("vehicle_type=%v", vehicleType))
		return search.Params{}, false
	}

	skip, limit := pagination(r)
	return search.Params{
		Lat:         lat,
		Lng:         lng,
		Query:       r.URL.Query().Get("search_q"),
		VehicleType: vehicleType,
		MinPrice:    intQuery(r, "min_price"),
		MaxPrice:    intQuery(r, "max_price"),
		MinYear:     intQuery(r, "min_year"),
		MaxYear:     intQuery(r, "max_year"),
		MinKM:       intQuery(r, "min_km"),
		MaxKM:       intQuery(r, "max_km"),
		Skip:        skip,
		Limit:       limit,
	}, true
}
