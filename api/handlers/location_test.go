package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/motog-app/motog-app-be/api/handlers"
	"github.com/motog-app/motog-app-be/geocode"
	"github.com/motog-app/motog-app-be/models"
)

type fakeGeocoder struct {
	location    *models.Location
	suggestions []models.LocationSuggestion
	err         error

	autocompleteLat *float64
	autocompleteLng *float64
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (*models.Location, error) {
	return f.location, f.err
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*models.Location, error) {
	return f.location, f.err
}

func (f *fakeGeocoder) Autocomplete(_ context.Context, _ string, lat, lng *float64) ([]models.LocationSuggestion, error) {
	f.autocompleteLat, f.autocompleteLng = lat, lng
	return f.suggestions, f.err
}

func TestLocation_GetLocationHandler(t *testing.T) {
	geo := &fakeGeocoder{location: &models.Location{MainText: "Indiranagar", State: "Karnataka", Country: "India", Lat: 12.97, Lng: 77.64}}
	l := handlers.Location{Geo: geo}

	body := `{"lat": 12.97, "lng": 77.64}`
	req := authed(httptest.NewRequest("POST", "/api/v1/location/get-location", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.GetLocationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var loc models.Location
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loc))
	assert.Equal(t, "Indiranagar", loc.MainText)
}

func TestLocation_GetLocationHandlerNoResults(t *testing.T) {
	l := handlers.Location{Geo: &fakeGeocoder{err: geocode.ErrNoResults}}

	body := `{"lat": 0.0, "lng": 0.0}`
	req := authed(httptest.NewRequest("POST", "/api/v1/location/get-location", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.GetLocationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLocation_GetLocationHandlerOutOfRange(t *testing.T) {
	l := handlers.Location{Geo: &fakeGeocoder{}}

	body := `{"lat": 95.0, "lng": 77.64}`
	req := authed(httptest.NewRequest("POST", "/api/v1/location/get-location", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.GetLocationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLocation_AutocompleteHandler(t *testing.T) {
	geo := &fakeGeocoder{suggestions: []models.LocationSuggestion{
		{PlaceID: "p1", MainText: "Koramangala", SecondaryText: "Bengaluru, Karnataka, India"},
	}}
	l := handlers.Location{Geo: geo}

	body := `{"addrStr": "koram", "latLng": "12.93, 77.62"}`
	req := authed(httptest.NewRequest("POST", "/api/v1/location/autocomplete", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.AutocompleteHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, geo.autocompleteLat)
	assert.Equal(t, 12.93, *geo.autocompleteLat)

	var resp map[string][]models.LocationSuggestion
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp["suggestions"], 1)
	assert.Equal(t, "Koramangala", resp["suggestions"][0].MainText)
}

func TestLocation_AutocompleteHandlerInvalidLatLng(t *testing.T) {
	l := handlers.Location{Geo: &fakeGeocoder{}}

	body := `{"addrStr": "koram", "latLng": "not-coordinates"}`
	req := authed(httptest.NewRequest("POST", "/api/v1/location/autocomplete", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.AutocompleteHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLocation_AutocompleteHandlerRequiresInput(t *testing.T) {
	l := handlers.Location{Geo: &fakeGeocoder{}}

	body := `{"addrStr": "  "}`
	req := authed(httptest.NewRequest("POST", "/api/v1/location/autocomplete", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(l.AutocompleteHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
