package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/geocode"
	"github.com/motog-app/motog-app-be/models"
)

// Location exported for testing purposes
type Location struct {
	Geo geocode.Geocoder
}

type getLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type autocompleteRequest struct {
	AddrStr string `json:"addrStr"`
	LatLng  string `json:"latLng"`
}

// GetLocationHandler reverse-geocodes device coordinates into a display
// location.
func (l Location) GetLocationHandler(w http.ResponseWriter, r *http.Request) {
	var req getLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		config.ErrorStatus("coordinates out of range", http.StatusBadRequest, w,
			fmt.Errorf("lat=%v lng=%v", req.Lat, req.Lng))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	loc, err := l.Geo.ReverseGeocode(ctx, req.Lat, req.Lng)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResults) {
			config.ErrorStatus("no location found for coordinates", http.StatusBadRequest, w, err)
			return
		}
		config.ErrorStatus("failed to resolve location", http.StatusBadGateway, w, err)
		return
	}

	b, err := json.Marshal(loc)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AutocompleteHandler suggests localities for a partial address. A latLng
// of the form "lat,lng" biases results toward the caller's position.
func (l Location) AutocompleteHandler(w http.ResponseWriter, r *http.Request) {
	var req autocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.AddrStr) == "" {
		config.ErrorStatus("addrStr is required", http.StatusBadRequest, w, fmt.Errorf("empty addrStr"))
		return
	}

	var lat, lng *float64
	if req.LatLng != "" {
		parts := strings.SplitN(req.LatLng, ",", 2)
		if len(parts) != 2 {
			config.ErrorStatus("latLng must be of the form lat,lng", http.StatusBadRequest, w,
				fmt.Errorf("latLng %q", req.LatLng))
			return
		}
		la, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		ln, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			config.ErrorStatus("latLng must be of the form lat,lng", http.StatusBadRequest, w,
				fmt.Errorf("latLng %q", req.LatLng))
			return
		}
		lat, lng = &la, &ln
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	suggestions, err := l.Geo.Autocomplete(ctx, req.AddrStr, lat, lng)
	if err != nil {
		config.ErrorStatus("failed to fetch suggestions", http.StatusBadGateway, w, err)
		return
	}
	if suggestions == nil {
		suggestions = []models.LocationSuggestion{}
	}

	b, err := json.Marshal(map[string][]models.LocationSuggestion{"suggestions": suggestions})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
