package geocode

import (
	"context"
	"errors"
	"os"

	"googlemaps.github.io/maps"

	"github.com/motog-app/motog-app-be/models"
)

// ErrNoResults is returned when the maps API resolves nothing for the input.
var ErrNoResults = errors.New("geocode: no results")

// Geocoder resolves between free-text places and coordinates.
type Geocoder interface {
	// Geocode resolves a city/area string to coordinates.
	Geocode(ctx context.Context, address string) (*models.Location, error)
	// ReverseGeocode names the locality containing the given point.
	ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Location, error)
	// Autocomplete suggests localities for a partial input, biased around
	// the given point when one is supplied.
	Autocomplete(ctx context.Context, input string, lat, lng *float64) ([]models.LocationSuggestion, error)
}

// The locality search chain, most specific first. The first component type
// with a match names the place.
var mainTextTypes = []string{
	"locality", "sublocality",
	"administrative_area_level_7", "administrative_area_level_6",
	"administrative_area_level_5", "administrative_area_level_4",
	"administrative_area_level_3", "administrative_area_level_2",
}

type googleGeocoder struct {
	client *maps.Client
}

// NewGoogle returns a Geocoder over the Google Maps API. The key is read
// from MAPS_API_KEY.
func NewGoogle() (Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(os.Getenv("MAPS_API_KEY")))
	if err != nil {
		return nil, err
	}
	return &googleGeocoder{client: client}, nil
}

func (g *googleGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	loc := extractLocation(results[0].AddressComponents)
	loc.Lat = results[0].Geometry.Location.Lat
	loc.Lng = results[0].Geometry.Location.Lng
	return &loc, nil
}

func (g *googleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Location, error) {
	resultTypes := append([]string{}, mainTextTypes...)
	resultTypes = append(resultTypes, "administrative_area_level_1", "country")
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:     &maps.LatLng{Lat: lat, Lng: lng},
		ResultType: resultTypes,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	loc := extractLocation(results[0].AddressComponents)
	loc.Lat = lat
	loc.Lng = lng
	return &loc, nil
}

func (g *googleGeocoder) Autocomplete(ctx context.Context, input string, lat, lng *float64) ([]models.LocationSuggestion, error) {
	req := &maps.PlaceAutocompleteRequest{Input: input}
	if lat != nil && lng != nil {
		req.Location = &maps.LatLng{Lat: *lat, Lng: *lng}
		req.Radius = 360
	} else {
		// no bias point: restrict suggestions to India
		req.Components = map[maps.Component][]string{maps.ComponentCountry: {"in"}}
	}

	resp, err := g.client.PlaceAutocomplete(ctx, req)
	if err != nil {
		return nil, err
	}
	return filterSuggestions(resp.Predictions), nil
}

func extractLocation(components []maps.AddressComponent) models.Location {
	loc := models.Location{}
	for _, t := range mainTextTypes {
		for _, c := range components {
			if hasType(c.Types, t) {
				loc.MainText = c.LongName
				break
			}
		}
		if loc.MainText != "" {
			break
		}
	}
	for _, c := range components {
		if hasType(c.Types, "administrative_area_level_1") {
			loc.State = c.LongName
		}
		if hasType(c.Types, "country") {
			loc.Country = c.LongName
		}
	}
	return loc
}

// filterSuggestions keeps only locality-grade predictions; street addresses
// and points of interest are noise for a city picker.
func filterSuggestions(predictions []maps.AutocompletePrediction) []models.LocationSuggestion {
	out := []models.LocationSuggestion{}
	for _, p := range predictions {
		if !hasType(p.Types, "locality") && !hasType(p.Types, "sublocality") {
			continue
		}
		out = append(out, models.LocationSuggestion{
			PlaceID:       p.PlaceID,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return out
}

func hasType(types []string, t string) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
