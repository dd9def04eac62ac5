package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"
)

func TestExtractLocationPrefersMostSpecificLocality(t *testing.T) {
	components := []maps.AddressComponent{
		{LongName: "Karnataka", Types: []string{"administrative_area_level_1", "political"}},
		{LongName: "Bengaluru Urban", Types: []string{"administrative_area_level_2", "political"}},
		{LongName: "Indiranagar", Types: []string{"sublocality", "political"}},
		{LongName: "Bengaluru", Types: []string{"locality", "political"}},
		{LongName: "India", Types: []string{"country", "political"}},
	}

	loc := extractLocation(components)

	assert.Equal(t, "Bengaluru", loc.MainText, "locality outranks sublocality in the search chain")
	assert.Equal(t, "Karnataka", loc.State)
	assert.Equal(t, "India", loc.Country)
}

func TestExtractLocationFallsBackDownTheChain(t *testing.T) {
	components := []maps.AddressComponent{
		{LongName: "Karnataka", Types: []string{"administrative_area_level_1"}},
		{LongName: "Bengaluru Urban", Types: []string{"administrative_area_level_2"}},
		{LongName: "India", Types: []string{"country"}},
	}

	loc := extractLocation(components)

	assert.Equal(t, "Bengaluru Urban", loc.MainText)
}

func TestExtractLocationEmptyComponents(t *testing.T) {
	loc := extractLocation(nil)

	assert.Empty(t, loc.MainText)
	assert.Empty(t, loc.State)
	assert.Empty(t, loc.Country)
}

func TestFilterSuggestionsKeepsLocalitiesOnly(t *testing.T) {
	predictions := []maps.AutocompletePrediction{
		{
			PlaceID: "p1",
			Types:   []string{"locality", "political"},
			StructuredFormatting: maps.AutocompleteStructuredFormatting{
				MainText:      "Bengaluru",
				SecondaryText: "Karnataka, India",
			},
		},
		{
			PlaceID: "p2",
			Types:   []string{"route"},
			StructuredFormatting: maps.AutocompleteStructuredFormatting{
				MainText: "Bengaluru Road",
			},
		},
		{
			PlaceID: "p3",
			Types:   []string{"sublocality", "political"},
			StructuredFormatting: maps.AutocompleteStructuredFormatting{
				MainText:      "Indiranagar",
				SecondaryText: "Bengaluru, Karnataka, India",
			},
		},
	}

	out := filterSuggestions(predictions)

	assert.Len(t, out, 2)
	assert.Equal(t, "p1", out[0].PlaceID)
	assert.Equal(t, "Indiranagar", out[1].MainText)
}

func TestFilterSuggestionsEmptyInput(t *testing.T) {
	out := filterSuggestions(nil)

	assert.NotNil(t, out)
	assert.Empty(t, out)
}
