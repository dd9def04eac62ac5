package models

// Location is a resolved place: coordinates plus the administrative
// components the frontend displays.
type Location struct {
	MainText string  `json:"mainText"`
	State    string  `json:"state"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// LocationSuggestion is one autocomplete prediction.
type LocationSuggestion struct {
	PlaceID       string `json:"placeId"`
	MainText      string `json:"mainText"`
	SecondaryText string `json:"secondaryText"`
}
