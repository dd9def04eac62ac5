package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/motog-app/motog-app-be/api/handlers"
	"github.com/motog-app/motog-app-be/databases/mocks"
	"github.com/motog-app/motog-app-be/models"
)

func TestStats_ListingStatsHandler(t *testing.T) {
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	viewDB := &mocks.ViewDatabase{}
	viewDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(42), nil).Once()
	viewDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(7), nil).Once()

	s := handlers.Stats{Views: viewDB, LDB: listingDB}

	req := httptest.NewRequest("GET", "/api/v1/listing/"+testListingID.Hex()+"/stats", nil)
	req = mux.SetURLVars(req, map[string]string{"listing_id": testListingID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.ListingStatsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var stats models.ListingStats
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, int64(42), stats.TotalViews)
	assert.Equal(t, int64(7), stats.ViewsLast7Days)
}

func TestStats_ListingStatsHandlerUnknownListing(t *testing.T) {
	listingDB := &mocks.ListingDatabase{}
	listingDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	s := handlers.Stats{LDB: listingDB}

	req := httptest.NewRequest("GET", "/api/v1/listing/"+testListingID.Hex()+"/stats", nil)
	req = mux.SetURLVars(req, map[string]string{"listing_id": testListingID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.ListingStatsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
