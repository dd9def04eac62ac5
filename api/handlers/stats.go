package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/models"
)

// Stats exported for testing purposes
type Stats struct {
	Views databases.ViewDatabase
	LDB   databases.ListingDatabase
}

// ListingStatsHandler returns total and trailing-7-day view counts for a
// listing. Stats stay available after a listing is soft-deleted.
func (s Stats) ListingStatsHandler(w http.ResponseWriter, r *http.Request) {
	listingID, err := primitive.ObjectIDFromHex(mux.Vars(r)["listing_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if n, err := s.LDB.CountDocuments(ctx, bson.M{"_id": listingID}); err != nil {
		config.ErrorStatus("failed to get listing by ID", http.StatusInternalServerError, w, err)
		return
	} else if n == 0 {
		config.ErrorStatus("listing not found", http.StatusNotFound, w, fmt.Errorf("no listing with id %s", listingID.Hex()))
		return
	}

	total, err := s.Views.CountDocuments(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		config.ErrorStatus("failed to count views", http.StatusInternalServerError, w, err)
		return
	}
	weekAgo := primitive.NewDateTimeFromTime(time.Now().AddDate(0, 0, -7))
	last7, err := s.Views.CountDocuments(ctx, bson.M{"listing_id": listingID, "viewed_at": bson.M{"$gte": weekAgo}})
	if err != nil {
		config.ErrorStatus("failed to count views", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.ListingStats{TotalViews: total, ViewsLast7Days: last7})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
