package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/models"
	"github.com/motog-app/motog-app-be/registry"
)

// verifyLimitPerMonth caps paid registry lookups per user per calendar
// month. The counter key expires at month end so the quota resets itself.
const verifyLimitPerMonth = 5

// Verification exported for testing purposes
type Verification struct {
	VDB      databases.VerificationDatabase
	LDB      databases.ListingDatabase
	Registry registry.Verifier
	Quota    QuotaCounter
}

type verifyRequest struct {
	RegNo string `json:"regNo"`
}

// VehicleVerifyHandler resolves a registration number against the vehicle
// registry. Verifications are cached forever by reg_no; only a cache miss
// spends registry quota.
func (v Verification) VehicleVerifyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	regNo := strings.ToUpper(strings.TrimSpace(req.RegNo))
	if len(regNo) < 7 || len(regNo) > 10 {
		config.ErrorStatus("registration number must be 7-10 characters", http.StatusBadRequest, w,
			fmt.Errorf("reg_no %q", regNo))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	active, err := v.LDB.CountDocuments(ctx, bson.M{"reg_no": regNo, "is_active": true})
	if err != nil {
		config.ErrorStatus("failed to check existing listings", http.StatusInternalServerError, w, err)
		return
	}
	if active > 0 {
		config.ErrorStatus("an active listing with this registration number already exists", http.StatusBadRequest, w,
			fmt.Errorf("reg_no %s already listed", regNo))
		return
	}

	if cached, err := v.VDB.FindOne(ctx, bson.M{"_id": regNo}); err == nil && cached != nil {
		writeVerification(w, *cached)
		return
	}

	allowed, err := v.Quota.Consume(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to check verification quota", http.StatusInternalServerError, w, err)
		return
	}
	if !allowed {
		config.ErrorStatus(fmt.Sprintf("verification limit of %d per month reached", verifyLimitPerMonth),
			http.StatusTooManyRequests, w, fmt.Errorf("user %s over quota", userID.Hex()))
		return
	}

	result, err := v.Registry.Verify(ctx, regNo)
	if err != nil {
		var apiErr *registry.APIError
		if errors.As(err, &apiErr) {
			config.ErrorStatus("vehicle registry rejected the lookup", apiErr.StatusCode, w, err)
			return
		}
		config.ErrorStatus("failed to reach vehicle registry", http.StatusBadGateway, w, err)
		return
	}

	verification := models.VehicleVerification{
		RegNo:     regNo,
		Status:    result.Status,
		RawData:   result.Data,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := v.VDB.InsertOne(ctx, verification); err != nil {
		// losing the cache write costs quota on the next lookup, nothing else
		zap.S().Warnw("failed to cache verification", "reg_no", regNo, "error", err)
	}

	writeVerification(w, verification)
}

func writeVerification(w http.ResponseWriter, verification models.VehicleVerification) {
	b, err := json.Marshal(verification)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
