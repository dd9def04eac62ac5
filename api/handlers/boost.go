package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/models"
	"github.com/motog-app/motog-app-be/payments"
)

// Boost exported for testing purposes
type Boost struct {
	PDB      databases.BoostPackageDatabase
	BDB      databases.BoostDatabase
	LDB      databases.ListingDatabase
	Payments payments.Processor
}

type boostOrderRequest struct {
	PackageID string `json:"packageId"`
	ListingID string `json:"listingId"`
}

type boostVerifyRequest struct {
	OrderID   string `json:"orderId"`
	PackageID string `json:"packageId"`
	ListingID string `json:"listingId"`
}

// ListBoostPackagesHandler returns the purchasable boost packages.
func (b Boost) ListBoostPackagesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	packages, err := b.PDB.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		config.ErrorStatus("failed to get boost packages", http.StatusInternalServerError, w, err)
		return
	}
	if packages == nil {
		packages = []models.BoostPackage{}
	}

	res, err := json.Marshal(packages)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res)
}

// resolveBoostTarget validates the package/listing pairing shared by order
// creation and payment verification: a single_listing package needs a listing
// owned by the caller, a bundle package must not name one.
func (b Boost) resolveBoostTarget(ctx context.Context, w http.ResponseWriter, userID primitive.ObjectID, packageID, listingID string) (*models.BoostPackage, *primitive.ObjectID, bool) {
	pkgID, err := primitive.ObjectIDFromHex(packageID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return nil, nil, false
	}
	pkg, err := b.PDB.FindOne(ctx, bson.M{"_id": pkgID, "is_active": true})
	if err != nil {
		config.ErrorStatus("boost package not found", http.StatusNotFound, w, err)
		return nil, nil, false
	}

	switch pkg.Type {
	case models.BoostTypeSingleListing:
		if listingID == "" {
			config.ErrorStatus("listingId is required for a single listing boost", http.StatusBadRequest, w,
				fmt.Errorf("missing listingId for package %s", pkg.ID.Hex()))
			return nil, nil, false
		}
		lid, err := primitive.ObjectIDFromHex(listingID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return nil, nil, false
		}
		if _, err := b.LDB.FindOne(ctx, bson.M{"_id": lid, "user_id": userID, "is_active": true}); err != nil {
			config.ErrorStatus("listing not found or not authorized", http.StatusNotFound, w, err)
			return nil, nil, false
		}
		return pkg, &lid, true
	case models.BoostTypeBundle:
		if listingID != "" {
			config.ErrorStatus("a bundle boost covers all listings and takes no listingId", http.StatusBadRequest, w,
				fmt.Errorf("listingId given for bundle package %s", pkg.ID.Hex()))
			return nil, nil, false
		}
		return pkg, nil, true
	default:
		config.ErrorStatus("unknown boost package type", http.StatusInternalServerError, w,
			fmt.Errorf("package %s has type %q", pkg.ID.Hex(), pkg.Type))
		return nil, nil, false
	}
}

// CreateBoostOrderHandler opens a payment order for a boost package.
func (b Boost) CreateBoostOrderHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	var req boostOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pkg, _, ok := b.resolveBoostTarget(ctx, w, userID, req.PackageID, req.ListingID)
	if !ok {
		return
	}

	order, err := b.Payments.CreateOrder(ctx, pkg.Price, "inr", uuid.New().String())
	if err != nil {
		config.ErrorStatus("failed to create payment order", http.StatusBadGateway, w, err)
		return
	}

	res, err := json.Marshal(order)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(res)
}

// VerifyBoostPaymentHandler confirms a paid order with the payment provider
// and activates the boost. Re-submitting an already consumed order is a
// conflict, not a second boost.
func (b Boost) VerifyBoostPaymentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	var req boostVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.OrderID == "" {
		config.ErrorStatus("orderId is required", http.StatusBadRequest, w, fmt.Errorf("empty orderId"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pkg, listingID, ok := b.resolveBoostTarget(ctx, w, userID, req.PackageID, req.ListingID)
	if !ok {
		return
	}

	taken, err := b.BDB.CountDocuments(ctx, bson.M{"order_id": req.OrderID})
	if err != nil {
		config.ErrorStatus("failed to check order", http.StatusInternalServerError, w, err)
		return
	}
	if taken > 0 {
		config.ErrorStatus("order already used for a boost", http.StatusConflict, w,
			fmt.Errorf("order %s already consumed", req.OrderID))
		return
	}

	payment, err := b.Payments.VerifyPayment(ctx, req.OrderID)
	if err != nil {
		config.ErrorStatus("failed to verify payment", http.StatusBadGateway, w, err)
		return
	}
	if !payment.Paid {
		config.ErrorStatus("payment not completed", http.StatusBadRequest, w,
			fmt.Errorf("order %s is not paid", req.OrderID))
		return
	}
	// the charged amount, not the request body, decides which package the
	// order can buy
	if payment.Amount != pkg.Price {
		config.ErrorStatus("payment amount does not match the package price", http.StatusBadRequest, w,
			fmt.Errorf("order %s paid %d, package %s costs %d", req.OrderID, payment.Amount, pkg.ID.Hex(), pkg.Price))
		return
	}

	now := time.Now()
	boost := models.UserBoost{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PackageID: pkg.ID,
		ListingID: listingID,
		OrderID:   req.OrderID,
		StartDate: primitive.NewDateTimeFromTime(now),
		EndDate:   primitive.NewDateTimeFromTime(now.AddDate(0, 0, pkg.DurationDays)),
		CreatedAt: primitive.NewDateTimeFromTime(now),
	}
	if _, err := b.BDB.InsertOne(ctx, boost); err != nil {
		config.ErrorStatus("failed to save boost", http.StatusInternalServerError, w, err)
		return
	}

	res, err := json.Marshal(boost)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(res)
}
