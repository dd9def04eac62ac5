package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Boost package types. A single_listing package boosts exactly one named
// listing; a bundle package boosts every listing owned by the purchaser for
// the package duration.
const (
	BoostTypeSingleListing = "single_listing"
	BoostTypeBundle        = "bundle"
)

// BoostPackage holds the structure for the boost_packages collection in
// mongo. Price is stored in the smallest currency unit.
type BoostPackage struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	DurationDays int                `json:"durationDays" bson:"duration_days"`
	Price        int64              `json:"price" bson:"price"`
	Type         string             `json:"type" bson:"type"`
	IsActive     bool               `json:"isActive" bson:"is_active"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"created_at"`
}

// UserBoost holds the structure for the user_boosts collection in mongo.
// ListingID is nil for bundle boosts. A boost is active iff the current time
// falls inside [StartDate, EndDate); boosts are never mutated and expire by
// date comparison alone.
type UserBoost struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id"`
	UserID    primitive.ObjectID  `json:"userId" bson:"user_id"`
	PackageID primitive.ObjectID  `json:"packageId" bson:"package_id"`
	ListingID *primitive.ObjectID `json:"listingId" bson:"listing_id"`
	OrderID   string              `json:"orderId" bson:"order_id"`
	StartDate primitive.DateTime  `json:"startDate" bson:"start_date"`
	EndDate   primitive.DateTime  `json:"endDate" bson:"end_date"`
	CreatedAt primitive.DateTime  `json:"createdAt" bson:"created_at"`
}
