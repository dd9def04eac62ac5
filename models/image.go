package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// MaxImagesPerListing caps how many images a single listing may carry.
const MaxImagesPerListing = 5

// ListingImage holds the structure for the listing_images collection in
// mongo. PublicID is the image store's handle, kept so the binary can be
// destroyed when the image record is removed or replaced.
type ListingImage struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	ListingID primitive.ObjectID `json:"listingId" bson:"listing_id"`
	URL       string             `json:"url" bson:"url"`
	PublicID  string             `json:"-" bson:"public_id"`
	IsPrimary bool               `json:"isPrimary" bson:"is_primary"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"created_at"`
}
