package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ListingView is an append-only record of a listing view event, used for
// statistics aggregation only.
type ListingView struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id"`
	ListingID primitive.ObjectID  `json:"listingId" bson:"listing_id"`
	ViewerID  *primitive.ObjectID `json:"viewerId" bson:"viewer_id"`
	ViewedAt  primitive.DateTime  `json:"viewedAt" bson:"viewed_at"`
}

// ListingStats is the response shape for the listing statistics endpoint.
type ListingStats struct {
	TotalViews     int64 `json:"totalViews"`
	ViewsLast7Days int64 `json:"viewsLast7Days"`
}
