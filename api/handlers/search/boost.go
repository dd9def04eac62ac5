package search

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/models"
)

// ResolveBoosts reports which of the given listings are currently boosted,
// using a single set-based query: a listing is boosted if a single-listing
// boost names it directly, or a bundle boost (listing_id null) is active for
// its owner. A boost is active iff now falls inside [start_date, end_date).
func ResolveBoosts(ctx context.Context, db databases.BoostDatabase, now time.Time, listings []models.Listing) (map[primitive.ObjectID]bool, error) {
	boosted := map[primitive.ObjectID]bool{}
	if len(listings) == 0 {
		return boosted, nil
	}

	ids := make([]primitive.ObjectID, 0, len(listings))
	owners := make([]primitive.ObjectID, 0, len(listings))
	seenOwner := map[primitive.ObjectID]bool{}
	for _, l := range listings {
		ids = append(ids, l.ID)
		if !seenOwner[l.UserID] {
			seenOwner[l.UserID] = true
			owners = append(owners, l.UserID)
		}
	}

	nowDT := primitive.NewDateTimeFromTime(now)
	boosts, err := db.Find(ctx, bson.M{
		"start_date": bson.M{"$lte": nowDT},
		"end_date":   bson.M{"$gt": nowDT},
		"$or": []bson.M{
			{"listing_id": bson.M{"$in": ids}},
			{"listing_id": nil, "user_id": bson.M{"$in": owners}},
		},
	})
	if err != nil {
		return nil, err
	}

	bundleOwners := map[primitive.ObjectID]bool{}
	for _, b := range boosts {
		if b.ListingID != nil {
			boosted[*b.ListingID] = true
		} else {
			bundleOwners[b.UserID] = true
		}
	}
	for _, l := range listings {
		if bundleOwners[l.UserID] {
			boosted[l.ID] = true
		}
	}
	return boosted, nil
}

// IsBoosted reports whether a single listing is currently boosted, either
// directly or through a bundle boost on its owner.
func IsBoosted(ctx context.Context, db databases.BoostDatabase, listingID, ownerID primitive.ObjectID, now time.Time) (bool, error) {
	nowDT := primitive.NewDateTimeFromTime(now)
	n, err := db.CountDocuments(ctx, bson.M{
		"start_date": bson.M{"$lte": nowDT},
		"end_date":   bson.M{"$gt": nowDT},
		"$or": []bson.M{
			{"listing_id": listingID},
			{"listing_id": nil, "user_id": ownerID},
		},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
