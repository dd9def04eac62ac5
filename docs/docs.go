// Package docs MotoG Marketplace API.
//
// Documentation of the MotoG used-vehicle marketplace API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://api.motog.app
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//
// swagger:meta
package docs

import (
	"github.com/motog-app/motog-app-be/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/listings discovery discoverListings
// Searches active listings around a point, widening the radius until enough
// results are found.
// responses:
//   200: discoveryResponse

// The listings matching the search, nearest and boosted first.
// swagger:response discoveryResponse
type discoveryResponseWrapper struct {
	// in:body
	Body []models.ListingResponse
}

// swagger:route GET /api/v1/listing/{listing_id} listings listingByID
// Gets a single active listing by ID.
// responses:
//   200: listingByIDResponse

// Shows a single listing by the given {listing_id}. Seller contact details
// are masked for unauthenticated callers.
// swagger:response listingByIDResponse
type listingByIDResponseWrapper struct {
	// in:body
	Body models.ListingResponse
}

// swagger:route GET /api/v1/listing/{listing_id}/stats listings listingStats
// Gets view counts for a listing.
// responses:
//   200: listingStatsResponse

// Total and last-7-day view counts for the given {listing_id}.
// swagger:response listingStatsResponse
type listingStatsResponseWrapper struct {
	// in:body
	Body models.ListingStats
}

// swagger:route GET /api/v1/boosts/packages boosts listBoostPackages
// Lists the boost packages available for purchase.
// responses:
//   200: boostPackagesResponse

// The active boost packages.
// swagger:response boostPackagesResponse
type boostPackagesResponseWrapper struct {
	// in:body
	Body []models.BoostPackage
}
