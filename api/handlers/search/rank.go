package search

import (
	"bytes"
	"context"
	"sort"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/models"
)

// Params carries one discovery query: a center point plus radius, optional
// free-text and categorical/numeric filters, and pagination. RadiusKM is set
// by the Controller on each attempt; the remaining fields come from the
// request unchanged.
type Params struct {
	Lat      float64
	Lng      float64
	RadiusKM float64

	Query       string
	VehicleType string
	MinPrice    *int
	MaxPrice    *int
	MinYear     *int
	MaxYear     *int
	MinKM       *int
	MaxKM       *int
	OwnerID     *primitive.ObjectID

	// AllowImageless lifts the photos-required rule for the owner's own
	// listings view. Public discovery never sets it.
	AllowImageless bool

	Skip  int64
	Limit int64
}

// Engine runs one bounded geo+keyword+filter query and returns an ordered,
// paginated slice of enriched listings. Ordering is boosted-first, then
// distance ascending, then registration date descending, then id descending
// as the stable tie-break.
type Engine struct {
	Listings      databases.ListingDatabase
	Verifications databases.VerificationDatabase
	Images        databases.ImageDatabase
	Boosts        databases.BoostDatabase

	Now func() time.Time
}

// NewEngine initializes an Engine over the given entity databases.
func NewEngine(listings databases.ListingDatabase, verifications databases.VerificationDatabase, images databases.ImageDatabase, boosts databases.BoostDatabase) *Engine {
	return &Engine{
		Listings:      listings,
		Verifications: verifications,
		Images:        images,
		Boosts:        boosts,
		Now:           time.Now,
	}
}

type row struct {
	listing  models.Listing
	distance float64
	boosted  bool
	regDate  string
	raw      map[string]interface{}
}

// Page executes the query described by p. Candidates come back from mongo
// pre-pruned by the bounding box and the pushdown filters; the exact
// distance, keyword, and year filters run here, then the verification and
// image joins (both batch $in queries), boost resolution, the ordering
// chain, and finally pagination.
func (e *Engine) Page(ctx context.Context, p Params) ([]models.ListingResponse, error) {
	box := NewBoundingBox(p.Lat, p.Lng, p.RadiusKM)

	filter := bson.M{
		"is_active": true,
		"latitude":  bson.M{"$gte": box.MinLat, "$lte": box.MaxLat},
		"longitude": bson.M{"$gte": box.MinLng, "$lte": box.MaxLng},
	}
	if p.VehicleType != "" {
		filter["vehicle_type"] = p.VehicleType
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		price := bson.M{}
		if p.MinPrice != nil {
			price["$gte"] = *p.MinPrice
		}
		if p.MaxPrice != nil {
			price["$lte"] = *p.MaxPrice
		}
		filter["price"] = price
	}
	if p.MinKM != nil || p.MaxKM != nil {
		km := bson.M{}
		if p.MinKM != nil {
			km["$gte"] = *p.MinKM
		}
		if p.MaxKM != nil {
			km["$lte"] = *p.MaxKM
		}
		filter["kilometers_driven"] = km
	}
	if p.OwnerID != nil {
		filter["user_id"] = *p.OwnerID
	}

	candidates, err := e.Listings.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]row, 0, len(candidates))
	seen := map[primitive.ObjectID]bool{}
	for _, l := range candidates {
		if l.Latitude == nil || l.Longitude == nil {
			continue
		}
		if seen[l.ID] {
			continue
		}
		d := Haversine(p.Lat, p.Lng, *l.Latitude, *l.Longitude)
		if d >= p.RadiusKM {
			continue
		}
		seen[l.ID] = true
		rows = append(rows, row{listing: l, distance: d})
	}

	rows, err = e.joinVerifications(ctx, rows)
	if err != nil {
		return nil, err
	}

	keywords := Keywords(p.Query)
	filtered := rows[:0]
	for _, r := range rows {
		// a listing with no verification record is never discoverable
		if r.raw == nil {
			continue
		}
		if len(keywords) > 0 && !MatchesKeywords(keywords, manufacturerOf(r.raw), modelOf(r.raw)) {
			continue
		}
		if p.MinYear != nil || p.MaxYear != nil {
			year, ok := yearOf(r.regDate)
			if !ok {
				continue
			}
			if p.MinYear != nil && year < *p.MinYear {
				continue
			}
			if p.MaxYear != nil && year > *p.MaxYear {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	rows = filtered

	imagesByListing, err := e.joinImages(ctx, rows)
	if err != nil {
		return nil, err
	}
	if !p.AllowImageless {
		// photos are mandatory for public discoverability
		withImages := rows[:0]
		for _, r := range rows {
			if len(imagesByListing[r.listing.ID]) > 0 {
				withImages = append(withImages, r)
			}
		}
		rows = withImages
	}

	listings := make([]models.Listing, len(rows))
	for i, r := range rows {
		listings[i] = r.listing
	}
	boostedSet, err := ResolveBoosts(ctx, e.Boosts, e.Now(), listings)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].boosted = boostedSet[rows[i].listing.ID]
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.boosted != b.boosted {
			return a.boosted
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.regDate != b.regDate {
			return a.regDate > b.regDate
		}
		return bytes.Compare(a.listing.ID[:], b.listing.ID[:]) > 0
	})

	rows = paginate(rows, p.Skip, p.Limit)

	out := make([]models.ListingResponse, 0, len(rows))
	for _, r := range rows {
		imgs := imagesByListing[r.listing.ID]
		if imgs == nil {
			imgs = []models.ListingImage{}
		}
		out = append(out, models.ListingResponse{
			Listing:    r.listing,
			RCDetails:  r.raw,
			Images:     imgs,
			DistanceKM: r.distance,
			IsBoosted:  r.boosted,
		})
	}
	return out, nil
}

// joinVerifications attaches each row's registry document in one $in query
// keyed by registration number.
func (e *Engine) joinVerifications(ctx context.Context, rows []row) ([]row, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	regNos := make([]string, 0, len(rows))
	for _, r := range rows {
		regNos = append(regNos, r.listing.RegNo)
	}
	verifications, err := e.Verifications.Find(ctx, bson.M{"_id": bson.M{"$in": regNos}})
	if err != nil {
		return nil, err
	}
	byRegNo := make(map[string]models.VehicleVerification, len(verifications))
	for _, v := range verifications {
		byRegNo[v.RegNo] = v
	}
	for i := range rows {
		if v, ok := byRegNo[rows[i].listing.RegNo]; ok {
			rows[i].raw = v.RawData
			rows[i].regDate = v.RegDate()
		}
	}
	return rows, nil
}

func (e *Engine) joinImages(ctx context.Context, rows []row) (map[primitive.ObjectID][]models.ListingImage, error) {
	byListing := map[primitive.ObjectID][]models.ListingImage{}
	if len(rows) == 0 {
		return byListing, nil
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.listing.ID)
	}
	images, err := e.Images.Find(ctx, bson.M{"listing_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		byListing[img.ListingID] = append(byListing[img.ListingID], img)
	}
	return byListing, nil
}

func paginate(rows []row, skip, limit int64) []row {
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(rows)) {
		return nil
	}
	rows = rows[skip:]
	if limit > 0 && limit < int64(len(rows)) {
		rows = rows[:limit]
	}
	return rows
}

func manufacturerOf(raw map[string]interface{}) string {
	s, _ := raw[models.RawKeyManufacturer].(string)
	return s
}

func modelOf(raw map[string]interface{}) string {
	s, _ := raw[models.RawKeyModel].(string)
	return s
}

// yearOf parses the manufacture year out of a YYYY-MM-DD registration date.
func yearOf(regDate string) (int, bool) {
	if len(regDate) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(regDate[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}
