package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/geocode"
)

// geocodeBatchSize caps how many listings one backfill run resolves, keeping
// each run inside the maps API quota.
const geocodeBatchSize = 100

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron       *cron.Cron
	LDB        databases.ListingDatabase
	LockDB     databases.LockDatabase
	Geo        geocode.Geocoder
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(lDB databases.ListingDatabase, lockDB databases.LockDatabase, geo geocode.Geocoder) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		LDB:        lDB,
		LockDB:     lockDB,
		Geo:        geo,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Backfill coordinates for listings whose city never geocoded, hourly
	_, err := s.cron.AddFunc("0 * * * *", s.BackfillCoordinates)
	if err != nil {
		zap.S().Errorw("failed to register geocode backfill job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Geocode backfill scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Geocode backfill scheduler stopped")
}

// BackfillCoordinates resolves coordinates for active listings that were
// created while geocoding was unavailable. Such listings are invisible to
// distance search until this job catches them up.
func (s *Scheduler) BackfillCoordinates() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "geocode_backfill_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for geocode backfill job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Geocode backfill job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "geocode_backfill_job", s.instanceID)

	zap.S().Infow("Running geocode backfill job", "instance", s.instanceID)

	limit := int64(geocodeBatchSize)
	listings, err := s.LDB.Find(ctx,
		bson.M{"is_active": true, "latitude": nil},
		&options.FindOptions{Limit: &limit, Sort: bson.D{{Key: "created_at", Value: 1}}},
	)
	if err != nil {
		zap.S().Errorw("failed to find ungeocoded listings", "error", err)
		return
	}

	resolved, failed := 0, 0
	for _, listing := range listings {
		loc, err := s.Geo.Geocode(ctx, listing.UsrInpCity)
		if err != nil {
			failed++
			if !errors.Is(err, geocode.ErrNoResults) {
				zap.S().Warnw("geocode backfill lookup failed", "listing_id", listing.ID.Hex(), "city", listing.UsrInpCity, "error", err)
			}
			continue
		}
		_, err = s.LDB.UpdateOne(ctx,
			bson.M{"_id": listing.ID},
			bson.M{"$set": bson.M{
				"latitude":   loc.Lat,
				"longitude":  loc.Lng,
				"city":       loc.MainText,
				"updated_at": primitive.NewDateTimeFromTime(time.Now()),
			}},
		)
		if err != nil {
			failed++
			zap.S().Errorw("failed to save backfilled coordinates", "listing_id", listing.ID.Hex(), "error", err)
			continue
		}
		resolved++
	}

	zap.S().Infow("Geocode backfill complete",
		"resolved", resolved,
		"failed", failed,
	)
}
