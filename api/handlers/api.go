package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/api/handlers/search"
	"github.com/motog-app/motog-app-be/api/scheduler"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/geocode"
	"github.com/motog-app/motog-app-be/mailer"
	"github.com/motog-app/motog-app-be/models"
	"github.com/motog-app/motog-app-be/payments"
	"github.com/motog-app/motog-app-be/registry"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
	redis    *redis.Client
	geo      geocode.Geocoder
	images   ImageStore
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.TimeoutMiddleware(30 * time.Second))

	listingDB := databases.NewListingDatabase(a.dbHelper)
	verificationDB := databases.NewVerificationDatabase(a.dbHelper)
	imageDB := databases.NewImageDatabase(a.dbHelper)
	boostDB := databases.NewBoostDatabase(a.dbHelper)
	userDB := databases.NewUserDatabase(a.dbHelper)
	viewDB := databases.NewViewDatabase(a.dbHelper)

	engine := search.NewEngine(listingDB, verificationDB, imageDB, boostDB)

	l := Listing{DB: listingDB, VDB: verificationDB, IDB: imageDB, BDB: boostDB, UDB: userDB, Views: viewDB, Geo: a.geo}
	d := Discovery{
		Search:   search.NewController(engine, search.DefaultRadiiKM, search.DefaultMinResults),
		Homepage: search.NewController(engine, search.HomepageRadiiKM, search.HomepageMinResults),
	}
	img := Image{DB: imageDB, LDB: listingDB, Store: a.images}
	boost := Boost{
		PDB:      databases.NewBoostPackageDatabase(a.dbHelper),
		BDB:      boostDB,
		LDB:      listingDB,
		Payments: payments.NewStripe(),
	}
	stats := Stats{Views: viewDB, LDB: listingDB}
	u := User{DB: userDB, Mailer: mailer.NewSendgrid(), Conf: a.Config}
	verify := Verification{VDB: verificationDB, LDB: listingDB, Registry: registry.NewCashfree(), Quota: NewMonthlyQuota(a.redis, verifyLimitPerMonth)}
	loc := Location{Geo: a.geo}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/register", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/verify-email", http.HandlerFunc(u.VerifyEmailHandler)).Methods("GET")
	apiCreate.Handle("/user/forgot-password", http.HandlerFunc(u.ForgotPasswordHandler)).Methods("POST")
	apiCreate.Handle("/user/reset-password", http.HandlerFunc(u.ResetPasswordHandler)).Methods("POST")
	apiCreate.Handle("/user/change-password", api.Middleware(http.HandlerFunc(u.ChangePasswordHandler))).Methods("POST")

	apiCreate.Handle("/listings", http.HandlerFunc(d.DiscoveryHandler)).Methods("GET")
	apiCreate.Handle("/listings/homepage", http.HandlerFunc(d.HomepageHandler)).Methods("GET")
	apiCreate.Handle("/listings/my-listings", api.Middleware(http.HandlerFunc(l.MyListingsHandler))).Methods("GET")
	apiCreate.Handle("/listings", api.Middleware(http.HandlerFunc(l.CreateListingHandler))).Methods("POST")
	apiCreate.Handle("/listing/{listing_id}", api.OptionalMiddleware(http.HandlerFunc(l.ListingByIDHandler))).Methods("GET")
	apiCreate.Handle("/listing/{listing_id}", api.Middleware(http.HandlerFunc(l.UpdateListingHandler))).Methods("PUT")
	apiCreate.Handle("/listing/{listing_id}", api.Middleware(http.HandlerFunc(l.DeleteListingHandler))).Methods("DELETE")
	apiCreate.Handle("/listing/{listing_id}/stats", http.HandlerFunc(stats.ListingStatsHandler)).Methods("GET")

	apiCreate.Handle("/listing/{listing_id}/images", api.Middleware(http.HandlerFunc(img.UploadImagesHandler))).Methods("POST")
	apiCreate.Handle("/listing/{listing_id}/images/{image_id}/make-primary", api.Middleware(http.HandlerFunc(img.MakePrimaryHandler))).Methods("PATCH")
	apiCreate.Handle("/images/{image_id}", api.Middleware(http.HandlerFunc(img.ReplaceImageHandler))).Methods("PUT")
	apiCreate.Handle("/images/{image_id}", api.Middleware(http.HandlerFunc(img.DeleteImageHandler))).Methods("DELETE")

	apiCreate.Handle("/boosts/packages", http.HandlerFunc(boost.ListBoostPackagesHandler)).Methods("GET")
	apiCreate.Handle("/boosts/order", api.Middleware(http.HandlerFunc(boost.CreateBoostOrderHandler))).Methods("POST")
	apiCreate.Handle("/boosts/verify", api.Middleware(http.HandlerFunc(boost.VerifyBoostPaymentHandler))).Methods("POST")

	apiCreate.Handle("/vehicle-verify", api.Middleware(http.HandlerFunc(verify.VehicleVerifyHandler))).Methods("POST")

	apiCreate.Handle("/location/get-location", api.Middleware(http.HandlerFunc(loc.GetLocationHandler))).Methods("POST")
	apiCreate.Handle("/location/autocomplete", api.Middleware(http.HandlerFunc(loc.AutocompleteHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("motog-api has connected to the database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to ensure indexes")
		return err
	}

	opts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		zap.S().With(err).Error("failed to parse redis url")
		return err
	}
	a.redis = redis.NewClient(opts)

	geo, err := geocode.NewGoogle()
	if err != nil {
		zap.S().With(err).Error("failed to create maps client")
		return err
	}
	a.geo = geocode.NewCached(geo, a.redis)

	a.images, err = NewCloudinaryStore()
	if err != nil {
		zap.S().With(err).Error("failed to create cloudinary client")
		return err
	}

	// initialize stripe
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		return fmt.Errorf("stripe secret key is not set")
	}
	stripe.Key = stripeKey

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// StartScheduler launches the background jobs. Call after Initialize.
func (a *App) StartScheduler() *scheduler.Scheduler {
	s := scheduler.NewScheduler(
		databases.NewListingDatabase(a.dbHelper),
		databases.NewLockDatabase(a.dbHelper),
		a.geo,
	)
	s.Start()
	return s
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
