package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/models"
)

const maxUploadBytes = 32 << 20

// ImageStore puts listing photos on the CDN and removes them again.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader) (url, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}

type cloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore builds an ImageStore from the CLOUDINARY_URL env var.
func NewCloudinaryStore() (ImageStore, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &cloudinaryStore{cld: cld}, nil
}

func (c *cloudinaryStore) Upload(ctx context.Context, file io.Reader) (string, string, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: "listings"})
	if err != nil {
		return "", "", err
	}
	return resp.SecureURL, resp.PublicID, nil
}

func (c *cloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// Image exported for testing purposes
type Image struct {
	DB    databases.ImageDatabase
	LDB   databases.ListingDatabase
	Store ImageStore
}

// ownedListing loads an active listing if the caller owns it. Missing and
// not-owned are reported identically.
func (i Image) ownedListing(ctx context.Context, w http.ResponseWriter, listingID, userID primitive.ObjectID) bool {
	_, err := i.LDB.FindOne(ctx, bson.M{"_id": listingID, "user_id": userID, "is_active": true})
	if err != nil {
		config.ErrorStatus("listing not found or not authorized", http.StatusNotFound, w, err)
		return false
	}
	return true
}

// UploadImagesHandler accepts a multipart batch of photos for a listing. The
// is_primary_flags field must carry one boolean per file; the first batch on
// a listing must nominate exactly one primary.
func (i Image) UploadImagesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}
	listingID, err := primitive.ObjectIDFromHex(mux.Vars(r)["listing_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}
	files := r.MultipartForm.File["files"]
	rawFlags := r.MultipartForm.Value["is_primary_flags"]
	if len(files) == 0 {
		config.ErrorStatus("no files provided", http.StatusBadRequest, w, fmt.Errorf("empty files field"))
		return
	}
	if len(files) != len(rawFlags) {
		config.ErrorStatus("number of files and is_primary_flags must match", http.StatusBadRequest, w,
			fmt.Errorf("%d files, %d flags", len(files), len(rawFlags)))
		return
	}
	flags := make([]bool, len(rawFlags))
	newPrimaries := 0
	for n, raw := range rawFlags {
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			config.ErrorStatus("is_primary_flags must be booleans", http.StatusBadRequest, w, err)
			return
		}
		flags[n] = flag
		if flag {
			newPrimaries++
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if !i.ownedListing(ctx, w, listingID, userID) {
		return
	}

	existing, err := i.DB.Find(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		config.ErrorStatus("failed to get listing images", http.StatusInternalServerError, w, err)
		return
	}
	if len(existing)+len(files) > models.MaxImagesPerListing {
		config.ErrorStatus(fmt.Sprintf("a listing can have at most %d images", models.MaxImagesPerListing),
			http.StatusBadRequest, w, fmt.Errorf("%d existing, %d new", len(existing), len(files)))
		return
	}
	hasPrimary := false
	for _, img := range existing {
		if img.IsPrimary {
			hasPrimary = true
		}
	}
	if !hasPrimary && newPrimaries != 1 {
		config.ErrorStatus("exactly one image must be marked primary", http.StatusBadRequest, w,
			fmt.Errorf("%d primary flags set", newPrimaries))
		return
	}
	if hasPrimary && newPrimaries > 0 {
		config.ErrorStatus("listing already has a primary image", http.StatusBadRequest, w,
			fmt.Errorf("%d new primary flags set", newPrimaries))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	created := make([]models.ListingImage, 0, len(files))
	for n, header := range files {
		file, err := header.Open()
		if err != nil {
			config.ErrorStatus("failed to read uploaded file", http.StatusBadRequest, w, err)
			return
		}
		url, publicID, err := i.Store.Upload(ctx, file)
		file.Close()
		if err != nil {
			config.ErrorStatus("failed to upload image", http.StatusBadGateway, w, err)
			return
		}
		created = append(created, models.ListingImage{
			ID:        primitive.NewObjectID(),
			ListingID: listingID,
			URL:       url,
			PublicID:  publicID,
			IsPrimary: flags[n],
			CreatedAt: now,
		})
	}
	if err := i.DB.InsertMany(ctx, created); err != nil {
		config.ErrorStatus("failed to save images", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(created)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// MakePrimaryHandler moves the primary flag to the named image.
func (i Image) MakePrimaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}
	vars := mux.Vars(r)
	listingID, err := primitive.ObjectIDFromHex(vars["listing_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	imageID, err := primitive.ObjectIDFromHex(vars["image_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if !i.ownedListing(ctx, w, listingID, userID) {
		return
	}
	if _, err := i.DB.FindOne(ctx, bson.M{"_id": imageID, "listing_id": listingID}); err != nil {
		config.ErrorStatus("image not found", http.StatusNotFound, w, err)
		return
	}

	if _, err := i.DB.UpdateMany(ctx, bson.M{"listing_id": listingID}, bson.M{"$set": bson.M{"is_primary": false}}); err != nil {
		config.ErrorStatus("failed to update images", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := i.DB.UpdateOne(ctx, bson.M{"_id": imageID}, bson.M{"$set": bson.M{"is_primary": true}}); err != nil {
		config.ErrorStatus("failed to update image", http.StatusInternalServerError, w, err)
		return
	}

	b, _ := json.Marshal(map[string]string{"detail": "primary image updated"})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReplaceImageHandler swaps the binary behind an existing image record,
// keeping its identity and primary flag.
func (i Image) ReplaceImageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}
	imageID, err := primitive.ObjectIDFromHex(mux.Vars(r)["image_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		config.ErrorStatus("exactly one file is required", http.StatusBadRequest, w, fmt.Errorf("%d files", len(files)))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	img, err := i.DB.FindOne(ctx, bson.M{"_id": imageID})
	if err != nil {
		config.ErrorStatus("image not found", http.StatusNotFound, w, err)
		return
	}
	if !i.ownedListing(ctx, w, img.ListingID, userID) {
		return
	}

	file, err := files[0].Open()
	if err != nil {
		config.ErrorStatus("failed to read uploaded file", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()
	url, publicID, err := i.Store.Upload(ctx, file)
	if err != nil {
		config.ErrorStatus("failed to upload image", http.StatusBadGateway, w, err)
		return
	}

	if _, err := i.DB.UpdateOne(ctx, bson.M{"_id": imageID}, bson.M{"$set": bson.M{"url": url, "public_id": publicID}}); err != nil {
		config.ErrorStatus("failed to update image", http.StatusInternalServerError, w, err)
		return
	}
	if err := i.Store.Destroy(ctx, img.PublicID); err != nil {
		zap.S().Warnw("failed to delete replaced image from CDN", "public_id", img.PublicID, "error", err)
	}

	img.URL = url
	img.PublicID = publicID
	b, err := json.Marshal(img)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteImageHandler removes an image record and its CDN asset.
func (i Image) DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}
	imageID, err := primitive.ObjectIDFromHex(mux.Vars(r)["image_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	img, err := i.DB.FindOne(ctx, bson.M{"_id": imageID})
	if err != nil {
		config.ErrorStatus("image not found", http.StatusNotFound, w, err)
		return
	}
	if !i.ownedListing(ctx, w, img.ListingID, userID) {
		return
	}

	if err := i.Store.Destroy(ctx, img.PublicID); err != nil {
		zap.S().Warnw("failed to delete image from CDN", "public_id", img.PublicID, "error", err)
	}
	if _, err := i.DB.DeleteOne(ctx, bson.M{"_id": imageID}); err != nil {
		config.ErrorStatus("failed to delete image", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
