package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Vehicle types accepted on a listing.
const (
	VehicleTypeCar  = "car"
	VehicleTypeBike = "bike"
)

// ValidVehicleType reports whether t is a known vehicle category.
func ValidVehicleType(t string) bool {
	return t == VehicleTypeCar || t == VehicleTypeBike
}

// Listing holds the structure for the vehicle_listings collection in mongo.
// Latitude/Longitude are pointers because geocoding may have failed or not
// yet run; such listings are excluded from distance filtering.
type Listing struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id"`
	VehicleType      string             `json:"vehicleType" bson:"vehicle_type"`
	RegNo            string             `json:"regNo" bson:"reg_no"`
	KilometersDriven int                `json:"kilometersDriven" bson:"kilometers_driven"`
	Price            int                `json:"price" bson:"price"`
	UsrInpCity       string             `json:"usrInpCity" bson:"usr_inp_city"`
	City             string             `json:"city" bson:"city"`
	Latitude         *float64           `json:"latitude" bson:"latitude"`
	Longitude        *float64           `json:"longitude" bson:"longitude"`
	SellerPhone      string             `json:"sellerPhone" bson:"seller_phone"`
	Description      string             `json:"description" bson:"description"`
	IsActive         bool               `json:"isActive" bson:"is_active"`
	UserID           primitive.ObjectID `json:"userId" bson:"user_id"`
	CreatedAt        primitive.DateTime `json:"createdAt" bson:"created_at"`
	UpdatedAt        primitive.DateTime `json:"updatedAt" bson:"updated_at"`
}

// ListingResponse is a Listing enriched for API responses with the fields the
// frontend needs alongside the stored document.
type ListingResponse struct {
	Listing
	OwnerEmail string                 `json:"ownerEmail,omitempty"`
	RCDetails  map[string]interface{} `json:"rcDetails,omitempty"`
	Images     []ListingImage         `json:"images"`
	DistanceKM float64                `json:"distanceKm,omitempty"`
	IsBoosted  bool                   `json:"isBoosted"`
}
