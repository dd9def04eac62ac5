package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Raw-document keys the search core reads out of a verification record.
const (
	RawKeyManufacturer = "vehicle_manufacturer_name"
	RawKeyModel        = "model"
	RawKeyRegDate      = "reg_date"
)

// VehicleVerification holds the structure for the vehicle_verifications
// collection in mongo. The registration number is the natural key; a
// verification is created once per reg_no and reused by any listing that
// references it.
type VehicleVerification struct {
	RegNo     string                 `json:"regNo" bson:"_id"`
	Status    string                 `json:"status" bson:"status"`
	RawData   map[string]interface{} `json:"data" bson:"raw_data"`
	CreatedAt primitive.DateTime     `json:"createdAt" bson:"created_at"`
}

// Manufacturer returns the manufacturer name from the raw registry document.
func (v VehicleVerification) Manufacturer() string {
	s, _ := v.RawData[RawKeyManufacturer].(string)
	return s
}

// Model returns the model name from the raw registry document.
func (v VehicleVerification) Model() string {
	s, _ := v.RawData[RawKeyModel].(string)
	return s
}

// RegDate returns the registration date string (YYYY-MM-DD) from the raw
// registry document.
func (v VehicleVerification) RegDate() string {
	s, _ := v.RawData[RawKeyRegDate].(string)
	return s
}
