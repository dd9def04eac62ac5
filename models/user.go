package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User holds the structure for the users collection in mongo
type User struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id"`
	Email           string             `json:"email" bson:"email"`
	HashedPassword  string             `json:"-" bson:"hashed_password"`
	IsActive        bool               `json:"isActive" bson:"is_active"`
	IsEmailVerified bool               `json:"isEmailVerified" bson:"is_email_verified"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"created_at"`
}
