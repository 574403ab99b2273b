package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property listing status values. New listings start as pending and move through
// the admin approval workflow.
const (
	PropertyStatusPending      = "pending"
	PropertyStatusApproved     = "approved"
	PropertyStatusModification = "modification"
	PropertyStatusRejected     = "rejected"
)

// GeoPoint is a GeoJSON point, [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Property is a rental listing in the "property" collection. Category and
// amenity references are resolved through $lookup when listings are fetched.
type Property struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Category      primitive.ObjectID   `bson:"category" json:"category"`
	User          primitive.ObjectID   `bson:"user" json:"user"`
	Price         float64              `bson:"price" json:"price"`
	PriceUnit     string               `bson:"priceUnit" json:"priceUnit"`
	Bedrooms      int                  `bson:"bedrooms" json:"bedrooms"`
	Bathrooms     int                  `bson:"bathrooms" json:"bathrooms"`
	Sqft          int                  `bson:"sqft" json:"sqft"`
	Description   string               `bson:"description" json:"description"`
	Location      GeoPoint             `bson:"location" json:"location"`
	StreetAddress string               `bson:"street_address" json:"street_address"`
	City          string               `bson:"city" json:"city"`
	State         string               `bson:"state" json:"state"`
	Country       string               `bson:"country" json:"country"`
	Zipcode       string               `bson:"zipcode" json:"zipcode"`
	Amenities     []primitive.ObjectID `bson:"amenities" json:"amenities"`
	Status        string               `bson:"status" json:"status"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
}

// PropertyNote is a moderation note attached to a listing during approval.
type PropertyNote struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	Note       string             `bson:"note" json:"note"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
