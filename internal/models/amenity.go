package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Amenity is a listable property feature (pool, parking, ...) with an uploaded
// icon image.
type Amenity struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Icon     string             `bson:"icon,omitempty" json:"icon,omitempty"`
	IsActive bool               `bson:"isActive" json:"isActive"`
}

// Category groups listings (apartment, villa, ...).
type Category struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category string             `bson:"category" json:"category"`
	IsActive bool               `bson:"isActive" json:"isActive"`
}
