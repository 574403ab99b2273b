package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender values accepted on registration.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// RoleAdmin unlocks the moderation endpoints (property approval, category CRUD).
const RoleAdmin = "ADMIN"

// User is a marketplace account stored in the "users" collection. Email and
// phone are unique across the collection (sparse unique indexes). The password
// hash is never serialized into API responses.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName" json:"lastName"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	PasswordHash    string             `bson:"password" json:"-"`
	DateOfBirth     time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender          string             `bson:"gender" json:"gender"`
	Role            string             `bson:"role,omitempty" json:"role,omitempty"`
	ProfileImage    string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	IsEmailVerified bool               `bson:"isEmailVerified" json:"isEmailVerified"`
	IsPhoneVerified bool               `bson:"isPhoneVerified" json:"isPhoneVerified"`
	TwoStepEnabled  bool               `bson:"twoStepEnabled" json:"twoStepEnabled"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user may call admin-gated endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
