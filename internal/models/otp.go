package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP kinds. Email and phone codes are issued on registration, forgot codes by
// the forgot-password flow.
const (
	OTPKindEmail  = "email"
	OTPKindPhone  = "phone"
	OTPKindForgot = "forgot"
)

// OTPRecord is a short-lived verification code in the "user_otps" collection.
// Code is a zero-padded 4-digit numeric string; the record is only valid while
// now <= ExpiresAt.
type OTPRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Identifier string             `bson:"identifier" json:"identifier"`
	Kind       string             `bson:"type" json:"type"`
	Code       string             `bson:"otp" json:"-"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Expired reports whether the code is past its validity window.
func (o *OTPRecord) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
