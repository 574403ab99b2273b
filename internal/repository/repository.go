package repository

import "errors"

// Sentinel errors shared by every store. Callers branch with errors.Is.
var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

// Collection names in the marketplace database.
const (
	UsersCollection         = "users"
	OTPCollection           = "user_otps"
	PropertyCollection      = "property"
	PropertyNotesCollection = "property_notes"
	AmenitiesCollection     = "amenities"
	CategoryCollection      = "category"
)
