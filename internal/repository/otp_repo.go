package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
)

// OTPFilter narrows the valid-record lookup. Kind is mandatory; UserID and
// Identifier are alternative keys depending on the flow (verification vs forgot).
type OTPFilter struct {
	UserID     primitive.ObjectID
	Identifier string
	Kind       string
}

// OTPRepository holds short-lived verification codes.
type OTPRepository interface {
	Create(ctx context.Context, rec *models.OTPRecord) error
	// FindValid returns an unexpired record matching the filter, or ErrNotFound.
	FindValid(ctx context.Context, f OTPFilter) (*models.OTPRecord, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountValid(ctx context.Context, f OTPFilter) (int64, error)
}

type mongoOTPRepo struct {
	col *mongo.Collection
}

func NewMongoOTPRepo(db *mongo.Database) OTPRepository {
	return &mongoOTPRepo{col: db.Collection(OTPCollection)}
}

func (r *mongoOTPRepo) Create(ctx context.Context, rec *models.OTPRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}
	return nil
}

func (r *mongoOTPRepo) FindValid(ctx context.Context, f OTPFilter) (*models.OTPRecord, error) {
	var rec models.OTPRecord
	err := r.col.FindOne(ctx, validFilter(f)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoOTPRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *mongoOTPRepo) CountValid(ctx context.Context, f OTPFilter) (int64, error) {
	return r.col.CountDocuments(ctx, validFilter(f))
}

func validFilter(f OTPFilter) bson.M {
	filter := bson.M{
		"type":      f.Kind,
		"expiresAt": bson.M{"$gte": time.Now().UTC()},
	}
	if !f.UserID.IsZero() {
		filter["userId"] = f.UserID
	}
	if f.Identifier != "" {
		filter["identifier"] = f.Identifier
	}
	return filter
}
