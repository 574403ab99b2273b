package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
)

// AmenityRepository is a plain store pass-through for the amenities collection.
type AmenityRepository interface {
	Create(ctx context.Context, a *models.Amenity) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Amenity, error)
	ListActive(ctx context.Context) ([]models.Amenity, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoAmenityRepo struct {
	col *mongo.Collection
}

func NewMongoAmenityRepo(db *mongo.Database) AmenityRepository {
	return &mongoAmenityRepo{col: db.Collection(AmenitiesCollection)}
}

func (r *mongoAmenityRepo) Create(ctx context.Context, a *models.Amenity) error {
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

func (r *mongoAmenityRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Amenity, error) {
	var a models.Amenity
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoAmenityRepo) ListActive(ctx context.Context) ([]models.Amenity, error) {
	cur, err := r.col.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Amenity
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Amenity{}
	}
	return out, nil
}

func (r *mongoAmenityRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAmenityRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
