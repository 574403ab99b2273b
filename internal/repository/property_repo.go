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

// PropertyRepository backs the listing CRUD and the admin approval workflow.
// Listing reads go through an aggregation pipeline that joins category, owner,
// amenities and moderation notes, so they return raw joined documents.
type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	// FindForUser returns the listing with relations joined, scoped to the owner.
	FindForUser(ctx context.Context, id, userID primitive.ObjectID) ([]bson.M, error)
	ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]bson.M, error)
	// ListByStatus is the admin view: every listing in the given status,
	// including moderation notes.
	ListByStatus(ctx context.Context, status string) ([]bson.M, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	AddAmenity(ctx context.Context, id, amenityID primitive.ObjectID) error
	RemoveAmenity(ctx context.Context, id, amenityID primitive.ObjectID) error
	InsertNote(ctx context.Context, note *models.PropertyNote) error
}

type mongoPropertyRepo struct {
	col   *mongo.Collection
	notes *mongo.Collection
}

func NewMongoPropertyRepo(db *mongo.Database) PropertyRepository {
	return &mongoPropertyRepo{
		col:   db.Collection(PropertyCollection),
		notes: db.Collection(PropertyNotesCollection),
	}
}

func (r *mongoPropertyRepo) Create(ctx context.Context, p *models.Property) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.PropertyStatusPending
	}
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *mongoPropertyRepo) FindForUser(ctx context.Context, id, userID primitive.ObjectID) ([]bson.M, error) {
	match := bson.M{"_id": id, "user": userID}
	return r.aggregate(ctx, match, false)
}

func (r *mongoPropertyRepo) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]bson.M, error) {
	return r.aggregate(ctx, bson.M{"user": userID}, false)
}

func (r *mongoPropertyRepo) ListByStatus(ctx context.Context, status string) ([]bson.M, error) {
	return r.aggregate(ctx, bson.M{"status": status}, true)
}

func (r *mongoPropertyRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPropertyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPropertyRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return r.Update(ctx, id, bson.M{"status": status})
}

func (r *mongoPropertyRepo) AddAmenity(ctx context.Context, id, amenityID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$push": bson.M{"amenities": amenityID}})
	return err
}

func (r *mongoPropertyRepo) RemoveAmenity(ctx context.Context, id, amenityID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$pull": bson.M{"amenities": amenityID}})
	return err
}

func (r *mongoPropertyRepo) InsertNote(ctx context.Context, note *models.PropertyNote) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	_, err := r.notes.InsertOne(ctx, note)
	return err
}

// aggregate runs the shared $lookup pipeline. withNotes adds the moderation
// notes join used by the admin listing.
func (r *mongoPropertyRepo) aggregate(ctx context.Context, match bson.M, withNotes bool) ([]bson.M, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		lookup(CategoryCollection, "category", "_id", "category"),
		lookup(UsersCollection, "user", "_id", "user"),
		lookup(AmenitiesCollection, "amenities", "_id", "amenities"),
	}
	if withNotes {
		pipeline = append(pipeline, lookup(PropertyNotesCollection, "_id", "propertyId", "property_notes"))
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$unwind", Value: "$category"}},
	)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []bson.M{}
	}
	return out, nil
}

func lookup(from, localField, foreignField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": foreignField,
		"as":           as,
	}}}
}

// ErrInvalidID is returned by handler-level id parsing helpers.
var ErrInvalidID = errors.New("invalid object id")

// ParseID converts a hex path parameter into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
