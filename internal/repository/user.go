package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookshelf/bookshelf/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// ListUsers returns all users, optionally filtered by exact name match.
func (r *Repository) ListUsers(ctx context.Context, name string) ([]model.UserDocument, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = name
	}

	cur, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []model.UserDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return docs, nil
}

// FindUserByName returns the first user with an exact name match.
func (r *Repository) FindUserByName(ctx context.Context, name string) (*model.UserDocument, error) {
	var doc model.UserDocument
	err := r.users.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by name: %w", err)
	}

	return &doc, nil
}

// InsertUser inserts a new user and returns the generated identifier.
// A duplicate email maps to ErrEmailExists via the unique index.
func (r *Repository) InsertUser(ctx context.Context, doc *model.UserDocument) (primitive.ObjectID, error) {
	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrEmailExists
		}
		return primitive.NilObjectID, fmt.Errorf("failed to insert user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}

	return id, nil
}

// ReplaceUserByEmail sets the user's mutable fields, matching on email.
// A nil books slice leaves the stored reference list untouched; a
// non-nil empty slice clears it. Matched count, not modified count,
// decides not-found: replacing a document with identical values is
// still a successful update.
func (r *Repository) ReplaceUserByEmail(ctx context.Context, email, name string, age int, books []primitive.ObjectID) error {
	set := bson.M{
		"name":  name,
		"age":   age,
		"email": email,
	}
	if books != nil {
		set["books"] = books
	}

	res, err := r.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes the user with the given identifier.
func (r *Repository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DetachBookFromUsers pulls a book identifier out of every user's
// reference list. Returns the number of users modified.
func (r *Repository) DetachBookFromUsers(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	res, err := r.users.UpdateMany(ctx,
		bson.M{"books": bookID},
		bson.M{"$pull": bson.M{"books": bookID}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to detach book from users: %w", err)
	}

	return res.ModifiedCount, nil
}

// ScanUserBookRefs returns each user's identifier and raw book
// references. The projection keeps the reconciler scan cheap.
func (r *Repository) ScanUserBookRefs(ctx context.Context) ([]model.UserDocument, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "books": 1})

	cur, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user book refs: %w", err)
	}

	var docs []model.UserDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode user book refs: %w", err)
	}

	return docs, nil
}
