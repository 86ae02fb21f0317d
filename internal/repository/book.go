package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/bookshelf/internal/model"
)

// Common errors for book repository operations.
var (
	ErrBookNotFound = errors.New("book not found")
	ErrTitleExists  = errors.New("title already exists")
)

// ListBooks returns all books, optionally filtered by exact title match.
func (r *Repository) ListBooks(ctx context.Context, title string) ([]model.BookDocument, error) {
	filter := bson.M{}
	if title != "" {
		filter["title"] = title
	}

	cur, err := r.books.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	var docs []model.BookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	return docs, nil
}

// FindBookByID returns the book with the given identifier.
func (r *Repository) FindBookByID(ctx context.Context, id primitive.ObjectID) (*model.BookDocument, error) {
	var doc model.BookDocument
	err := r.books.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to find book by ID: %w", err)
	}

	return &doc, nil
}

// FindBooksByIDs returns the books whose identifiers appear in ids.
// Missing identifiers are silently absent from the result.
func (r *Repository) FindBooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.BookDocument, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := r.books.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find books by IDs: %w", err)
	}

	var docs []model.BookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	return docs, nil
}

// CountBooksByIDs returns how many of the given identifiers exist.
func (r *Repository) CountBooksByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := r.books.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to count books by IDs: %w", err)
	}

	return count, nil
}

// InsertBook inserts a new book and returns the generated identifier.
// A duplicate title maps to ErrTitleExists via the unique index.
func (r *Repository) InsertBook(ctx context.Context, doc *model.BookDocument) (primitive.ObjectID, error) {
	res, err := r.books.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrTitleExists
		}
		return primitive.NilObjectID, fmt.Errorf("failed to insert book: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}

	return id, nil
}

// UpdateBook replaces the book's title and pages, matching on the
// identifier. Matched count decides not-found.
func (r *Repository) UpdateBook(ctx context.Context, id primitive.ObjectID, title string, pages int) error {
	update := bson.M{"$set": bson.M{
		"title": title,
		"pages": pages,
	}}

	res, err := r.books.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrTitleExists
		}
		return fmt.Errorf("failed to update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}

// DeleteBook removes the book with the given identifier.
func (r *Repository) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.books.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}
