// Package repository provides document database access layer.
package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	usersCollection = "users"
	booksCollection = "books"
)

// Repository provides access to the users and books collections.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
	users  *mongo.Collection
	books  *mongo.Collection
}

// New creates a new Repository with a connected Mongo client.
// The client is process-wide and lives until Close.
func New(ctx context.Context, mongoURL, dbName string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)

	return &Repository{
		client: client,
		db:     db,
		users:  db.Collection(usersCollection),
		books:  db.Collection(booksCollection),
	}, nil
}

// EnsureIndexes creates the unique indexes backing the conflict checks.
// A duplicate insert surfaces as a duplicate key error instead of
// racing a separate existence lookup.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.users.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}

	titleIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.books.Indexes().CreateOne(ctx, titleIndex); err != nil {
		return fmt.Errorf("failed to create books.title index: %w", err)
	}

	return nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the Mongo client.
func (r *Repository) Close() {
	_ = r.client.Disconnect(context.Background())
}

// Database returns the underlying database handle.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Database() *mongo.Database {
	return r.db
}
