// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookshelf/bookshelf/internal/metrics"
	"github.com/bookshelf/bookshelf/internal/model"
	"github.com/bookshelf/bookshelf/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
	ErrBookNotFound = errors.New("book not found")
	ErrTitleTaken   = errors.New("title already taken")
	ErrInvalidID    = errors.New("invalid identifier")
)

// UserService handles user business logic.
type UserService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		metrics: recorder,
	}
}

// ListUsers returns users with expanded book references, optionally
// filtered by exact name match.
func (s *UserService) ListUsers(ctx context.Context, name string) ([]model.User, error) {
	docs, err := s.repo.ListUsers(ctx, name)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(docs))
	for i := range docs {
		user, err := s.expand(ctx, &docs[i])
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// GetUserByName returns the first user with an exact name match,
// with book references expanded.
func (s *UserService) GetUserByName(ctx context.Context, name string) (model.User, error) {
	doc, err := s.repo.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	return s.expand(ctx, doc)
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string
	Age   int
	Email string
}

// CreateUser creates a new user with an empty book list.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (model.User, error) {
	doc := &model.UserDocument{
		Name:  input.Name,
		Age:   input.Age,
		Email: input.Email,
		Books: []primitive.ObjectID{},
	}

	id, err := s.repo.InsertUser(ctx, doc)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	doc.ID = id

	s.metrics.IncUserCreated()

	return doc.ToUser(nil), nil
}

// UpdateUserInput defines input for updating a user. Books is nil when
// the request carried no books list; the stored list is then kept.
type UpdateUserInput struct {
	Name  string
	Age   int
	Email string
	Books []string
}

// UpdateUser replaces the user's mutable fields, matching on email.
// When a books list is supplied, every referenced book must exist.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) error {
	var refs []primitive.ObjectID
	if input.Books != nil {
		refs = make([]primitive.ObjectID, 0, len(input.Books))
		for _, raw := range input.Books {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return ErrInvalidID
			}
			refs = append(refs, id)
		}

		if len(refs) > 0 {
			count, err := s.repo.CountBooksByIDs(ctx, refs)
			if err != nil {
				return err
			}
			if count != int64(len(refs)) {
				return ErrBookNotFound
			}
		}
	}

	err := s.repo.ReplaceUserByEmail(ctx, input.Email, input.Name, input.Age, refs)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.metrics.IncUserUpdated()

	return nil
}

// DeleteUser removes the user with the given identifier.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.repo.DeleteUser(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.metrics.IncUserDeleted()

	return nil
}

// expand resolves a user document's book references into full books.
// References to deleted books are skipped rather than failing the read.
func (s *UserService) expand(ctx context.Context, doc *model.UserDocument) (model.User, error) {
	var books []model.Book

	if len(doc.Books) > 0 {
		bookDocs, err := s.repo.FindBooksByIDs(ctx, doc.Books)
		if err != nil {
			return model.User{}, err
		}

		books = make([]model.Book, 0, len(bookDocs))
		for i := range bookDocs {
			books = append(books, bookDocs[i].ToBook())
		}
	}

	return doc.ToUser(books), nil
}
