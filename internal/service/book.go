package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookshelf/bookshelf/internal/cache"
	"github.com/bookshelf/bookshelf/internal/metrics"
	"github.com/bookshelf/bookshelf/internal/model"
	"github.com/bookshelf/bookshelf/internal/repository"
)

// BookService handles book business logic.
type BookService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewBookService creates a new BookService. A nil cache disables the
// read-through book cache; every lookup then goes to the database.
func NewBookService(repo *repository.Repository, bookCache *cache.Cache, logger *slog.Logger, recorder metrics.Recorder) *BookService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BookService{
		repo:    repo,
		cache:   bookCache,
		logger:  logger,
		metrics: recorder,
	}
}

// ListBooks returns all books, optionally filtered by exact title match.
func (s *BookService) ListBooks(ctx context.Context, title string) ([]model.Book, error) {
	docs, err := s.repo.ListBooks(ctx, title)
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].ToBook())
	}

	return books, nil
}

// GetBook returns the book with the given identifier, reading through
// the cache when one is configured.
func (s *BookService) GetBook(ctx context.Context, id string) (model.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Book{}, ErrInvalidID
	}

	if s.cache != nil {
		cached, err := s.cache.GetBook(ctx, id)
		if err == nil {
			s.metrics.IncBookCacheHit()
			return cached.ToBook(id), nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("book cache read failed", "book_id", id, "error", err)
		}
		s.metrics.IncBookCacheMiss()
	}

	doc, err := s.repo.FindBookByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return model.Book{}, ErrBookNotFound
		}
		return model.Book{}, err
	}

	book := doc.ToBook()

	if s.cache != nil {
		if err := s.cache.SetBook(ctx, id, &book); err != nil {
			s.logger.Warn("book cache write failed", "book_id", id, "error", err)
		}
	}

	return book, nil
}

// CreateBookInput defines input for creating a book.
type CreateBookInput struct {
	Title string
	Pages int
}

// CreateBook creates a new book.
func (s *BookService) CreateBook(ctx context.Context, input CreateBookInput) (model.Book, error) {
	doc := &model.BookDocument{
		Title: input.Title,
		Pages: input.Pages,
	}

	id, err := s.repo.InsertBook(ctx, doc)
	if err != nil {
		if errors.Is(err, repository.ErrTitleExists) {
			return model.Book{}, ErrTitleTaken
		}
		return model.Book{}, fmt.Errorf("failed to create book: %w", err)
	}
	doc.ID = id

	s.metrics.IncBookCreated()

	return doc.ToBook(), nil
}

// UpdateBookInput defines input for updating a book.
type UpdateBookInput struct {
	ID    string
	Title string
	Pages int
}

// UpdateBook replaces the book's title and pages.
func (s *BookService) UpdateBook(ctx context.Context, input UpdateBookInput) error {
	oid, err := primitive.ObjectIDFromHex(input.ID)
	if err != nil {
		return ErrInvalidID
	}

	err = s.repo.UpdateBook(ctx, oid, input.Title, input.Pages)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			return ErrBookNotFound
		case errors.Is(err, repository.ErrTitleExists):
			return ErrTitleTaken
		}
		return err
	}

	s.invalidate(ctx, input.ID)
	s.metrics.IncBookUpdated()

	return nil
}

// DeleteBook removes the book and detaches its identifier from every
// user's book list. The detach is best-effort and not transactional
// with the delete; the reconciler repairs any window left by a failure.
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.repo.DeleteBook(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if _, err := s.repo.DetachBookFromUsers(ctx, oid); err != nil {
		s.logger.Error("failed to detach deleted book from users", "book_id", id, "error", err)
	}

	s.invalidate(ctx, id)
	s.metrics.IncBookDeleted()

	return nil
}

func (s *BookService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteBook(ctx, id); err != nil {
		s.logger.Warn("book cache invalidation failed", "book_id", id, "error", err)
	}
}
