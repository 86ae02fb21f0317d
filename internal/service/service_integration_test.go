//go:build integration

package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookshelf/bookshelf/internal/metrics"
	"github.com/bookshelf/bookshelf/internal/service"
	"github.com/bookshelf/bookshelf/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateUser_ThenGetByName(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewTestRepository(t, ctx)
	users := service.NewUserService(repo, nil)

	created, err := users.CreateUser(ctx, service.CreateUserInput{
		Name:  "Ada",
		Age:   36,
		Email: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated identifier")
	}
	if len(created.Books) != 0 {
		t.Errorf("expected empty books on creation, got %v", created.Books)
	}

	got, err := users.GetUserByName(ctx, "Ada")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if got.ID != created.ID || got.Email != created.Email {
		t.Errorf("round trip mismatch: %+v vs %+v", got, created)
	}
	if len(got.Books) != 0 {
		t.Errorf("expected empty books list, got %v", got.Books)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewTestRepository(t, ctx)
	users := service.NewUserService(repo, nil)

	input := service.CreateUserInput{Name: "Ada", Age: 36, Email: "ada@example.com"}
	if _, err := users.CreateUser(ctx, input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	if _, err := users.CreateUser(ctx, input); !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateUser_BooksValidation(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewTestRepository(t, ctx)
	users := service.NewUserService(repo, nil)
	books := service.NewBookService(repo, nil, discardLogger(), nil)

	if _, err := users.CreateUser(ctx, service.CreateUserInput{Name: "Ada", Age: 36, Email: "ada@example.com"}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	book, err := books.CreateBook(ctx, service.CreateBookInput{Title: "Notes", Pages: 101})
	if err != nil {
		t.Fatalf("create book failed: %v", err)
	}

	// A list with one unknown identifier must fail and leave the stored
	// list unchanged.
	err = users.UpdateUser(ctx, service.UpdateUserInput{
		Name:  "Ada",
		Age:   36,
		Email: "ada@example.com",
		Books: []string{book.ID, primitive.NewObjectID().Hex()},
	})
	if !errors.Is(err, service.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}

	got, err := users.GetUserByName(ctx, "Ada")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if len(got.Books) != 0 {
		t.Errorf("expected books unchanged (empty), got %v", got.Books)
	}

	// A fully valid list is applied.
	err = users.UpdateUser(ctx, service.UpdateUserInput{
		Name:  "Ada",
		Age:   36,
		Email: "ada@example.com",
		Books: []string{book.ID},
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err = users.GetUserByName(ctx, "Ada")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if len(got.Books) != 1 || got.Books[0].ID != book.ID {
		t.Errorf("expected expanded book %s, got %v", book.ID, got.Books)
	}
}

func TestUpdateUser_OmittedBooksKeepsList(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewTestRepository(t, ctx)
	users := service.NewUserService(repo, nil)
	books := service.NewBookService(repo, nil, discardLogger(), nil)

	if _, err := users.CreateUser(ctx, service.CreateUserInput{Name: "Ada", Age: 36, Email: "ada@example.com"}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	book, err := books.CreateBook(ctx, service.CreateBookInput{Title: "Notes", Pages: 101})
	if err != nil {
		t.Fatalf("create book failed: %v", err)
	}

	if err := users.UpdateUser(ctx, service.UpdateUserInput{Name: "Ada", Age: 36, Email: "ada@example.com", Books: []string{book.ID}}); err != nil {
		t.Fatalf("UpdateUser with books failed: %v", err)
	}

	// No books field this time; the stored list must survive.
	if err := users.UpdateUser(ctx, service.UpdateUserInput{Name: "Ada L", Age: 37, Email: "ada@example.com"}); err != nil {
		t.Fatalf("UpdateUser without books failed: %v", err)
	}

	got, err := users.GetUserByName(ctx, "Ada L")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if len(got.Books) != 1 {
		t.Errorf("expected stored books kept, got %v", got.Books)
	}
}

func TestDeleteBook_DetachesFromUsers(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewTestRepository(t, ctx)
	rec := metrics.NewInMemory()
	users := service.NewUserService(repo, rec)
	books := service.NewBookService(repo, nil, discardLogger(), rec)

	book, err := books.CreateBook(ctx, service.CreateBookInput{Title: "Shared", Pages: 42})
	if err != nil {
		t.Fatalf("create book failed: %v", err)
	}
	if _, err := users.CreateUser(ctx, service.CreateUserInput{Name: "Ada", Age: 36, Email: "ada@example.com"}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := users.UpdateUser(ctx, service.UpdateUserInput{Name: "Ada", Age: 36, Email: "ada@example.com", Books: []string{book.ID}}); err != nil {
		t.Fatalf("attach book failed: %v", err)
	}

	if err := books.DeleteBook(ctx, book.ID); err != nil {
		t.Fatalf("DeleteBook failed: %v", err)
	}

	got, err := users.GetUserByName(ctx, "Ada")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if len(got.Books) != 0 {
		t.Errorf("expected deleted book detached, got %v", got.Books)
	}

	if snap := rec.Snapshot(); snap.BooksDeleted != 1 {
		t.Errorf("expected 1 book deleted metric, got %d", snap.BooksDeleted)
	}
}

func TestDeleteUser_UnknownID(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewTestRepository(t, ctx)
	users := service.NewUserService(repo, nil)

	if err := users.DeleteUser(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	if err := users.DeleteUser(ctx, "not-a-hex-id"); !errors.Is(err, service.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestGetBook_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewTestRepository(t, ctx)
	books := service.NewBookService(repo, nil, discardLogger(), nil)

	created, err := books.CreateBook(ctx, service.CreateBookInput{Title: "TAPL", Pages: 645})
	if err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	got, err := books.GetBook(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if got != created {
		t.Errorf("round trip mismatch: %+v vs %+v", got, created)
	}

	if _, err := books.GetBook(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, service.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}
