package model

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookDocument_ToBook(t *testing.T) {
	id := primitive.NewObjectID()
	doc := BookDocument{
		ID:    id,
		Title: "The Go Programming Language",
		Pages: 380,
	}

	book := doc.ToBook()

	if book.ID != id.Hex() {
		t.Errorf("expected ID %s, got %s", id.Hex(), book.ID)
	}
	if book.Title != doc.Title {
		t.Errorf("expected title %q, got %q", doc.Title, book.Title)
	}
	if book.Pages != doc.Pages {
		t.Errorf("expected pages %d, got %d", doc.Pages, book.Pages)
	}
}

func TestCachedBook_RoundTrip(t *testing.T) {
	book := Book{
		ID:    primitive.NewObjectID().Hex(),
		Title: "Refactoring",
		Pages: 448,
	}

	cached := book.ToCachedBook()
	restored := cached.ToBook(book.ID)

	if restored != book {
		t.Errorf("round trip mismatch: got %+v, want %+v", restored, book)
	}
}

func TestCachedBook_ToBook_BadPages(t *testing.T) {
	cached := &CachedBook{Title: "x", Pages: "not-a-number"}

	book := cached.ToBook("abc")

	if book.Pages != 0 {
		t.Errorf("expected pages 0 for unparseable value, got %d", book.Pages)
	}
}

func TestUserDocument_ToUser_ExpandsBooks(t *testing.T) {
	userID := primitive.NewObjectID()
	bookID := primitive.NewObjectID()

	doc := UserDocument{
		ID:    userID,
		Name:  "Ada",
		Age:   36,
		Email: "ada@example.com",
		Books: []primitive.ObjectID{bookID},
	}
	books := []Book{{ID: bookID.Hex(), Title: "Notes", Pages: 101}}

	user := doc.ToUser(books)

	if user.ID != userID.Hex() {
		t.Errorf("expected ID %s, got %s", userID.Hex(), user.ID)
	}
	if len(user.Books) != 1 || user.Books[0].ID != bookID.Hex() {
		t.Errorf("expected expanded book %s, got %+v", bookID.Hex(), user.Books)
	}
}

func TestUserDocument_ToUser_NilBooksSerializesAsEmptyList(t *testing.T) {
	doc := UserDocument{
		ID:    primitive.NewObjectID(),
		Name:  "Grace",
		Age:   45,
		Email: "grace@example.com",
	}

	user := doc.ToUser(nil)

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), `"books":null`) {
		t.Errorf("books must serialize as [], got %s", data)
	}
	if !strings.Contains(string(data), `"books":[]`) {
		t.Errorf("expected empty books list in %s", data)
	}
}
