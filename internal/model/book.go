package model

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is the API-facing shape of a book.
type Book struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

// BookDocument is the persisted shape of a book.
type BookDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Title string             `bson:"title"`
	Pages int                `bson:"pages"`
}

// ToBook maps a stored book to its API shape.
func (d *BookDocument) ToBook() Book {
	return Book{
		ID:    d.ID.Hex(),
		Title: d.Title,
		Pages: d.Pages,
	}
}

// CachedBook represents book data stored in Redis.
// Uses string types for Redis hash compatibility.
type CachedBook struct {
	Title string `redis:"title"`
	Pages string `redis:"pages"`
}

// ToBook converts CachedBook to the Book domain model. The identifier
// is not stored in the hash, so the caller supplies it.
func (c *CachedBook) ToBook(id string) Book {
	book := Book{
		ID:    id,
		Title: c.Title,
	}
	if c.Pages != "" {
		if pages, err := strconv.Atoi(c.Pages); err == nil {
			book.Pages = pages
		}
	}
	return book
}

// ToCachedBook converts a Book to its Redis hash representation.
func (b *Book) ToCachedBook() *CachedBook {
	return &CachedBook{
		Title: b.Title,
		Pages: strconv.Itoa(b.Pages),
	}
}
