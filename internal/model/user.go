// Package model defines domain entities for the application.
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the API-facing shape of a user. Book references are expanded
// into full Book objects before serialization.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
	Books []Book `json:"books"`
}

// UserDocument is the persisted shape of a user. The identifier is a
// storage-native ObjectID and books holds raw references.
type UserDocument struct {
	ID    primitive.ObjectID   `bson:"_id,omitempty"`
	Name  string               `bson:"name"`
	Age   int                  `bson:"age"`
	Email string               `bson:"email"`
	Books []primitive.ObjectID `bson:"books"`
}

// ToUser maps a stored user to its API shape. The caller supplies the
// expanded books matching the document's reference list; a nil slice
// serializes as an empty list, never null.
func (d *UserDocument) ToUser(books []Book) User {
	if books == nil {
		books = []Book{}
	}
	return User{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		Age:   d.Age,
		Email: d.Email,
		Books: books,
	}
}
