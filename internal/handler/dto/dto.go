// Package dto provides Data Transfer Objects for API requests.
package dto

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// UpdateUserRequest represents the request body for updating a user.
// Books distinguishes absent (nil, stored list kept) from present but
// empty (list cleared).
type UpdateUserRequest struct {
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Email string   `json:"email"`
	Books []string `json:"books"`
}

// CreateBookRequest represents the request body for creating a book.
type CreateBookRequest struct {
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

// UpdateBookRequest represents the request body for updating a book.
type UpdateBookRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Pages int    `json:"pages"`
}
