package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookshelf/bookshelf/internal/handler/dto"
	"github.com/bookshelf/bookshelf/internal/service"
)

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	svc    *service.BookService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /books. The optional title query filters by exact
// match.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	books, err := h.svc.ListBooks(r.Context(), title)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// Get handles GET /book. The id query is required.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	book, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Create handles POST /book.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	// pages=0 is rejected as missing, same zero-value rule as users.
	if req.Title == "" || req.Pages == 0 {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	book, err := h.svc.CreateBook(r.Context(), service.CreateBookInput{
		Title: req.Title,
		Pages: req.Pages,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_created", "book_id", book.ID)

	writeJSON(w, http.StatusCreated, book)
}

// Update handles PUT /book.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	if req.ID == "" || req.Title == "" || req.Pages == 0 {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	err := h.svc.UpdateBook(r.Context(), service.UpdateBookInput{
		ID:    req.ID,
		Title: req.Title,
		Pages: req.Pages,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_updated", "book_id", req.ID)

	writeText(w, http.StatusOK, StatusOK)
}

// Delete handles DELETE /book. The id query is required. On success the
// identifier is also detached from every user's book list.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	if err := h.svc.DeleteBook(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_deleted", "book_id", id)

	writeText(w, http.StatusOK, MsgBookDeleted)
}

// handleServiceError maps service errors to HTTP responses.
func (h *BookHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		writeText(w, http.StatusNotFound, MsgBookNotFound)
	case errors.Is(err, service.ErrTitleTaken):
		writeText(w, http.StatusConflict, MsgBookExists)
	case errors.Is(err, service.ErrInvalidID):
		writeText(w, http.StatusBadRequest, StatusBadRequest)
	default:
		h.logger.Error("internal_error", "error", err)
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
