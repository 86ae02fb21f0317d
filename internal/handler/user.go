package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookshelf/bookshelf/internal/handler/dto"
	"github.com/bookshelf/bookshelf/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /users. The optional name query filters by exact
// match; every user's book references are expanded.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	users, err := h.svc.ListUsers(r.Context(), name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /user. The name query is required.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	user, err := h.svc.GetUserByName(r.Context(), name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Create handles POST /user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	// Zero values count as missing, age=0 included. This mirrors the
	// original contract, odd as it is for ages.
	if req.Name == "" || req.Email == "" || req.Age == 0 {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), service.CreateUserInput{
		Name:  req.Name,
		Age:   req.Age,
		Email: req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, user)
}

// Update handles PUT /user. The user is matched on email; a books list,
// when present, must reference only existing books.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Age == 0 {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	err := h.svc.UpdateUser(r.Context(), service.UpdateUserInput{
		Name:  req.Name,
		Age:   req.Age,
		Email: req.Email,
		Books: req.Books,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_updated", "email", req.Email)

	writeText(w, http.StatusOK, StatusOK)
}

// Delete handles DELETE /user. The id query is required.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeText(w, http.StatusBadRequest, StatusBadRequest)
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)

	writeText(w, http.StatusOK, MsgUserDeleted)
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeText(w, http.StatusNotFound, MsgUserNotFound)
	case errors.Is(err, service.ErrBookNotFound):
		writeText(w, http.StatusNotFound, MsgBookNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		writeText(w, http.StatusConflict, MsgUserExists)
	case errors.Is(err, service.ErrInvalidID):
		writeText(w, http.StatusBadRequest, StatusBadRequest)
	default:
		h.logger.Error("internal_error", "error", err)
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
