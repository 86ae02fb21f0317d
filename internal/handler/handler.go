// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
)

// Plain-text response bodies. These strings are part of the public
// contract and must not change.
const (
	StatusOK            = "OK"
	StatusBadRequest    = "Bad Request"
	MsgUserDeleted      = "User deleted"
	MsgBookDeleted      = "Book deleted"
	MsgEndpointNotFound = "Endpoint not found"
	MsgUserNotFound     = "User not found"
	MsgBookNotFound     = "Book not found"
	MsgUserExists       = "User already exist"
	MsgBookExists       = "Book already exist"
)

// Handler carries the route-table fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles requests outside the route table.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusNotFound, MsgEndpointNotFound)
}

// MethodNotAllowed mirrors NotFound. The route table is keyed on
// (method, path); anything outside it is an unknown endpoint, not a
// 405.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusNotFound, MsgEndpointNotFound)
}

// writeJSON writes a JSON response with the given status code. Encode
// failures are dropped; the status line and headers are already on the
// wire.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeText writes a plain-text response with the given status code.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
