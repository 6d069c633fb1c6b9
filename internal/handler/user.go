package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tdnguyen/user-api/internal/apperror"
	"github.com/tdnguyen/user-api/internal/service"
)

// UserHandler exposes the plain CRUD endpoints for user records.
//
// Handlers are thin adapters: extract path/body parameters, call the service,
// map the result (or error) to an HTTP response. No business rules here.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// userRequest is the body shape shared by create and update.
type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// HandleList returns all users.
//
// HTTP: GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("listing users failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleGetByID returns a single user, or null if the id has no record.
//
// HTTP: GET /api/users/{id}
//
// A missing id is not an error at this endpoint — the response is 200 with a
// null body, mirroring how the API has always behaved.
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		h.logger.Error("getting user failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleCreate inserts a user with the fields exactly as supplied.
//
// HTTP: POST /api/users
// BODY: {"username": ..., "password": ..., "email": ...}
//
// The password value is stored verbatim — callers of this administrative
// endpoint may supply a pre-computed hash. Self-service signup goes through
// /api/users/register, which hashes.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		h.logger.Error("creating user failed", slog.String("username", req.Username), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate replaces username, password and email for the given id.
//
// HTTP: PUT /api/users/{id}
// BODY: {"username": ..., "password": ..., "email": ...}
//
// Full-field replace, no partial updates. A missing id yields 200 null, same
// as HandleGetByID.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	user, err := h.users.Update(r.Context(), id, req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		h.logger.Error("updating user failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes the user with the given id.
//
// HTTP: DELETE /api/users/{id}
//
// The response is a confirmation message either way — deleting an id that is
// already gone is not an error worth surfacing to the client.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.users.Delete(r.Context(), id); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		h.logger.Error("deleting user failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// parseID extracts the {id} path parameter as an int64. On failure it writes
// a 400 response and returns ok=false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return 0, false
	}
	return id, true
}
