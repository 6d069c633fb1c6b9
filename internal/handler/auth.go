package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tdnguyen/user-api/internal/auth"
	"github.com/tdnguyen/user-api/internal/service"
)

// AuthHandler exposes the registration, login and profile endpoints.
//
// DEPENDENCY CHAIN:
//   - svc *service.AuthService → owns the register/login/profile flows
//
// Token validation is not done here — the RequireAuth middleware runs before
// HandleProfile and puts the authenticated user id in the request context.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// registerRequest is the body for POST /api/users/register.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// loginRequest is the body for POST /api/users/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account from plaintext credentials.
//
// HTTP: POST /api/users/register
// BODY: {"username": ..., "password": ..., "email": ...}
//
// Success: 201 {"message": "User registered successfully", "user": {...}}
// A taken username is the one client error this endpoint distinguishes: 400.
// The returned user object never includes the password hash.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		h.logger.Warn("registration failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin verifies credentials and returns a bearer token.
//
// HTTP: POST /api/users/login
// BODY: {"username": ..., "password": ...}
//
// Success: 200 {"token": "<jwt>"}
// Failure: 401 {"error": "Invalid credentials"} — identical for an unknown
// username and a wrong password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("login failed", slog.String("username", req.Username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleProfile returns the authenticated user's record.
//
// HTTP: GET /api/users/profile
// Auth: required — RequireAuth has already validated the bearer token and
// stored the user id in the request context.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "no token provided"})
		return
	}

	user, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		h.logger.Error("profile lookup failed", slog.Int64("userID", userID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
