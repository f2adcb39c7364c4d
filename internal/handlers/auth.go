package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"cibn-digital-library/internal/middleware"
	"cibn-digital-library/internal/repositories"
	"cibn-digital-library/internal/response"
	"cibn-digital-library/internal/services"
)

// AuthHandler serves the CIBN member authentication endpoints.
type AuthHandler struct {
	auth     *services.AuthService
	validate *validator.Validate
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		validate: validator.New(),
	}
}

// LoginRequest is the POST /api/auth/cibn/login payload.
type LoginRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a member and returns a signed token plus the
// member record with password material stripped.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Member ID and password are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Member ID and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.MemberID, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("login failed", "member_id", req.MemberID, "error", err)
		response.Error(w, http.StatusInternalServerError, "An error occurred during authentication")
		return
	}

	response.Success(w, http.StatusOK, response.Envelope{
		"token": result.Token,
		"user":  result.Member,
	})
}

// Me returns the authenticated member's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		response.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	member, err := h.auth.CurrentMember(r.Context(), claims)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Member not found")
		return
	}

	response.Success(w, http.StatusOK, response.Envelope{"user": member})
}
