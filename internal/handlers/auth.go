package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	gateway *auth.Gateway
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(gateway *auth.Gateway) *AuthHandler {
	return &AuthHandler{gateway: gateway}
}

func clientInfo(r *http.Request) auth.ClientInfo {
	return auth.ClientInfo{UserAgent: r.UserAgent(), IPAddress: middleware.ClientIP(r)}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		respondError(w, err, nil)
		return
	}

	resp, err := h.gateway.SignIn(r.Context(), loginReq.Email, loginReq.Password, clientInfo(r))
	if err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq models.RegisterRequest
	if err := decodeJSON(r, &registerReq); err != nil {
		respondError(w, err, nil)
		return
	}

	resp, err := h.gateway.SignUp(r.Context(), registerReq, clientInfo(r))
	if err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// Logout closes the caller's open sessions
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	h.gateway.SignOut(r.Context(), claims)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Signed out successfully"})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	user, err := h.gateway.Profile(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	var updateReq struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := decodeJSON(r, &updateReq); err != nil {
		respondError(w, err, nil)
		return
	}

	user, err := h.gateway.UpdateProfile(r.Context(), claims.UserID, updateReq.FullName, updateReq.Phone)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	var passwordReq struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &passwordReq); err != nil {
		respondError(w, err, nil)
		return
	}
	if passwordReq.CurrentPassword == "" || passwordReq.NewPassword == "" {
		respondError(w, apperr.Invalid("", "Current password and new password are required"), nil)
		return
	}

	if err := h.gateway.ChangePassword(r.Context(), claims.UserID, passwordReq.CurrentPassword, passwordReq.NewPassword); err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// ListUsers returns every account
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.gateway.ListUsers(r.Context())
	if err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
