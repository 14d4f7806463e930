package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/closingmachines/leads-api/internal/auth"
	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/infra/http/middleware"
)

// UserReader is the slice of the user repository the auth endpoints need.
type UserReader interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type AuthHandler struct {
	Users    UserReader
	Sessions *auth.SessionManager
}

func NewAuthHandler(users UserReader, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	// Same response whether the email is unknown or the password is wrong.
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session := auth.Session{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
	}
	token, err := h.Sessions.Issue(session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, h.Sessions.Cookie(token))
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.Sessions.ClearCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session returns the current user for the session cookie; the SPA calls it
// on boot to restore state.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.Users.FindByID(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		// The account was deleted after the cookie was issued.
		http.SetCookie(w, h.Sessions.ClearCookie())
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
