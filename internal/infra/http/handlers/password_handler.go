package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/closingmachines/leads-api/internal/auth"
	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/infra/database"
	"github.com/closingmachines/leads-api/internal/infra/http/middleware"
	"github.com/closingmachines/leads-api/internal/infra/mail"
)

const resetTokenTTL = time.Hour

// PasswordHandler implements the forgot-password flow.
type PasswordHandler struct {
	Users  *database.UserRepository
	Tokens *database.TokenRepository
	Sender mail.Sender
	AppURL string
}

func NewPasswordHandler(users *database.UserRepository, tokens *database.TokenRepository, sender mail.Sender, appURL string) *PasswordHandler {
	return &PasswordHandler{Users: users, Tokens: tokens, Sender: sender, AppURL: appURL}
}

type RequestResetRequest struct {
	Email string `json:"email"`
}

// RequestReset always answers 200 so the endpoint does not leak which
// emails have accounts.
func (h *PasswordHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req RequestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user != nil {
		token := auth.GenerateToken(32)
		if err := h.Tokens.DeleteForUser(r.Context(), user.ID); err != nil {
			log.Printf("[AUTH] clearing old reset tokens for %s: %s", user.ID, err)
		}
		if err := h.Tokens.Insert(r.Context(), entity.NewPasswordResetToken(token, user.ID, resetTokenTTL)); err != nil {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		go h.sendResetEmail(user, token)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PasswordHandler) sendResetEmail(user *entity.User, token string) {
	name := ""
	if user.FirstName != nil {
		name = *user.FirstName
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.AppURL, token)
	subject, html, err := mail.BuildPasswordResetEmail(name, resetURL)
	if err != nil {
		log.Printf("[MAIL] rendering reset email for %s: %s", user.Email, err)
		return
	}
	if err := h.Sender.Send(context.Background(), user.Email, subject, html); err != nil {
		middleware.RecordMailError("password_reset")
		log.Printf("[MAIL] sending reset email to %s: %s", user.Email, err)
	}
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Token == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "token and a password of at least 8 characters are required")
		return
	}

	token, err := h.Tokens.FindByToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if token == nil || token.Expired() {
		writeError(w, http.StatusBadRequest, "invalid or expired token")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), token.UserID, hash); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	// Single use.
	if err := h.Tokens.Delete(r.Context(), token.ID); err != nil {
		log.Printf("[AUTH] deleting used reset token: %s", err)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
