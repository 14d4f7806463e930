package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/closingmachines/leads-api/internal/auth"
	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/infra/database"
	"github.com/closingmachines/leads-api/internal/infra/http/middleware"
	"github.com/closingmachines/leads-api/internal/infra/mail"
)

// AdminUserHandler manages other users' accounts; every route sits behind
// the admin middleware.
type AdminUserHandler struct {
	Users  *database.UserRepository
	Sender mail.Sender
	AppURL string
}

func NewAdminUserHandler(users *database.UserRepository, sender mail.Sender, appURL string) *AdminUserHandler {
	return &AdminUserHandler{Users: users, Sender: sender, AppURL: appURL}
}

func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminUserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type CreateUserRequest struct {
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	IsAdmin   bool    `json:"isAdmin"`
}

// Create provisions an account with a generated password and emails the
// credentials to the new user. The email is best effort; account creation
// succeeds either way.
func (h *AdminUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	password := auth.GenerateToken(8)
	hash, err := auth.HashPassword(password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := entity.NewUser(req.Email, hash, req.IsAdmin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := h.Users.Insert(r.Context(), user); err != nil {
		if err == entity.ErrEmailAlreadyExists {
			writeError(w, http.StatusConflict, "email already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	go h.sendCredentials(user, password)

	writeJSON(w, http.StatusCreated, user)
}

func (h *AdminUserHandler) sendCredentials(user *entity.User, password string) {
	name := ""
	if user.FirstName != nil {
		name = *user.FirstName
	}
	subject, html, err := mail.BuildCredentialsEmail(name, user.Email, password, h.AppURL)
	if err != nil {
		log.Printf("[MAIL] rendering credentials email for %s: %s", user.Email, err)
		return
	}
	if err := h.Sender.Send(context.Background(), user.Email, subject, html); err != nil {
		middleware.RecordMailError("credentials")
		log.Printf("[MAIL] sending credentials email to %s: %s", user.Email, err)
	}
}

type AdminUpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	IsAdmin   *bool   `json:"isAdmin"`
}

func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.Users.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.Email != nil && *req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := h.Users.Update(r.Context(), user); err != nil {
		if err == entity.ErrEmailAlreadyExists {
			writeError(w, http.StatusConflict, "email already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
