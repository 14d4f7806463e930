package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/closingmachines/leads-api/internal/infra/database"
	"github.com/closingmachines/leads-api/internal/infra/http/middleware"
	"github.com/closingmachines/leads-api/internal/infra/storage"
)

const maxAvatarSize = 5 << 20

var allowedAvatarTypes = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type AvatarHandler struct {
	Users *database.UserRepository
	Store *storage.AvatarStore
}

func NewAvatarHandler(users *database.UserRepository, store *storage.AvatarStore) *AvatarHandler {
	return &AvatarHandler{Users: users, Store: store}
}

// Upload stores the avatar in S3 and persists its URL on the user. Users
// may only change their own avatar; admins may change anyone's.
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	userID := chi.URLParam(r, "id")
	if userID == "" {
		userID = session.UserID
	}
	if userID != session.UserID && !session.IsAdmin {
		writeError(w, http.StatusForbidden, "cannot change another user's avatar")
		return
	}

	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarTypes[ext] {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.Store.Upload(r.Context(), userID, "avatar"+ext, contentType, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Users.UpdateAvatar(r.Context(), userID, url); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatarUrl": url})
}
