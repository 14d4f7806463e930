package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/closingmachines/leads-api/internal/infra/database"
	"github.com/closingmachines/leads-api/internal/infra/http/middleware"
	"github.com/closingmachines/leads-api/internal/usecase"
)

// 20 MB is far above any real Meta export.
const maxImportSize = 20 << 20

// LeadImporter runs one CSV import end to end.
type LeadImporter interface {
	Execute(ctx context.Context, fileText, importID string) (*usecase.ImportOutput, error)
}

type ImportHandler struct {
	Importer LeadImporter
	Leads    *database.LeadRepository
}

func NewImportHandler(importer LeadImporter, leads *database.LeadRepository) *ImportHandler {
	return &ImportHandler{Importer: importer, Leads: leads}
}

// Import accepts a multipart upload with a "file" part and an optional
// "importId" field; without one a fresh id is generated.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	importID := r.FormValue("importId")
	if importID == "" {
		importID = uuid.New().String()
	}

	out, err := h.Importer.Execute(r.Context(), string(data), importID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordImport(out.Created, out.Updated, out.Rows-out.Created-out.Updated)
	writeJSON(w, http.StatusOK, out)
}

type ImportStatusResponse struct {
	ImportID string `json:"importId"`
	Leads    int    `json:"leads"`
}

// Status reports how many leads an import run has written since the upload
// began (RFC3339 "startedAt" query param, default last hour).
func (h *ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	importID := r.URL.Query().Get("importId")
	if importID == "" {
		writeError(w, http.StatusBadRequest, "importId is required")
		return
	}

	since := time.Now().Add(-time.Hour)
	if v := r.URL.Query().Get("startedAt"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "startedAt must be RFC3339")
			return
		}
		since = parsed
	}

	n, err := h.Leads.CountByImportSince(r.Context(), importID, since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, ImportStatusResponse{ImportID: importID, Leads: n})
}
