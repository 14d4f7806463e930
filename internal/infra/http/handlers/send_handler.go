package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/closingmachines/leads-api/internal/infra/http/middleware"
	"github.com/closingmachines/leads-api/internal/usecase"
)

// ClubLeadSender groups leads by club and queues their dispatch emails.
type ClubLeadSender interface {
	Execute(ctx context.Context, input usecase.SendClubLeadsInput) (*usecase.SendClubLeadsOutput, error)
}

type SendHandler struct {
	Sender ClubLeadSender
}

func NewSendHandler(sender ClubLeadSender) *SendHandler {
	return &SendHandler{Sender: sender}
}

func (h *SendHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendClubLeadsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	out, err := h.Sender.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordClubLeadsQueued(input.Target, out.Queued)
	writeJSON(w, http.StatusOK, out)
}
