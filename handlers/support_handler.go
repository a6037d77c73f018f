package handlers

import (
	"net/http"

	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/services"
)

type SupportHandler struct {
	supportService services.SupportService
}

func NewSupportHandler(supportService services.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

func (h *SupportHandler) SendTicket(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ticket, err := h.supportService.SendTicket(r.Context(), caller, input.Subject, input.Message)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"ticket": ticket}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
