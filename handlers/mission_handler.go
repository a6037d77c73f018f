package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/services"
	"github.com/go-chi/chi/v5"
)

type MissionHandler struct {
	missionService services.MissionService
}

func NewMissionHandler(missionService services.MissionService) *MissionHandler {
	return &MissionHandler{missionService: missionService}
}

func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	missions, err := h.missionService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"missions": missions}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MissionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	idStr := chi.URLParam(r, "id")
	missionID, err := strconv.Atoi(idStr)
	if err != nil || missionID <= 0 {
		badRequestResponse(w, r, errors.New("invalid mission ID"))
		return
	}

	reward, err := h.missionService.Complete(r.Context(), caller.ID, missionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"mission_id": missionID,
		"xp_awarded": reward,
	}
	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
