package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/services"
	"github.com/go-chi/chi/v5"
)

type ChampionshipHandler struct {
	champService    services.ChampionshipService
	finalizeService services.FinalizeService
}

func NewChampionshipHandler(
	champService services.ChampionshipService,
	finalizeService services.FinalizeService,
) *ChampionshipHandler {
	return &ChampionshipHandler{
		champService:    champService,
		finalizeService: finalizeService,
	}
}

func championshipIDFromURL(r *http.Request) (int, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid championship ID")
	}
	return id, nil
}

func (h *ChampionshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateChampionshipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Name == "" {
		badRequestResponse(w, r, errors.New("championship name is required"))
		return
	}

	champ, err := h.champService.Create(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"championship": champ}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := championshipIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	champ, err := h.champService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"championship": champ}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine возвращает чемпионаты, видимые вызывающему: все для глобального
// администратора, свои — для организатора.
func (h *ChampionshipHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	champs, err := h.champService.ListForCaller(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"championships": champs}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	orgID, err := strconv.Atoi(idStr)
	if err != nil || orgID <= 0 {
		badRequestResponse(w, r, errors.New("invalid organization ID"))
		return
	}

	champs, err := h.champService.ListByOrganization(r.Context(), orgID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"championships": champs}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FinalizeStandard закрывает чемпионат по фиксированной таблице долей XP.
func (h *ChampionshipHandler) FinalizeStandard(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := championshipIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StandardFinalizeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	xpDistributed, err := h.finalizeService.FinalizeStandard(r.Context(), id, caller.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"championship_id": id,
		"status":          "finalized",
		"xp_distributed":  xpDistributed,
	}
	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FinalizeCustom закрывает чемпионат с явными значениями XP из запроса.
func (h *ChampionshipHandler) FinalizeCustom(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := championshipIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CustomFinalizeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	xpDistributed, err := h.finalizeService.FinalizeCustom(r.Context(), id, caller.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"championship_id": id,
		"status":          "finalized",
		"xp_distributed":  xpDistributed,
	}
	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
