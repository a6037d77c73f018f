package handlers

import (
	"errors"
	"net/http"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rankingService services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

func (h *RankingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rankingService.Get(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"ranking": ranking}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.rankingService.GetConfig(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"config": cfg}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var input models.RankingConfig
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.MinXPPlayers < 0 || input.MinXPFans < 0 {
		badRequestResponse(w, r, errors.New("minimum XP thresholds must not be negative"))
		return
	}

	if err := h.rankingService.SetConfig(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err := writeJSON(w, http.StatusOK, jsonResponse{"config": input}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetAllXP обнуляет счета всех пользователей. Только глобальный
// администратор (ограничение навешивается в роутере).
func (h *RankingHandler) ResetAllXP(w http.ResponseWriter, r *http.Request) {
	affected, err := h.rankingService.ResetAllXP(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message":        "ranking reset",
		"users_affected": affected,
	}
	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
