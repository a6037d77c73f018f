package handlers

import (
	"errors"
	"net/http"

	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/services"
)

type ContributionHandler struct {
	contributionService services.ContributionService
}

func NewContributionHandler(contributionService services.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// Contribute регистрирует денежный вклад текущего болельщика.
func (h *ContributionHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	if caller.Role != models.RoleFan {
		forbiddenResponse(w, r, "only fans can contribute")
		return
	}

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contribution, err := h.contributionService.Contribute(r.Context(), caller.ID, input.Amount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"contribution": contribution}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContributionHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.contributionService.Total(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"total": total}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContributionHandler) RegisterDonation(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterDonationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	switch input.Type {
	case models.DonationCorporate, models.DonationFan:
	default:
		badRequestResponse(w, r, errors.New("donation type must be 'corporate' or 'fan'"))
		return
	}

	donation, err := h.contributionService.RegisterDonation(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"donation": donation}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
