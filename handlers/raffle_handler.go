package handlers

import (
	"errors"
	"net/http"

	"github.com/fgcbrasil/platform-backend/services"
)

type RaffleHandler struct {
	raffleService services.RaffleService
}

func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{raffleService: raffleService}
}

func (h *RaffleHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	raffle, err := h.raffleService.GetCurrent(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"raffle": raffle}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddParticipant выдает следующий последовательный номер билета.
func (h *RaffleHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PlayerID int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PlayerID <= 0 {
		badRequestResponse(w, r, errors.New("player_id is required"))
		return
	}

	ticketNumber, err := h.raffleService.AddParticipant(r.Context(), input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"ticket_number": ticketNumber,
	}
	err = writeJSON(w, http.StatusCreated, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RaffleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.raffleService.Reset(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err := writeJSON(w, http.StatusOK, jsonResponse{"message": "raffle reset"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
