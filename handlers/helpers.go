package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fgcbrasil/platform-backend/services" // Импортируем для маппинга ошибок сервисов
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}

	return nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	err := writeJSON(w, status, env, nil)
	if err != nil {
		fmt.Printf("Error writing error JSON response: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fmt.Printf("Internal server error: %v\n", err)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

func serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusServiceUnavailable, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Ресурс не найден
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFanNotFound),
		errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrChampionshipNotFound),
		errors.Is(err, services.ErrRaffleNotFound),
		errors.Is(err, services.ErrMissionNotFound):
		notFoundResponse(w, r)

	// Конфликты (в т.ч. защита от повторной финализации)
	case errors.Is(err, services.ErrChampionshipAlreadyFinalized),
		errors.Is(err, services.ErrAuthEmailTaken),
		errors.Is(err, services.ErrMissionCompleted):
		conflictResponse(w, r, err.Error())

	// Невалидные данные / бизнес-правила
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrAmountNotPositive),
		errors.Is(err, services.ErrSponsorNameRequired),
		errors.Is(err, services.ErrChampionshipNoPool),
		errors.Is(err, services.ErrPlacementInvalid),
		errors.Is(err, services.ErrPlacementRankInvalid):
		badRequestResponse(w, r, err)

	// Ошибки авторизации/доступа
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrFinalizeForbidden),
		errors.Is(err, services.ErrNoOrganization):
		forbiddenResponse(w, r, err.Error())

	// Транзиентные ошибки хранилища: запрос можно повторить
	case errors.Is(err, services.ErrStoreContention):
		serviceUnavailableResponse(w, r, err.Error())

	// Непредвиденные ошибки / ошибки по умолчанию
	default:
		serverErrorResponse(w, r, err)
	}
}
