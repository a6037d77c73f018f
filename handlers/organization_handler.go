package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/services"
	"github.com/go-chi/chi/v5"
)

type OrganizationHandler struct {
	orgService services.OrganizationService
}

func NewOrganizationHandler(orgService services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func organizationIDFromURL(r *http.Request) (int, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid organization ID")
	}
	return id, nil
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"organizations": orgs}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OrganizationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := organizationIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	org, err := h.orgService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"organization": org}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := organizationIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateOrganizationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Name == "" {
		badRequestResponse(w, r, errors.New("organization name is required"))
		return
	}

	org, err := h.orgService.Update(r.Context(), caller, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"organization": org}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OrganizationHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := organizationIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = r.ParseMultipartForm(32 << 20)
	if err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}

	file, header, err := r.FormFile("logo") // "logo" - имя поля в форме
	if err != nil {
		badRequestResponse(w, r, errors.New("logo file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.orgService.UploadLogo(r.Context(), caller, id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"image_url": url}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
