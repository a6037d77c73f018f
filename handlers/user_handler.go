package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/services"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"user": caller}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		badRequestResponse(w, r, errors.New("invalid user ID"))
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, models.RolePlayer)
}

func (h *UserHandler) ListFans(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, models.RoleFan)
}

func (h *UserHandler) listByRole(w http.ResponseWriter, r *http.Request, role models.UserRole) {
	users, err := h.userService.ListByRole(r.Context(), role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.userService.UpdateProfile(r.Context(), caller, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"message": "profile updated"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	err = r.ParseMultipartForm(32 << 20) // 32MB
	if err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, errors.New("avatar file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.userService.UploadAvatar(r.Context(), caller, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"profile_image_url": url}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
