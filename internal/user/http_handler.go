package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bookclub/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Me handles GET /me
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Get(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	httpx.JSONSuccess(w, r, profile, nil)
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// Update handles PUT /me
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "display_name is required")
		return
	}

	profile, err := h.service.UpdateDisplayName(r.Context(), httpx.UserIDFrom(r), strings.TrimSpace(req.DisplayName))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	httpx.JSONSuccess(w, r, profile, nil)
}

// UploadPhoto handles POST /me/photo
func (h *HTTPHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Body must be an image")
		return
	}

	profile, err := h.service.UploadPhoto(r.Context(), httpx.UserIDFrom(r), r.Body, r.ContentLength, contentType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Photo upload failed")
		return
	}
	httpx.JSONSuccess(w, r, profile, nil)
}
