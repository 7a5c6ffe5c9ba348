package comment

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookclub/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// ListByPost handles GET /posts/{id}/comments
func (h *HTTPHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListByPost(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	httpx.JSONSuccess(w, r, summaries, nil)
}

type createRequest struct {
	Body string `json:"body"`
}

// Create handles POST /posts/{id}/comments
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	c, err := h.service.Create(r.Context(), r.PathValue("id"), httpx.UserIDFrom(r), req.Body)
	if err != nil {
		if errors.Is(err, ErrEmptyBody) {
			httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Comment body is required")
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	httpx.JSONCreated(w, r, c)
}

// Delete handles DELETE /comments/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Comment not found")
		case errors.Is(err, ErrForbidden):
			httpx.JSONError(w, r, http.StatusForbidden, "forbidden", "Only the author may do this")
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
		}
		return
	}
	httpx.JSONNoContent(w)
}
