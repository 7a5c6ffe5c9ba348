package search

import (
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

// Search handles GET /search?q=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "q is required")
		return
	}

	results, err := h.service.Search(r.Context(), term)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Search failed")
		return
	}
	if results == nil {
		results = []Result{}
	}
	httpx.JSONSuccess(w, r, results, map[string]interface{}{"term": term})
}
