package post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"bookclub/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// List handles GET /posts?category=&cursor=&direction=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	direction := Direction(query.Get("direction"))
	if direction != DirectionPrev {
		direction = DirectionNext
	}

	page, err := h.service.ListPage(r.Context(), Category(query.Get("category")), query.Get("cursor"), direction)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Unknown category")
			return
		}
		// Reads favor availability: degrade to the empty page shape,
		// but say so instead of passing it off as a real empty feed.
		h.log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("post feed query failed")
		httpx.JSONSuccess(w, r, Page{IsFirstPage: true}, map[string]interface{}{"degraded": true})
		return
	}
	httpx.JSONSuccess(w, r, page, nil)
}

type writeRequest struct {
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	Category Category      `json:"category"`
	Book     *BookSnapshot `json:"book,omitempty"`
}

// Create handles POST /posts
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	p, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), CreateInput(req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, p)
}

// Get handles GET /posts/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, summary, nil)
}

// Update handles PUT /posts/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	p, err := h.service.Update(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), CreateInput(req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, p, nil)
}

// Delete handles DELETE /posts/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Post not found")
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "forbidden", "Only the author may do this")
	case errors.Is(err, ErrInvalidCategory):
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Unknown category")
	case errors.Is(err, ErrInvalidInput):
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Title and body are required")
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
