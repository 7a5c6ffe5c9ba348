package auth

import (
	"encoding/json"
	"net/http"

	"bookclub/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SignUp handles POST /auth/signup
func (h *HTTPHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	tokens, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, tokens)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /auth/signin
func (h *HTTPHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	tokens, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, tokens, nil)
}

type googleSignInRequest struct {
	IDToken string `json:"id_token"`
}

// SignInWithGoogle handles POST /auth/google
func (h *HTTPHandler) SignInWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "id_token is required")
		return
	}

	tokens, err := h.service.SignInWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, tokens, nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh
func (h *HTTPHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "refresh_token is required")
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, tokens, nil)
}

// SignOut handles POST /auth/signout
func (h *HTTPHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "refresh_token is required")
		return
	}

	if err := h.service.SignOut(r.Context(), req.RefreshToken); err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Sign out failed")
		return
	}
	httpx.JSONNoContent(w)
}

func (h *HTTPHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if coded, ok := AsCoded(err); ok {
		status := http.StatusBadRequest
		switch coded {
		case ErrEmailAlreadyInUse:
			status = http.StatusConflict
		case ErrInvalidCredential:
			status = http.StatusUnauthorized
		}
		httpx.JSONError(w, r, status, coded.Code, coded.Message)
		return
	}
	if err == ErrUnauthorized {
		httpx.JSONError(w, r, http.StatusUnauthorized, "unauthorized", "Invalid or expired session")
		return
	}
	httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
}
