package handler

import (
	"net/http"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/service"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/httputil"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// AuthHandler exposes registration, login, token refresh and the
// current-user endpoint
type AuthHandler struct {
	service *service.AuthService
	logger  *logger.Logger
}

func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: log}
}

// Register creates an account and returns it with a fresh token pair
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := httputil.DecodeValid(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	response, err := h.service.Register(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, response)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeValid(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, response)
}

// Refresh exchanges a valid refresh token for a new token pair
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := httputil.DecodeValid(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, tokens)
}

// Me returns the account behind the presented access token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())
	if userID == "" {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}
