package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/httpx"
	"skillquest-server/internal/models"
)

type Handler struct {
	service *Service
	log     *zap.SugaredLogger
}

func NewHandler(service *Service, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, log: log}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message      string         `json:"message"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         models.UserDTO `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	for field, value := range map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	} {
		if strings.TrimSpace(value) == "" {
			httpx.Error(w, apperrors.MissingField(field))
			return
		}
	}

	user, tokens, err := h.service.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if apperrors.From(err).Code == apperrors.CodeInternal {
			h.log.Errorw("register failed", "email", req.Email, "err", err)
		}
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, authResponse{
		Message:      "user registered",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user.DTO(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Email == "" {
		httpx.Error(w, apperrors.MissingField("email"))
		return
	}
	if req.Password == "" {
		httpx.Error(w, apperrors.MissingField("password"))
		return
	}

	user, tokens, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		if apperrors.From(err).Code == apperrors.CodeInternal {
			h.log.Errorw("login failed", "email", req.Email, "err", err)
		}
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, authResponse{
		Message:      "login successful",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user.DTO(),
	})
}

// Refresh exchanges a refresh bearer token for a new access token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		httpx.Error(w, apperrors.Unauthorized("refresh token required"))
		return
	}

	access, err := h.service.Refresh(parts[1])
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"message":      "token refreshed",
		"access_token": access,
	})
}
