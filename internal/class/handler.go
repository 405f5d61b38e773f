package class

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/auth"
	"skillquest-server/internal/httpx"
)

type Handler struct {
	service *Service
	log     *zap.SugaredLogger
}

func NewHandler(service *Service, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.From(err).Code == apperrors.CodeInternal {
		h.log.Errorw("class handler error", "path", r.URL.Path, "err", err)
	}
	httpx.Error(w, err)
}

type joinRequest struct {
	Code string `json:"code"`
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	var req joinRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		httpx.Error(w, apperrors.MissingField("code"))
		return
	}

	joined, err := h.service.Join(userID, req.Code)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "joined class " + joined.Class.Name,
		"class":   joined.Class,
		"user":    joined.User,
	})
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	user, err := h.service.Leave(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "left class",
		"user":    user.DTO(),
	})
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	mine, err := h.service.Mine(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mine)
}
