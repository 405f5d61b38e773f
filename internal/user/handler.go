package user

import (
	"net/http"

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
		h.log.Errorw("user handler error", "path", r.URL.Path, "err", err)
	}
	httpx.Error(w, err)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	me, err := h.service.Me(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"user": me})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	var update ProfileUpdate
	if err := httpx.Decode(r, &update); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.service.UpdateProfile(userID, update)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "profile updated",
		"user":    user.DTO(),
	})
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	progress, err := h.service.Progress(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

func (h *Handler) ChallengeHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	history, err := h.service.ChallengeHistory(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

func (h *Handler) InitialTestStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	done, err := h.service.InitialTestDone(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"done": done})
}

func (h *Handler) CompleteInitialTest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	if err := h.service.CompleteInitialTest(userID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "initial test marked complete"})
}
