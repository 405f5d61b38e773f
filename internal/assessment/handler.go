package assessment

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
		h.log.Errorw("assessment handler error", "path", r.URL.Path, "err", err)
	}
	httpx.Error(w, err)
}

func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Questions()
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

type submitRequest struct {
	Responses map[string]int `json:"responses"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	var req submitRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if len(req.Responses) == 0 {
		httpx.Error(w, apperrors.MissingField("responses"))
		return
	}

	result, err := h.service.Submit(userID, req.Responses)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "assessment submitted",
		"assessment": result,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	history, err := h.service.History(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"assessments": history})
}
