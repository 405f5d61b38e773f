package challenge

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
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
		h.log.Errorw("challenge handler error", "path", r.URL.Path, "err", err)
	}
	httpx.Error(w, err)
}

func challengeID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid challenge id")
	}
	return uint(id), nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	challenges, err := h.service.List(userID, r.URL.Query().Get("status"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := challengeID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	challenge, err := h.service.Get(userID, id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"challenge": challenge})
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	challenge, err := h.service.Featured(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"challenge": challenge})
}

func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	id, err := challengeID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	questions, err := h.service.Questions(id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := challengeID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	result, created, err := h.service.Start(userID, id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	status := http.StatusOK
	message := "challenge already started"
	if created {
		status = http.StatusCreated
		message = "challenge started"
	}
	httpx.JSON(w, status, map[string]interface{}{
		"message": message,
		"result":  result,
	})
}

type submitQuizRequest struct {
	Answers   map[string]int `json:"answers"`
	Practical string         `json:"practical_answer"`
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := challengeID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req submitQuizRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Answers == nil {
		httpx.Error(w, apperrors.MissingField("answers"))
		return
	}

	outcome, err := h.service.SubmitQuiz(userID, id, req.Answers, req.Practical)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "answers submitted",
		"result":  outcome,
	})
}

func (h *Handler) QuizResult(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := challengeID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	outcome, err := h.service.QuizResult(userID, id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, outcome)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := challengeID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	result, completed, err := h.service.Complete(userID, id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	message := "challenge already completed"
	if completed {
		message = "challenge completed"
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"result":  result,
	})
}
