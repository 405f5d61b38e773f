package instructor

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/auth"
	"skillquest-server/internal/httpx"
	"skillquest-server/pkg/websocket"
)

type Handler struct {
	service   *Service
	hub       *websocket.Hub
	jwtSecret string
	log       *zap.SugaredLogger
}

func NewHandler(service *Service, hub *websocket.Hub, jwtSecret string, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, hub: hub, jwtSecret: jwtSecret, log: log}
}

func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.From(err).Code == apperrors.CodeInternal {
		h.log.Errorw("instructor handler error", "path", r.URL.Path, "err", err)
	}
	httpx.Error(w, err)
}

func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid id")
	}
	return uint(id), nil
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	dashboard, err := h.service.Dashboard(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func (h *Handler) Classes(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	classes, err := h.service.Classes(userID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"classes": classes})
}

type createClassRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	var req createClassRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpx.Error(w, apperrors.MissingField("name"))
		return
	}

	class, err := h.service.CreateClass(userID, req.Name, req.Description)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "class created",
		"class":   class,
	})
}

func (h *Handler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var update ClassUpdate
	if err := httpx.Decode(r, &update); err != nil {
		httpx.Error(w, err)
		return
	}

	class, err := h.service.UpdateClass(userID, id, update)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "class updated",
		"class":   class,
	})
}

func (h *Handler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.service.DeleteClass(userID, id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "class deleted"})
}

func (h *Handler) ClassStudents(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	class, students, err := h.service.ClassStudents(userID, id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"class":    class.Summary(),
		"students": students,
	})
}

func (h *Handler) ClassReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	report, err := h.service.ClassReport(userID, id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	var input ChallengeInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, err)
		return
	}
	for field, value := range map[string]string{
		"title":          input.Title,
		"description":    input.Description,
		"practical_task": input.PracticalTask,
	} {
		if strings.TrimSpace(value) == "" {
			httpx.Error(w, apperrors.MissingField(field))
			return
		}
	}
	if len(input.Questions) == 0 {
		httpx.Error(w, apperrors.MissingField("questions"))
		return
	}

	challenge, err := h.service.CreateChallenge(userID, input)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "challenge created",
		"challenge": challenge.DTO(true),
	})
}

func (h *Handler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var update ChallengeUpdate
	if err := httpx.Decode(r, &update); err != nil {
		httpx.Error(w, err)
		return
	}

	challenge, err := h.service.UpdateChallenge(userID, id, update)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message":   "challenge updated",
		"challenge": challenge.DTO(true),
	})
}

func (h *Handler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.service.DeleteChallenge(userID, id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "challenge deleted"})
}

// ClassFeed upgrades an owning instructor onto the live activity feed for a
// class. Browsers cannot set headers on websocket dials, so the access token
// arrives as a query parameter.
func (h *Handler) ClassFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.Error(w, apperrors.Unauthorized("token required"))
		return
	}
	userID, err := auth.ParseAccessToken(token, h.jwtSecret)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.service.OwnsClass(userID, id); err != nil {
		h.respondErr(w, r, err)
		return
	}

	if err := h.hub.Subscribe(id, w, r); err != nil {
		h.log.Warnw("websocket upgrade failed", "class_id", id, "err", err)
	}
}
