package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/sun1tar/tasklist-service/internal/middleware"
	"github.com/sun1tar/tasklist-service/internal/models"
	"github.com/sun1tar/tasklist-service/internal/repository"
	"github.com/sun1tar/tasklist-service/internal/service"
)

// Фиксированные тексты ошибок API
const (
	detailTaskNotFound  = "Task not found"
	detailInternalError = "internal server error"
)

const maxTitleLength = 100

type TaskHandler struct {
	taskService *service.TaskService
	logger      *logrus.Logger
}

func NewTaskHandler(ts *service.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: ts,
		logger:      logger,
	}
}

func (h *TaskHandler) logEntry(r *http.Request, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"component":  "http_handler",
		"handler":    handler,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

// currentOwnerID возвращает id владельца из контекста,
// 0 - однопользовательский режим
func currentOwnerID(r *http.Request) int {
	if user := middleware.GetCurrentUser(r.Context()); user != nil {
		return user.ID
	}
	return 0
}

// taskRequest - тело POST /tasks и PUT /tasks/{id}:
// обновление полностью заменяет все три поля
type taskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func (req *taskRequest) validate() string {
	if req.Title == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLength {
		return "title must be at most 100 characters"
	}
	return ""
}

type taskResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
}

func toTaskResponses(tasks []*models.Task) []taskResponse {
	result := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = toTaskResponse(t)
	}
	return result
}

// CreateTask обрабатывает POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "CreateTask")

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logEntry.WithError(err).Warn("invalid request body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		logEntry.Warn(msg)
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := h.taskService.Create(r.Context(), currentOwnerID(r), req.Title, req.Description, req.Completed)
	if err != nil {
		logEntry.WithError(err).Error("failed to create task")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	logEntry.WithField("task_id", task.ID).Info("task created")
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

// parseListQuery разбирает query-параметры completed/limit/offset
func parseListQuery(r *http.Request) (completed *bool, limit, offset *int, errMsg string) {
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, nil, "completed must be a boolean"
		}
		completed = &b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, nil, nil, "limit must be a non-negative integer"
		}
		limit = &n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, nil, nil, "offset must be a non-negative integer"
		}
		offset = &n
	}
	return completed, limit, offset, ""
}

// ListTasks обрабатывает GET /tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "ListTasks")

	completed, limit, offset, errMsg := parseListQuery(r)
	if errMsg != "" {
		logEntry.Warn(errMsg)
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	tasks, err := h.taskService.List(r.Context(), currentOwnerID(r), completed, limit, offset)
	if err != nil {
		logEntry.WithError(err).Error("failed to list tasks")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	logEntry.WithField("count", len(tasks)).Debug("tasks listed")
	writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

// GetTask обрабатывает GET /tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "GetTask")

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "task id must be an integer")
		return
	}

	task, err := h.taskService.GetByID(r.Context(), currentOwnerID(r), id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		logEntry.WithField("task_id", id).Warn("task not found")
		writeError(w, http.StatusNotFound, detailTaskNotFound)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to get task")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	logEntry.WithField("task_id", id).Debug("task retrieved")
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// UpdateTask обрабатывает PUT /tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "UpdateTask")

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "task id must be an integer")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logEntry.WithError(err).Warn("invalid request body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		logEntry.Warn(msg)
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := h.taskService.Update(r.Context(), currentOwnerID(r), id, req.Title, req.Description, req.Completed)
	if errors.Is(err, repository.ErrTaskNotFound) {
		logEntry.WithField("task_id", id).Warn("task not found for update")
		writeError(w, http.StatusNotFound, detailTaskNotFound)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to update task")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	logEntry.WithField("task_id", id).Info("task updated")
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// DeleteTask обрабатывает DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "DeleteTask")

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "task id must be an integer")
		return
	}

	err = h.taskService.Delete(r.Context(), currentOwnerID(r), id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		logEntry.WithField("task_id", id).Warn("task not found for deletion")
		writeError(w, http.StatusNotFound, detailTaskNotFound)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to delete task")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	logEntry.WithField("task_id", id).Info("task deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// Stats обрабатывает GET /tasks/stats
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "Stats")

	stats, err := h.taskService.Stats(r.Context(), currentOwnerID(r))
	if err != nil {
		logEntry.WithError(err).Error("failed to compute stats")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
