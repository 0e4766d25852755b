package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// Success messages returned in the response envelope.
const (
	MsgTasksRetrieved = "Tasks retrieved successfully"
	MsgTaskCreated    = "Task created successfully"
	MsgTaskRetrieved  = "Task retrieved successfully"
	MsgTaskCompleted  = "Task marked as completed"
	MsgTaskDeleted    = "Task deleted successfully"
	MsgStatsRetrieved = "Task statistics retrieved successfully"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Routes registers the task endpoints on r.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListRecentTasks)
	r.Post("/", h.CreateTask)
	r.Get("/all", h.ListAllTasks)
	r.Get("/stats", h.GetStats)
	r.Get("/{id}", h.GetTask)
	r.Put("/{id}/complete", h.CompleteTask)
	r.Delete("/{id}", h.DeleteTask)
}

// ListRecentTasks handles GET /api/tasks requests
func (h *TaskHandler) ListRecentTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListRecentIncomplete(r.Context(), domain.MaxRecentTasks)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTasksRetrieved, tasksToResponse(tasks))
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid create task body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, MsgTaskCreated, taskToResponse(task))
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTaskRetrieved, taskToResponse(task))
}

// CompleteTask handles PUT /api/tasks/{id}/complete requests
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.CompleteTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTaskCompleted, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTaskDeleted, nil)
}

// ListAllTasks handles GET /api/tasks/all requests
func (h *TaskHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTasksRetrieved, tasksToResponse(tasks))
}

// GetStats handles GET /api/tasks/stats requests
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.taskService.CountIncomplete(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve task statistics")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, MsgStatsRetrieved, TaskStatsResponse{Incomplete: count})
}
