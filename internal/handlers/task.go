package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// boardQuery reads ?status=&user=&q=&sort= into a normalized query.
func boardQuery(c *gin.Context) (services.TaskQuery, error) {
	return services.TaskQuery{
		Status:     models.TaskStatus(c.Query("status")),
		UserFilter: c.Query("user"),
		Search:     c.Query("q"),
		Sort:       services.SortMode(c.Query("sort")),
	}.Normalize()
}

// ListTasks returns one column of the board, filtered and sorted.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	q, err := boardQuery(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tasks, err := h.taskService.ListTasks(q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, q))
}

// StreamTasks pushes the same view as ListTasks after every task change.
func (h *TaskHandler) StreamTasks(c *gin.Context) {
	q, err := boardQuery(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	feed, err := h.taskService.WatchTasks(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer feed.Close()

	streamSnapshots(c, "tasks", feed.Updates(), func(tasks []models.Task) any {
		return dto.ToTaskListResponse(tasks, q)
	})
}

// GetTask returns the task loaded by RequireTask.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// priorityField accepts the legacy "priorities" key when "priority" is absent.
type priorityField struct {
	Priority   *int `json:"priority"`
	Priorities *int `json:"priorities"`
}

func (p priorityField) value() *int {
	if p.Priority != nil {
		return p.Priority
	}
	return p.Priorities
}

// CreateTask publishes a new to-do task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		priorityField
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	priority := constants.DefaultPriority
	if p := req.value(); p != nil {
		priority = *p
	}
	var deadline time.Time
	if req.Deadline != nil {
		deadline = *req.Deadline
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Deadline:    deadline,
		PublisherID: userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask edits title, description, priority and deadline.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		priorityField
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateTask(task.ID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.value(),
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// AssignTask makes a user responsible for the task.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type AssignUserRequest struct {
		UserID string `json:"user_id" binding:"required"`
	}

	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.AssignTask(task.ID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// UnassignTask moves the task back to the to-do column.
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	updated, err := h.taskService.UnassignTask(task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// MarkDone completes the task. Only its responsible user may do this.
func (h *TaskHandler) MarkDone(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	updated, err := h.taskService.MarkDone(task.ID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// GenerateTasks turns free text into task drafts using AI.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.GenerateTaskDrafts(c.Request.Context(), req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDraftDTOs(drafts),
	})
}
