package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	uc     *usecase.TaskUsecase
	logger *slog.Logger
}

func NewTaskHandler(uc *usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{uc: uc, logger: logger.With("component", "task_handler")}
}

type createTaskRequest struct {
	Title       string     `json:"title"       binding:"required,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	DueDate     *time.Time `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string        `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string        `json:"description" binding:"omitempty,max=2000"`
	DueDate     *time.Time     `json:"due_date"`
	Status      *domain.Status `json:"status"      binding:"omitempty,oneof=pending completed"`
}

type taskResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Status      domain.Status `json:"status"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	var req createTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.uc.CreateTask(ctx.Request.Context(), usecase.CreateTaskInput{
		UserID:      ctx.GetString("userID"),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.logger.ErrorContext(ctx.Request.Context(), "create task", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) List(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	result, err := h.uc.ListTasks(ctx.Request.Context(), usecase.ListTasksInput{
		UserID: ctx.GetString("userID"),
		Status: domain.Status(ctx.Query("status")),
		Cursor: ctx.Query("cursor"),
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrBadCursor) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": errBadCursor})
			return
		}
		h.logger.ErrorContext(ctx.Request.Context(), "list tasks", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	items := make([]taskResponse, len(result.Tasks))
	for i, t := range result.Tasks {
		items[i] = toTaskResponse(t)
	}
	ctx.JSON(http.StatusOK, gin.H{
		"tasks":       items,
		"next_cursor": result.NextCursor,
	})
}

func (h *TaskHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	task, err := h.uc.GetTask(ctx.Request.Context(), id, ctx.GetString("userID"))
	if err != nil {
		h.respondTaskError(ctx, "get task", id, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req updateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.uc.UpdateTask(ctx.Request.Context(), id, ctx.GetString("userID"), usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		h.respondTaskError(ctx, "update task", id, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Toggle(ctx *gin.Context) {
	id := ctx.Param("id")

	task, err := h.uc.ToggleTask(ctx.Request.Context(), id, ctx.GetString("userID"))
	if err != nil {
		h.respondTaskError(ctx, "toggle task", id, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := h.uc.DeleteTask(ctx.Request.Context(), id, ctx.GetString("userID")); err != nil {
		h.respondTaskError(ctx, "delete task", id, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// respondTaskError maps the ownership-guard outcomes: a missing task is 404,
// an existing task owned by someone else is 403.
func (h *TaskHandler) respondTaskError(ctx *gin.Context, op, taskID string, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
	case errors.Is(err, domain.ErrTaskForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": errTaskForbidden})
	default:
		h.logger.ErrorContext(ctx.Request.Context(), op, "task_id", taskID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
