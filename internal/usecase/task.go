package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/metrics"
	"github.com/abzalkhan/taskboard/internal/repository"
)

type TaskUsecase struct {
	repo repository.TaskRepository
}

func NewTaskUsecase(repo repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo}
}

type CreateTaskInput struct {
	UserID      string
	Title       string
	Description *string
	DueDate     *time.Time
}

func (u *TaskUsecase) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task := &domain.Task{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusPending,
		DueDate:     input.DueDate,
	}

	created, err := u.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	metrics.TasksCreatedTotal.Inc()
	return created, nil
}

// findOwned fetches the task and applies the ownership check: a missing task
// is ErrTaskNotFound, an existing task owned by someone else is
// ErrTaskForbidden. Every task operation goes through here.
func (u *TaskUsecase) findOwned(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskForbidden
	}
	return task, nil
}

func (u *TaskUsecase) GetTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	return u.findOwned(ctx, id, userID)
}

type ListTasksInput struct {
	UserID string
	Status domain.Status
	Cursor string
	Limit  int
}

type ListTasksResult struct {
	Tasks      []*domain.Task
	NextCursor *string
}

type taskCursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func decodeTaskCursor(s string) (*time.Time, string, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}
	var c taskCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, "", fmt.Errorf("unmarshal cursor: %w", err)
	}
	return &c.CreatedAt, c.ID, nil
}

func encodeTaskCursor(createdAt time.Time, id string) string {
	b, _ := json.Marshal(taskCursor{CreatedAt: createdAt, ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

// ErrBadCursor is returned for an unparseable pagination cursor.
var ErrBadCursor = fmt.Errorf("invalid pagination cursor")

func (u *TaskUsecase) ListTasks(ctx context.Context, input ListTasksInput) (ListTasksResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	repoInput := repository.ListTasksInput{
		UserID: input.UserID,
		Status: input.Status,
		Limit:  limit + 1,
	}

	if input.Cursor != "" {
		cursorTime, cursorID, err := decodeTaskCursor(input.Cursor)
		if err != nil {
			return ListTasksResult{}, ErrBadCursor
		}
		repoInput.CursorTime = cursorTime
		repoInput.CursorID = cursorID
	}

	tasks, err := u.repo.List(ctx, repoInput)
	if err != nil {
		return ListTasksResult{}, fmt.Errorf("list tasks: %w", err)
	}

	var nextCursor *string
	if len(tasks) == limit+1 {
		tasks = tasks[:limit]
		// Cursor on the last returned row; the next page resumes strictly
		// after it.
		last := tasks[limit-1]
		s := encodeTaskCursor(last.CreatedAt, last.ID)
		nextCursor = &s
	}

	return ListTasksResult{Tasks: tasks, NextCursor: nextCursor}, nil
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *domain.Status
}

func (u *TaskUsecase) UpdateTask(ctx context.Context, id, userID string, input UpdateTaskInput) (*domain.Task, error) {
	task, err := u.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		task.Status = *input.Status
	}

	updated, err := u.repo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (u *TaskUsecase) DeleteTask(ctx context.Context, id, userID string) error {
	if _, err := u.findOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ToggleTask flips the task between pending and completed.
func (u *TaskUsecase) ToggleTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := u.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	task.Toggle()

	updated, err := u.repo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return updated, nil
}
