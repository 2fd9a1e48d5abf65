package repository

import (
	"context"
	"time"

	"github.com/abzalkhan/taskboard/internal/domain"
)

type ListTasksInput struct {
	UserID     string
	Status     domain.Status // empty = all statuses
	CursorTime *time.Time    // nil = first page
	CursorID   string        // used only when CursorTime is non-nil
	Limit      int
}

// DueTask is a task whose reminder is being sent, joined with the owner's
// email so the dispatcher does not need a second lookup per task.
type DueTask struct {
	Task       *domain.Task
	OwnerEmail string
}

// TaskRepository persists tasks.
//
// GetByID fetches by primary key regardless of owner: the usecase decides
// between not-found and forbidden, which must stay distinguishable.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, input ListTasksInput) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error

	// ClaimDueReminders atomically marks pending tasks due before cutoff as
	// reminded and returns them with their owners' emails. Safe to call from
	// multiple dispatcher replicas.
	ClaimDueReminders(ctx context.Context, cutoff time.Time, limit int) ([]*DueTask, error)
}
