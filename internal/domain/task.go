package domain

import (
	"errors"
	"time"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("task belongs to another user")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description *string // nil means no description
	Status      Status
	DueDate     *time.Time
	RemindedAt  *time.Time // set once the due-date reminder email went out

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Toggle flips the task between pending and completed.
func (t *Task) Toggle() {
	if t.Status == StatusPending {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusPending
	}
}
