package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, description, status, due_date,
		          reminded_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		task.UserID, task.Title, task.Description, task.Status, task.DueDate,
	)
	created, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID fetches by primary key only. Ownership is checked by the caller so
// that not-found and forbidden stay distinguishable.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, due_date,
		       reminded_at, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *TaskRepository) List(ctx context.Context, input repository.ListTasksInput) ([]*domain.Task, error) {
	args := []any{input.UserID}
	where := []string{"user_id = $1"}

	if input.Status != "" {
		args = append(args, input.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if input.CursorTime != nil {
		args = append(args, *input.CursorTime, input.CursorID)
		where = append(where, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, input.Limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, status, due_date,
		       reminded_at, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d`,
		strings.Join(where, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET    title       = $2,
		       description = $3,
		       status      = $4,
		       due_date    = $5,
		       updated_at  = NOW()
		WHERE id = $1
		RETURNING id, user_id, title, description, status, due_date,
		          reminded_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.DueDate,
	)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// ClaimDueReminders marks due pending tasks as reminded and returns them with
// the owners' emails in one statement. FOR UPDATE SKIP LOCKED keeps multiple
// dispatcher replicas from claiming the same task.
func (r *TaskRepository) ClaimDueReminders(ctx context.Context, cutoff time.Time, limit int) ([]*repository.DueTask, error) {
	query := `
		WITH claimed AS (
			UPDATE tasks
			SET    reminded_at = NOW(),
			       updated_at  = NOW()
			WHERE id IN (
				SELECT id FROM tasks
				WHERE  status      = 'pending'
				  AND  due_date   <= $1
				  AND  reminded_at IS NULL
				ORDER BY due_date ASC
				LIMIT $2
				FOR UPDATE SKIP LOCKED
			)
			RETURNING id, user_id, title, description, status, due_date,
			          reminded_at, created_at, updated_at
		)
		SELECT c.id, c.user_id, c.title, c.description, c.status, c.due_date,
		       c.reminded_at, c.created_at, c.updated_at, u.email
		FROM claimed c
		JOIN users u ON u.id = c.user_id`

	rows, err := r.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("claim due reminders: %w", err)
	}
	defer rows.Close()

	var due []*repository.DueTask
	for rows.Next() {
		var t domain.Task
		var ownerEmail string
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueDate,
			&t.RemindedAt, &t.CreatedAt, &t.UpdatedAt, &ownerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan due task: %w", err)
		}
		due = append(due, &repository.DueTask{Task: &t, OwnerEmail: ownerEmail})
	}
	return due, rows.Err()
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueDate,
		&t.RemindedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}
