package reminder

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/repository"
)

type fakeTaskRepo struct {
	claim func(ctx context.Context, cutoff time.Time, limit int) ([]*repository.DueTask, error)
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	panic("not used")
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	panic("not used")
}

func (r *fakeTaskRepo) List(ctx context.Context, input repository.ListTasksInput) ([]*domain.Task, error) {
	panic("not used")
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	panic("not used")
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	panic("not used")
}

func (r *fakeTaskRepo) ClaimDueReminders(ctx context.Context, cutoff time.Time, limit int) ([]*repository.DueTask, error) {
	return r.claim(ctx, cutoff, limit)
}

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func dueTask(id, owner string) *repository.DueTask {
	due := time.Now().Add(-time.Hour)
	return &repository.DueTask{
		Task: &domain.Task{
			ID:      id,
			UserID:  "user-" + owner,
			Title:   "pay invoice",
			Status:  domain.StatusPending,
			DueDate: &due,
		},
		OwnerEmail: owner,
	}
}

func TestNewDispatcher_RejectsBadCron(t *testing.T) {
	repo := &fakeTaskRepo{}
	if _, err := NewDispatcher(repo, &fakeSender{}, testLogger(), "not a cron", 10); err == nil {
		t.Errorf("expected error for invalid cron expression, got nil")
	}
}

func TestSweep_SendsOneEmailPerDueTask(t *testing.T) {
	repo := &fakeTaskRepo{
		claim: func(ctx context.Context, cutoff time.Time, limit int) ([]*repository.DueTask, error) {
			return []*repository.DueTask{
				dueTask("task-1", "ann@example.com"),
				dueTask("task-2", "bob@example.com"),
			}, nil
		},
	}
	sender := &fakeSender{}

	d, err := NewDispatcher(repo, sender, testLogger(), "*/5 * * * *", 10)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	d.sweep(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}
	if sender.sent[0] != "ann@example.com" || sender.sent[1] != "bob@example.com" {
		t.Errorf("recipients = %v", sender.sent)
	}
}

func TestSweep_SendFailureDoesNotStopBatch(t *testing.T) {
	calls := 0
	repo := &fakeTaskRepo{
		claim: func(ctx context.Context, cutoff time.Time, limit int) ([]*repository.DueTask, error) {
			return []*repository.DueTask{
				dueTask("task-1", "ann@example.com"),
				dueTask("task-2", "bob@example.com"),
			}, nil
		},
	}
	sender := &failEverySecondSender{calls: &calls}

	d, err := NewDispatcher(repo, sender, testLogger(), "*/5 * * * *", 10)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	d.sweep(context.Background())

	if calls != 2 {
		t.Errorf("sender called %d times, want 2", calls)
	}
}

type failEverySecondSender struct {
	calls *int
}

func (s *failEverySecondSender) Send(ctx context.Context, to, subject, body string) error {
	*s.calls++
	if *s.calls == 1 {
		return errors.New("smtp unreachable")
	}
	return nil
}
