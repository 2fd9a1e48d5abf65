package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abzalkhan/taskboard/internal/email"
	"github.com/abzalkhan/taskboard/internal/metrics"
	"github.com/abzalkhan/taskboard/internal/repository"
	"github.com/robfig/cron/v3"
)

// Dispatcher periodically claims tasks whose due date has passed and emails
// the owner. The sweep cadence is a standard cron expression so operators can
// tune it without a redeploy.
type Dispatcher struct {
	tasks     repository.TaskRepository
	sender    email.Sender
	logger    *slog.Logger
	schedule  cron.Schedule
	batchSize int
}

func NewDispatcher(tasks repository.TaskRepository, sender email.Sender, logger *slog.Logger, cronExpr string, batchSize int) (*Dispatcher, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse reminder cron %q: %w", cronExpr, err)
	}
	return &Dispatcher{
		tasks:     tasks,
		sender:    sender,
		logger:    logger.With("component", "reminder_dispatcher"),
		schedule:  schedule,
		batchSize: batchSize,
	}, nil
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("reminder dispatcher started")

	for {
		next := d.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Info("reminder dispatcher shut down")
			return
		case <-timer.C:
			d.sweep(ctx)
		}
	}
}

func (d *Dispatcher) sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.ReminderCycleDuration.Observe(time.Since(start).Seconds())
	}()

	due, err := d.tasks.ClaimDueReminders(ctx, time.Now(), d.batchSize)
	if err != nil {
		d.logger.Error("claim due reminders", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	sent := 0
	for _, dt := range due {
		if err := d.sender.Send(ctx, dt.OwnerEmail, subject(dt), body(dt)); err != nil {
			// The task stays claimed; a send failure is logged, not retried.
			d.logger.Error("send reminder",
				"task_id", dt.Task.ID,
				"user_id", dt.Task.UserID,
				"error", err,
			)
			metrics.RemindersSentTotal.WithLabelValues("failure").Inc()
			continue
		}
		metrics.RemindersSentTotal.WithLabelValues("success").Inc()
		sent++
	}

	d.logger.Info("reminder sweep finished", "claimed", len(due), "sent", sent)
}

func subject(dt *repository.DueTask) string {
	return fmt.Sprintf("Task due: %s", dt.Task.Title)
}

func body(dt *repository.DueTask) string {
	due := "now"
	if dt.Task.DueDate != nil {
		due = dt.Task.DueDate.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		`<p>Your task <strong>%s</strong> was due %s and is still pending.</p>`,
		dt.Task.Title, due,
	)
}
