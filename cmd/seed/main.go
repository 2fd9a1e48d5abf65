// seed inserts a demo user and a handful of tasks into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/abzalkhan/taskboard/internal/auth"
	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/infrastructure/postgres"
	"github.com/abzalkhan/taskboard/internal/usecase"
)

const (
	seedEmail    = "seed@test.local"
	seedName     = "Seed User"
	seedPassword = "seed-password-1"
)

type taskSpec struct {
	title       string
	description string
	dueIn       time.Duration // 0 means no due date
	completed   bool
}

var tasks = []taskSpec{
	// Plain pending tasks
	{"Write project proposal", "First draft for review", 0, false},
	{"Review pull requests", "", 0, false},
	{"Update dependency pins", "", 0, false},

	// Due soon — the reminder dispatcher should pick these up
	{"Pay invoice #1042", "Net 30 expires", 30 * time.Minute, false},
	{"Renew TLS certificate", "", time.Hour, false},

	// Already overdue
	{"Submit expense report", "March receipts", -2 * time.Hour, false},

	// Completed — must never trigger a reminder
	{"Set up local database", "", -24 * time.Hour, true},
	{"Read onboarding docs", "", 0, true},
}

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	hasher := auth.NewHasher(auth.DefaultBcryptCost)

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	user, err := userRepo.Create(ctx, seedEmail, seedName, hash)
	if err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			log.Fatalf("create seed user: %v", err)
		}
		user, err = userRepo.FindByEmail(ctx, seedEmail)
		if err != nil {
			log.Fatalf("find seed user: %v", err)
		}
		fmt.Printf("seed user already exists: %s\n", user.ID)
	} else {
		fmt.Printf("created seed user: %s (%s / %s)\n", user.ID, seedEmail, seedPassword)
	}

	taskUsecase := usecase.NewTaskUsecase(taskRepo)

	for _, spec := range tasks {
		input := usecase.CreateTaskInput{
			UserID: user.ID,
			Title:  spec.title,
		}
		if spec.description != "" {
			desc := spec.description
			input.Description = &desc
		}
		if spec.dueIn != 0 {
			due := time.Now().Add(spec.dueIn)
			input.DueDate = &due
		}

		created, err := taskUsecase.CreateTask(ctx, input)
		if err != nil {
			log.Fatalf("create task %q: %v", spec.title, err)
		}

		if spec.completed {
			if _, err := taskUsecase.ToggleTask(ctx, created.ID, user.ID); err != nil {
				log.Fatalf("complete task %q: %v", spec.title, err)
			}
		}

		fmt.Printf("created task: %s (%s)\n", spec.title, created.ID)
	}

	fmt.Printf("seeded %d tasks for %s\n", len(tasks), seedEmail)
}
