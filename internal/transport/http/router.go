package httptransport

import (
	"log/slog"

	"github.com/abzalkhan/taskboard/internal/auth"
	"github.com/abzalkhan/taskboard/internal/repository"
	"github.com/abzalkhan/taskboard/internal/transport/http/handler"
	"github.com/abzalkhan/taskboard/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, taskHandler *handler.TaskHandler, userRepo repository.UserRepository, tokens *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Public auth routes
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	authMW := middleware.Auth(tokens)
	currentUser := middleware.CurrentUser(userRepo, logger)

	// Protected task routes
	tasks := r.Group("/tasks", authMW, currentUser)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.GetByID)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.PATCH("/:id/toggle", taskHandler.Toggle)
	tasks.DELETE("/:id", taskHandler.Delete)

	return r
}
