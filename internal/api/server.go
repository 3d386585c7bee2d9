// Package api exposes the signed-in user's board over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/suggest"
)

// Board is the task service the handlers drive
type Board interface {
	Identity() board.Identity
	CreateTask(ctx context.Context, in board.TaskInput) (*models.Task, error)
	MoveTask(ctx context.Context, taskID string, status models.TaskStatus) (board.MoveResult, error)
	ListTasks(ctx context.Context, workspaceID string) ([]models.Task, error)
}

type Ledger interface {
	Progress() ledger.Progress
}

type Chat interface {
	Post(ctx context.Context, content string) (*models.ChatMessage, error)
}

type Suggestions interface {
	Generate(ctx context.Context) ([]suggest.Suggestion, error)
	Accept(ctx context.Context, id string) (*models.Task, error)
}

// Events yields the board events raised while serving a request
type Events interface {
	Drain() []board.Event
}

// Deps are the services of the session being served
type Deps struct {
	Board   Board
	Ledger  Ledger
	Chat    Chat
	Suggest Suggestions
	Events  Events
	Logger  *log.Logger
}

// Server is the crewboard HTTP API
type Server struct {
	deps   Deps
	router *gin.Engine

	// one mutating request at a time so each response carries its own events
	mu sync.Mutex
}

// NewServer builds the router. Gin's mode is left to the caller.
func NewServer(deps Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{deps: deps, router: router}
	if deps.Logger != nil {
		router.Use(s.requestLogger())
	}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.PATCH("/tasks/:id/status", s.handleMoveTask)
		api.GET("/ledger", s.handleLedger)
		api.POST("/chat", s.handlePostChat)
		api.GET("/suggestions", s.handleSuggestions)
		api.POST("/suggestions/:id/accept", s.handleAcceptSuggestion)
	}

	return s
}

// Handler returns the router for use in tests or another server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.deps.Logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
