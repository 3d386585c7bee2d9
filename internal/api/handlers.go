package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/parser"
)

const maxBodySize = 64 << 10 // 64KB

type createTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	AssigneeName  string `json:"assignee_name"`
	AssigneeEmail string `json:"assignee_email"`
	DueDate       string `json:"due_date"` // dd/mm/yyyy, yyyy-mm-dd or relative like 3d
	DueTime       string `json:"due_time"`
	Points        int    `json:"points"`
}

type moveTaskRequest struct {
	Status models.TaskStatus `json:"status"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, board.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) drain() []board.Event {
	if s.deps.Events == nil {
		return []board.Event{}
	}
	events := s.deps.Events.Drain()
	if events == nil {
		events = []board.Event{}
	}
	return events
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
		"events":  s.drain(),
	})
}

func (s *Server) ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
		"events":  s.drain(),
	})
}

func (s *Server) bind(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	if err := c.ShouldBindJSON(dst); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) handleListTasks(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.deps.Board.ListTasks(c.Request.Context(), s.deps.Board.Identity().WorkspaceID)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if string(t.Status) == status {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.ok(c, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if !s.bind(c, &req) {
		return
	}

	in := board.TaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeName:  req.AssigneeName,
		AssigneeEmail: req.AssigneeEmail,
		DueTime:       req.DueTime,
		Points:        req.Points,
	}
	if strings.TrimSpace(req.DueDate) != "" {
		due, err := parser.ParseDueDate(req.DueDate)
		if err != nil {
			s.fail(c, http.StatusBadRequest, err)
			return
		}
		in.DueDate = due
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.deps.Board.CreateTask(c.Request.Context(), in)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	s.ok(c, http.StatusCreated, task)
}

func (s *Server) handleMoveTask(c *gin.Context) {
	var req moveTaskRequest
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.deps.Board.MoveTask(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	s.ok(c, http.StatusOK, res)
}

func (s *Server) handleLedger(c *gin.Context) {
	s.ok(c, http.StatusOK, s.deps.Ledger.Progress())
}

func (s *Server) handlePostChat(c *gin.Context) {
	var req chatRequest
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.deps.Chat.Post(c.Request.Context(), req.Message)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	s.ok(c, http.StatusCreated, msg)
}

// handleSuggestions waits for the generator; a client that disconnects
// cancels the pending suggestions.
func (s *Server) handleSuggestions(c *gin.Context) {
	list, err := s.deps.Suggest.Generate(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}
	s.ok(c, http.StatusOK, list)
}

func (s *Server) handleAcceptSuggestion(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.deps.Suggest.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	s.ok(c, http.StatusCreated, task)
}
