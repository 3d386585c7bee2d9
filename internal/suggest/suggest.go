// Package suggest produces "smart" task suggestions for the board.
//
// There is no model behind it: Generate waits for a fixed delay to mimic
// processing and then returns a canned set. The wait honours ctx, so a view
// that goes away cancels its pending suggestions instead of receiving them.
package suggest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
)

// Priority of a suggestion, which also decides its task points
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Points returns the reward a task created from this priority carries
func (p Priority) Points() int {
	switch p {
	case PriorityHigh:
		return 75
	case PriorityMedium:
		return 50
	default:
		return 25
	}
}

// Suggestion is a proposed task
type Suggestion struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      Priority `json:"priority"`
	EstimatedTime string   `json:"estimated_time"`
	Reason        string   `json:"reason"`
	Category      string   `json:"category"`
}

var catalog = []Suggestion{
	{
		ID:            "1",
		Title:         "Code Review: Authentication Module",
		Description:   "Review the authentication code that was completed yesterday",
		Priority:      PriorityHigh,
		EstimatedTime: "45 mins",
		Reason:        "High-priority code needs peer review before deployment",
		Category:      "follow-up",
	},
	{
		ID:            "2",
		Title:         "Optimize Database Queries",
		Description:   "Improve performance of user dashboard queries based on recent monitoring",
		Priority:      PriorityMedium,
		EstimatedTime: "2 hours",
		Reason:        "Performance metrics show room for improvement",
		Category:      "optimization",
	},
	{
		ID:            "3",
		Title:         "Team Sync: Project Roadmap",
		Description:   "Schedule discussion about next sprint priorities",
		Priority:      PriorityMedium,
		EstimatedTime: "30 mins",
		Reason:        "Sprint planning deadline approaching",
		Category:      "collaboration",
	},
	{
		ID:            "4",
		Title:         "Update Documentation",
		Description:   "Document the new features added this week",
		Priority:      PriorityLow,
		EstimatedTime: "1 hour",
		Reason:        "Documentation is 3 days behind current features",
		Category:      "proactive",
	},
}

// TaskCreator is the part of the board Accept needs
type TaskCreator interface {
	CreateTask(ctx context.Context, in board.TaskInput) (*models.Task, error)
}

// Generator hands out suggestions and turns accepted ones into tasks
type Generator struct {
	delay   time.Duration
	board   TaskCreator
	credits board.Crediter

	mu       sync.Mutex
	accepted map[string]bool
}

// NewGenerator creates a generator that "thinks" for delay before answering
func NewGenerator(delay time.Duration, tasks TaskCreator, credits board.Crediter) *Generator {
	return &Generator{
		delay:    delay,
		board:    tasks,
		credits:  credits,
		accepted: make(map[string]bool),
	}
}

// Generate returns the open suggestions after the configured delay, or
// ctx.Err() if ctx ends first.
func (g *Generator) Generate(ctx context.Context) ([]Suggestion, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Suggestion, 0, len(catalog))
	for _, s := range catalog {
		if !g.accepted[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

// GenerateAsync runs Generate in the background. The callback is only
// invoked when generation finished before ctx was cancelled.
func (g *Generator) GenerateAsync(ctx context.Context, done func([]Suggestion)) {
	go func() {
		list, err := g.Generate(ctx)
		if err != nil || ctx.Err() != nil {
			return
		}
		done(list)
	}()
}

// Accept creates a task from a suggestion and credits the acceptance bonus
func (g *Generator) Accept(ctx context.Context, id string) (*models.Task, error) {
	s, ok := lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown suggestion %q", board.ErrValidation, id)
	}

	g.mu.Lock()
	if g.accepted[id] {
		g.mu.Unlock()
		return nil, fmt.Errorf("%w: suggestion %q was already accepted", board.ErrValidation, id)
	}
	g.accepted[id] = true
	g.mu.Unlock()

	task, err := g.board.CreateTask(ctx, board.TaskInput{
		Title:       s.Title,
		Description: s.Description,
		Points:      s.Priority.Points(),
	})
	if err != nil {
		g.mu.Lock()
		delete(g.accepted, id)
		g.mu.Unlock()
		return nil, err
	}

	if _, err := g.credits.Credit(ctx, ledger.SuggestionAcceptedPoints, ledger.ReasonSuggestionAccepted, id); err != nil {
		return task, fmt.Errorf("task created but bonus not credited: %w", err)
	}
	return task, nil
}

func lookup(id string) (Suggestion, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Suggestion{}, false
}
