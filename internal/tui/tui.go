// Package tui holds the interactive terminal screens: the board and the add-task wizard.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/parser"
)

// RunAddTaskTUI runs the wizard and returns the created task.
// Leaving without saving returns ErrCancelled.
func RunAddTaskTUI(ctx context.Context, creator TaskCreator, parsed parser.ParsedTask) (*models.Task, error) {
	p := tea.NewProgram(NewAddTaskModel(ctx, creator, parsed), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(AddTaskModel)
	if !ok || m.cancelled || m.created == nil {
		return nil, ErrCancelled
	}
	return m.created, nil
}

// RunBoardTUI runs the board screen until the user quits
func RunBoardTUI(ctx context.Context, deps BoardDeps) error {
	p := tea.NewProgram(NewBoardModel(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Show where the session ended up after the alt screen closes
	if m, ok := finalModel.(BoardModel); ok {
		p := m.deps.Ledger.Progress()
		fmt.Printf("⭐ %s points · level %d · %d to next level\n", humanize.Comma(int64(p.Total)), p.Level, p.PointsToNext)
	}
	return nil
}
