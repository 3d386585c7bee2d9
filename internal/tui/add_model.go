package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/parser"
)

// TaskCreator creates tasks on the current board
type TaskCreator interface {
	CreateTask(ctx context.Context, in board.TaskInput) (*models.Task, error)
}

// Step is the field the add wizard is on
type Step int

const (
	StepTitle Step = iota
	StepPoints
	StepAssignee
	StepEmail
	StepDueDate
	StepDueTime
	StepDescription
	StepSave
)

var stepLabels = []string{"Title", "Points", "Assignee", "Email", "Due date", "Due time", "Description"}

// ErrCancelled is returned when the user leaves the wizard without saving
var ErrCancelled = errors.New("task creation cancelled")

// AddTaskModel is the step-by-step task creation wizard
type AddTaskModel struct {
	ctx     context.Context
	creator TaskCreator

	step   Step
	inputs []textinput.Model
	width  int
	height int

	validationErr string
	err           error
	cancelled     bool
	created       *models.Task
}

// NewAddTaskModel creates the wizard, pre-filled from quick-add parsing
func NewAddTaskModel(ctx context.Context, creator TaskCreator, parsed parser.ParsedTask) AddTaskModel {
	inputs := make([]textinput.Model, len(stepLabels))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[StepTitle].Placeholder = "Enter task title... (required)"
	inputs[StepTitle].CharLimit = 200
	inputs[StepPoints].Placeholder = fmt.Sprintf("%d-%d (Enter for the default)", board.MinPoints, board.MaxPoints)
	inputs[StepPoints].CharLimit = 3
	inputs[StepAssignee].Placeholder = "Assignee name (Enter to skip)"
	inputs[StepAssignee].CharLimit = 80
	inputs[StepEmail].Placeholder = "Assignee e-mail, they get notified (Enter to skip)"
	inputs[StepEmail].CharLimit = 120
	inputs[StepDueDate].Placeholder = "dd/mm/yyyy, 3 days, 24 hours, 2 weeks (Enter to skip)"
	inputs[StepDueDate].CharLimit = 50
	inputs[StepDueTime].Placeholder = "HH:MM (Enter to skip)"
	inputs[StepDueTime].CharLimit = 5
	inputs[StepDescription].Placeholder = "Details (Enter to skip)"
	inputs[StepDescription].CharLimit = 500

	inputs[StepTitle].SetValue(parsed.Title)
	if parsed.Points > 0 {
		inputs[StepPoints].SetValue(strconv.Itoa(parsed.Points))
	}
	inputs[StepAssignee].SetValue(parsed.AssigneeName)
	inputs[StepEmail].SetValue(parsed.AssigneeEmail)
	if parsed.DueDate != nil {
		inputs[StepDueDate].SetValue(parsed.DueDate.Format("02/01/2006"))
	}
	inputs[StepDueTime].SetValue(parsed.DueTime)
	inputs[StepDescription].SetValue(parsed.Description)
	inputs[StepTitle].Focus()

	return AddTaskModel{ctx: ctx, creator: creator, inputs: inputs}
}

func (m AddTaskModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AddTaskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := min(max(m.width*2/3-10, 30), 80)
		for i := range m.inputs {
			m.inputs[i].Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "tab", "down":
			if err := m.validateStep(); err != "" {
				m.validationErr = err
				return m, nil
			}
			return m.nextStep()
		case "shift+tab", "up":
			return m.prevStep()
		}
	}

	var cmd tea.Cmd
	if m.step < StepSave {
		m.inputs[m.step], cmd = m.inputs[m.step].Update(msg)
	}
	return m, cmd
}

func (m AddTaskModel) value(s Step) string {
	return strings.TrimSpace(m.inputs[s].Value())
}

// validateStep checks the current field; an empty string means it is fine
func (m AddTaskModel) validateStep() string {
	switch m.step {
	case StepTitle:
		if m.value(StepTitle) == "" {
			return "Task title is required"
		}
	case StepPoints:
		if v := m.value(StepPoints); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < board.MinPoints || n > board.MaxPoints {
				return fmt.Sprintf("Points must be a number between %d and %d", board.MinPoints, board.MaxPoints)
			}
		}
	case StepEmail:
		if v := m.value(StepEmail); v != "" && !parser.IsEmail(v) {
			return "Invalid e-mail address"
		}
	case StepDueDate:
		if v := m.value(StepDueDate); v != "" {
			if _, err := parser.ParseDueDate(v); err != nil {
				return "Invalid due date: " + err.Error()
			}
		}
	case StepDueTime:
		if v := m.value(StepDueTime); v != "" {
			if _, err := parser.ParseDueTime(v); err != nil {
				return err.Error()
			}
		}
	}
	return ""
}

func (m AddTaskModel) handleEnter() (AddTaskModel, tea.Cmd) {
	m.validationErr = ""
	if m.step == StepSave {
		return m.createTask()
	}
	if err := m.validateStep(); err != "" {
		m.validationErr = err
		return m, nil
	}
	return m.nextStep()
}

func (m AddTaskModel) nextStep() (AddTaskModel, tea.Cmd) {
	m.validationErr = ""
	if m.step < StepSave {
		m.inputs[m.step].Blur()
		m.step++
		if m.step < StepSave {
			m.inputs[m.step].Focus()
		}
	}
	return m, textinput.Blink
}

func (m AddTaskModel) prevStep() (AddTaskModel, tea.Cmd) {
	m.validationErr = ""
	if m.step > StepTitle {
		if m.step < StepSave {
			m.inputs[m.step].Blur()
		}
		m.step--
		m.inputs[m.step].Focus()
	}
	return m, textinput.Blink
}

// input builds the board request from the wizard fields
func (m AddTaskModel) input() (board.TaskInput, error) {
	in := board.TaskInput{
		Title:         m.value(StepTitle),
		AssigneeName:  m.value(StepAssignee),
		AssigneeEmail: m.value(StepEmail),
		DueTime:       m.value(StepDueTime),
		Description:   m.value(StepDescription),
	}
	if v := m.value(StepPoints); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("invalid points %q", v)
		}
		in.Points = n
	}
	if v := m.value(StepDueDate); v != "" {
		due, err := parser.ParseDueDate(v)
		if err != nil {
			return in, fmt.Errorf("invalid due date: %w", err)
		}
		in.DueDate = due
	}
	return in, nil
}

func (m AddTaskModel) createTask() (AddTaskModel, tea.Cmd) {
	in, err := m.input()
	if err != nil {
		m.err = err
		return m, nil
	}

	task, err := m.creator.CreateTask(m.ctx, in)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.created = task
	return m, tea.Quit
}

// View renders the wizard
func (m AddTaskModel) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain))
	b.WriteString(headerStyle.Render("➕ New task"))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color(ColorSecondaryText))
	activeLabel := labelStyle.Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))

	for i, label := range stepLabels {
		s := Step(i)
		switch {
		case s == m.step:
			b.WriteString(activeLabel.Render("▸ "+label) + m.inputs[i].View())
		case m.value(s) != "":
			b.WriteString(labelStyle.Render("  "+label) + doneStyle.Render(m.value(s)))
		default:
			b.WriteString(labelStyle.Render("  "+label) + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("-"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	saveStyle := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(ColorBorder))
	if m.step == StepSave {
		saveStyle = saveStyle.BorderForeground(lipgloss.Color(ColorAccentBright)).Bold(true)
	}
	b.WriteString(saveStyle.Render("Save"))
	b.WriteString("\n")

	if m.validationErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("⚠️  " + m.validationErr))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("❌ " + m.err.Error()))
		b.WriteString("\n")
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true).
		Render("enter next/save · tab/shift+tab move · esc cancel")
	b.WriteString("\n" + help)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 2).
		Render(b.String())
}
