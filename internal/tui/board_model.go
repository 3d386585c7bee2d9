package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/parser"
	"github.com/balkashynov/crewboard/internal/suggest"
)

// Board is the task service the board screen drives
type Board interface {
	Identity() board.Identity
	View() *board.View
	ListTasks(ctx context.Context, workspaceID string) ([]models.Task, error)
	MoveTask(ctx context.Context, taskID string, status models.TaskStatus) (board.MoveResult, error)
}

type Suggester interface {
	Generate(ctx context.Context) ([]suggest.Suggestion, error)
	Accept(ctx context.Context, id string) (*models.Task, error)
}

type Ledger interface {
	Progress() ledger.Progress
}

// Events yields board events to show as toasts
type Events interface {
	Drain() []board.Event
}

// BoardDeps bundles what the board screen needs
type BoardDeps struct {
	Board   Board
	Suggest Suggester
	Ledger  Ledger
	Events  Events
}

const toastDuration = 4 * time.Second

type tasksLoadedMsg struct{ err error }

type taskMovedMsg struct {
	id  string
	res board.MoveResult
	err error
}

type suggestionsMsg struct {
	gen  int
	list []suggest.Suggestion
	err  error
}

type acceptedMsg struct {
	task *models.Task
	err  error
}

type toastExpiredMsg struct{ seq int }

// BoardModel is the three-column board screen
type BoardModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	deps   BoardDeps

	width  int
	height int

	columns map[models.TaskStatus][]board.Card
	col     int    // selected column, index into models.Statuses
	row     [3]int // selected card per column
	moving  map[string]bool

	toast    *board.Event
	toastSeq int
	err      error

	shimmer *Shimmer
	spinner spinner.Model

	// Suggestions panel
	showSuggestions bool
	loading         bool
	suggestions     []suggest.Suggestion
	sugRow          int
	sugGen          int
	sugCancel       context.CancelFunc
}

// NewBoardModel creates the board screen. Cancelling ctx, or quitting,
// abandons any suggestions still being generated.
func NewBoardModel(ctx context.Context, deps BoardDeps) BoardModel {
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := BoardModel{
		ctx:     ctx,
		cancel:  cancel,
		deps:    deps,
		moving:  make(map[string]bool),
		shimmer: NewShimmer(true),
		spinner: sp,
	}
	m.columns = deps.Board.View().Columns()
	return m
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.loadTasks(), m.shimmer.Tick())
}

func (m BoardModel) loadTasks() tea.Cmd {
	ctx, b := m.ctx, m.deps.Board
	return func() tea.Msg {
		_, err := b.ListTasks(ctx, b.Identity().WorkspaceID)
		return tasksLoadedMsg{err: err}
	}
}

func (m BoardModel) moveTask(id string, status models.TaskStatus) tea.Cmd {
	ctx, b := m.ctx, m.deps.Board
	return func() tea.Msg {
		res, err := b.MoveTask(ctx, id, status)
		return taskMovedMsg{id: id, res: res, err: err}
	}
}

func (m BoardModel) generateSuggestions(ctx context.Context, gen int) tea.Cmd {
	s := m.deps.Suggest
	return func() tea.Msg {
		list, err := s.Generate(ctx)
		return suggestionsMsg{gen: gen, list: list, err: err}
	}
}

func (m BoardModel) acceptSuggestion(id string) tea.Cmd {
	ctx, s := m.ctx, m.deps.Suggest
	return func() tea.Msg {
		task, err := s.Accept(ctx, id)
		return acceptedMsg{task: task, err: err}
	}
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case shimmerTickMsg:
		if card, ok := m.selected(); ok {
			m.shimmer.Advance(len([]rune(card.Title)), time.Now())
		}
		return m, m.shimmer.Tick()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		m.err = msg.err
		m.refresh()
		return m, m.showEvents()

	case taskMovedMsg:
		delete(m.moving, msg.id)
		m.refresh()
		if msg.err == nil && msg.res.Changed {
			m.follow(msg.id)
		}
		return m, m.showEvents()

	case suggestionsMsg:
		// A closed or superseded request is dropped
		if msg.gen != m.sugGen || !m.showSuggestions {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.suggestions = msg.list
		m.sugRow = 0
		return m, nil

	case acceptedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.removeSuggestion(msg.task.Title)
		}
		m.refresh()
		return m, m.showEvents()

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case tea.KeyMsg:
		if m.showSuggestions {
			return m.handleSuggestionKeys(msg)
		}
		return m.handleBoardKeys(msg)
	}

	return m, nil
}

func (m BoardModel) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quit()
		return m, tea.Quit

	case "left", "h":
		if m.col > 0 {
			m.col--
			m.shimmer.Reset()
		}
	case "right", "l":
		if m.col < len(models.Statuses)-1 {
			m.col++
			m.shimmer.Reset()
		}
	case "up", "k":
		if m.row[m.col] > 0 {
			m.row[m.col]--
			m.shimmer.Reset()
		}
	case "down", "j":
		if m.row[m.col] < len(m.currentColumn())-1 {
			m.row[m.col]++
			m.shimmer.Reset()
		}

	case ">", "shift+right", "L":
		if m.col < len(models.Statuses)-1 {
			return m.startMove(models.Statuses[m.col+1])
		}
	case "<", "shift+left", "H":
		if m.col > 0 {
			return m.startMove(models.Statuses[m.col-1])
		}
	case "1", "2", "3":
		return m.startMove(models.Statuses[msg.String()[0]-'1'])
	case "d":
		return m.startMove(models.StatusDone)

	case "r":
		return m, m.loadTasks()

	case "s":
		if m.deps.Suggest == nil {
			return m, nil
		}
		return m.openSuggestions()
	}
	return m, nil
}

func (m BoardModel) handleSuggestionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quit()
		return m, tea.Quit
	case "esc", "s":
		m.closeSuggestions()
	case "up", "k":
		if m.sugRow > 0 {
			m.sugRow--
		}
	case "down", "j":
		if m.sugRow < len(m.suggestions)-1 {
			m.sugRow++
		}
	case "enter", "a":
		if !m.loading && m.sugRow < len(m.suggestions) {
			return m, m.acceptSuggestion(m.suggestions[m.sugRow].ID)
		}
	}
	return m, nil
}

func (m BoardModel) startMove(status models.TaskStatus) (tea.Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok || card.Status == status || m.moving[card.ID] {
		return m, nil
	}
	m.moving[card.ID] = true
	return m, m.moveTask(card.ID, status)
}

func (m BoardModel) openSuggestions() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	m.sugGen++
	m.sugCancel = cancel
	m.showSuggestions = true
	m.loading = true
	m.suggestions = nil
	return m, tea.Batch(m.spinner.Tick, m.generateSuggestions(ctx, m.sugGen))
}

func (m *BoardModel) closeSuggestions() {
	if m.sugCancel != nil {
		m.sugCancel()
		m.sugCancel = nil
	}
	m.showSuggestions = false
	m.loading = false
}

func (m *BoardModel) quit() {
	m.closeSuggestions()
	m.cancel()
}

func (m *BoardModel) removeSuggestion(title string) {
	for i, s := range m.suggestions {
		if s.Title == title {
			m.suggestions = append(m.suggestions[:i:i], m.suggestions[i+1:]...)
			break
		}
	}
	if m.sugRow >= len(m.suggestions) && m.sugRow > 0 {
		m.sugRow--
	}
}

// refresh re-reads the columns from the board's view
func (m *BoardModel) refresh() {
	m.columns = m.deps.Board.View().Columns()
	for i, st := range models.Statuses {
		if n := len(m.columns[st]); m.row[i] >= n {
			m.row[i] = max(0, n-1)
		}
	}
}

// follow moves the selection to wherever the card with id now sits
func (m *BoardModel) follow(id string) {
	for i, st := range models.Statuses {
		for j, c := range m.columns[st] {
			if c.ID == id {
				m.col, m.row[i] = i, j
				m.shimmer.Reset()
				return
			}
		}
	}
}

func (m BoardModel) currentColumn() []board.Card {
	return m.columns[models.Statuses[m.col]]
}

func (m BoardModel) selected() (board.Card, bool) {
	cards := m.currentColumn()
	if len(cards) == 0 {
		return board.Card{}, false
	}
	return cards[m.row[m.col]], true
}

// showEvents turns the newest pending event into a toast
func (m *BoardModel) showEvents() tea.Cmd {
	if m.deps.Events == nil {
		return nil
	}
	events := m.deps.Events.Drain()
	if len(events) == 0 {
		return nil
	}
	last := events[len(events)-1]
	m.toast = &last
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

// View renders the board
func (m BoardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	var body string
	if m.showSuggestions {
		body = m.renderSuggestions(m.width - 2)
	} else {
		colWidth := (m.width - 2*len(models.Statuses)) / len(models.Statuses)
		cols := make([]string, 0, len(models.Statuses))
		for i, st := range models.Statuses {
			cols = append(cols, m.renderColumn(i, st, colWidth))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}

	parts := []string{"", header, "", body}
	if t := m.renderToast(); t != "" {
		parts = append(parts, "", t)
	}
	if m.err != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("⚠️  "+m.err.Error()))
	}
	parts = append(parts, "", m.renderHelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m BoardModel) renderHeader() string {
	id := m.deps.Board.Identity()
	p := m.deps.Ledger.Progress()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	pointsStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))

	left := titleStyle.Render("crewboard") + metaStyle.Render(fmt.Sprintf("  %s · %s", id.WorkspaceName, id.UserName))
	right := pointsStyle.Render(fmt.Sprintf("⭐ %s pts", humanize.Comma(int64(p.Total)))) +
		metaStyle.Render(fmt.Sprintf("  Level %d  %s", p.Level, progressBar(p.InLevel, ledger.PointsPerLevel, 20)))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func progressBar(value, total, width int) string {
	filled := value * width / total
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder)).Render(strings.Repeat("░", width-filled))
}

func (m BoardModel) renderColumn(i int, status models.TaskStatus, width int) string {
	cards := m.columns[status]
	active := i == m.col

	var b strings.Builder
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(statusColor(status)))
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s (%d)", statusIcon(status), status.Label(), len(cards))))
	b.WriteString("\n\n")

	if len(cards) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).Render("No tasks"))
	}

	maxCards := max(1, (m.height-12)/4)
	start := 0
	if active && m.row[i] >= maxCards {
		start = m.row[i] - maxCards + 1
	}
	for j := start; j < len(cards) && j < start+maxCards; j++ {
		b.WriteString(m.renderCard(cards[j], width-4, active && j == m.row[i]))
		b.WriteString("\n")
	}

	border := ColorBorder
	if active {
		border = ColorAccentMain
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

func (m BoardModel) renderCard(card board.Card, width int, selected bool) string {
	title := truncate(card.Title, width-2)
	if selected {
		title = m.shimmer.Render(title)
	} else {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Render(title)
	}

	var meta []string
	meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(fmt.Sprintf("+%d", card.Points)))
	if card.AssigneeName != "" {
		meta = append(meta, "@"+card.AssigneeName)
	}
	if card.DueDate != nil {
		meta = append(meta, parser.FormatDueDate(card.DueDate))
	}
	if card.Pending || m.moving[card.ID] {
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("saving…"))
	}
	metaLine := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(strings.Join(meta, "  "))

	style := lipgloss.NewStyle().Width(width).Padding(0, 1)
	if selected {
		style = style.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(ColorAccentBright)).Width(width - 2)
	}
	return style.Render(title + "\n" + metaLine)
}

func (m BoardModel) renderSuggestions(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("✨ Smart suggestions"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Analyzing your board...")
	case len(m.suggestions) == 0:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).Render("No suggestions left"))
	default:
		for i, s := range m.suggestions {
			cursor := "  "
			titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
			if i == m.sugRow {
				cursor = "▸ "
				titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
			}
			b.WriteString(cursor + titleStyle.Render(s.Title))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(priorityColor(s.Priority))).
				Render(fmt.Sprintf("  [%s · +%d · %s]", s.Priority, s.Priority.Points(), s.EstimatedTime)))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).PaddingLeft(4).
				Render(s.Description + " · " + s.Reason))
			b.WriteString("\n\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

func priorityColor(p suggest.Priority) string {
	switch p {
	case suggest.PriorityHigh:
		return ColorError
	case suggest.PriorityMedium:
		return ColorWarning
	default:
		return ColorSecondaryText
	}
}

func (m BoardModel) renderToast() string {
	if m.toast == nil {
		return ""
	}
	color := levelColor(m.toast.Level)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(m.toast.Title) + "\n" + m.toast.Message)
}

func (m BoardModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "←/→ column · ↑/↓ card · </> move · 1/2/3 set status · d done · s suggestions · r refresh · q quit"
	if m.showSuggestions {
		helpText = "↑/↓ select · enter accept · esc close · q quit"
	}
	return helpStyle.Render(helpText)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
