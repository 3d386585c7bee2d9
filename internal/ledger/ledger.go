// Package ledger keeps the running points total for the signed-in user.
//
// The ledger is additive: credits only ever increase the total, and there is
// no way to take points back. Levels are derived from the total in steps of
// PointsPerLevel.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// PointsPerLevel is the width of one level
const PointsPerLevel = 500

// Credit amounts for collaboration actions that are not task completions
const (
	ChatMessagePoints        = 5
	SuggestionAcceptedPoints = 10
)

// Reason tags where a credit came from
type Reason string

const (
	ReasonTaskCompleted      Reason = "task_completed"
	ReasonChatMessage        Reason = "chat_message"
	ReasonSuggestionAccepted Reason = "suggestion_accepted"
)

var ErrInvalidAmount = errors.New("credit amount must be positive")

// Recorder persists credits so a session's ledger can be rebuilt later
type Recorder interface {
	RecordCredit(ctx context.Context, sessionID uint, amount int, reason, ref string) error
}

// Summer is implemented by recorders that can report the persisted total.
// Other processes may credit the same session, so a ledger with a Summer
// recorder treats the persisted sum as the source of truth.
type Summer interface {
	SumCredits(ctx context.Context, sessionID uint) (int, error)
}

// Progress is the level breakdown shown on the leaderboard
type Progress struct {
	Total        int `json:"total" yaml:"total"`
	Level        int `json:"level" yaml:"level"`
	InLevel      int `json:"progress_in_level" yaml:"progress_in_level"`
	PointsToNext int `json:"points_to_next" yaml:"points_to_next"`
}

// Ledger is a per-session points counter, safe for concurrent use
type Ledger struct {
	mu    sync.Mutex
	total int

	sessionID uint
	recorder  Recorder
	logger    *log.Logger
}

// Option configures a Ledger
type Option func(*Ledger)

// WithRecorder persists every credit under sessionID
func WithRecorder(sessionID uint, r Recorder) Option {
	return func(l *Ledger) {
		l.sessionID = sessionID
		l.recorder = r
	}
}

// WithLogger sets the logger used for recorder failures
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New creates a ledger starting at opening points. A negative opening balance is rejected.
func New(opening int, opts ...Option) (*Ledger, error) {
	if opening < 0 {
		return nil, fmt.Errorf("opening balance must not be negative, got %d", opening)
	}
	l := &Ledger{total: opening}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Credit adds amount to the total and returns the new total.
// A recorder failure is logged; the in-memory credit stands.
func (l *Ledger) Credit(ctx context.Context, amount int, reason Reason, ref string) (int, error) {
	if amount <= 0 {
		return l.Total(), fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	l.total += amount
	total := l.total
	l.mu.Unlock()

	if l.recorder != nil {
		if err := l.recorder.RecordCredit(ctx, l.sessionID, amount, string(reason), ref); err != nil {
			if l.logger != nil {
				l.logger.Warn("failed to record credit", "amount", amount, "reason", reason, "ref", ref, "err", err)
			}
		} else {
			total = l.refresh(ctx)
		}
	}
	if l.logger != nil {
		l.logger.Debug("points credited", "amount", amount, "reason", reason, "total", total)
	}

	return total, nil
}

// Total returns the running total. With a Summer recorder it is re-read
// from storage so credits made by other processes show up.
func (l *Ledger) Total() int {
	return l.refresh(context.Background())
}

// refresh syncs the in-memory total with the persisted sum when the recorder
// can report one. A read failure keeps the in-memory total.
func (l *Ledger) refresh(ctx context.Context) int {
	summer, ok := l.recorder.(Summer)
	if !ok {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.total
	}

	sum, err := summer.SumCredits(ctx, l.sessionID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("failed to read persisted total", "session", l.sessionID, "err", err)
		}
		return l.total
	}
	// never report less than this process has already seen
	if sum > l.total {
		l.total = sum
	}
	return l.total
}

// Level returns floor(total/500) + 1
func (l *Ledger) Level() int {
	return LevelFor(l.Total())
}

// Progress returns the level breakdown for the current total
func (l *Ledger) Progress() Progress {
	return ProgressFor(l.Total())
}

// LevelFor returns the level reached with total points
func LevelFor(total int) int {
	return total/PointsPerLevel + 1
}

// ProgressFor computes the level breakdown for total points
func ProgressFor(total int) Progress {
	in := total % PointsPerLevel
	return Progress{
		Total:        total,
		Level:        LevelFor(total),
		InLevel:      in,
		PointsToNext: PointsPerLevel - in,
	}
}
