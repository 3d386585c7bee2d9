package board

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Level is the severity of a user-facing event
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is a toast-style notification for the person using the board
type Event struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// EventSink receives user-facing events
type EventSink interface {
	Emit(Event)
}

// EventFunc adapts a function to EventSink
type EventFunc func(Event)

func (f EventFunc) Emit(e Event) { f(e) }

// maxBuffered bounds a Buffer nobody drains; the oldest events are dropped
const maxBuffered = 100

// Buffer collects events until drained. Safe for concurrent use.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

func (b *Buffer) Emit(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) >= maxBuffered {
		b.events = b.events[1:]
	}
	b.events = append(b.events, e)
}

// Drain returns and clears the collected events
func (b *Buffer) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// LogSink writes events to a structured logger
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Emit(e Event) {
	if s.Logger == nil {
		return
	}
	switch e.Level {
	case LevelError:
		s.Logger.Error(e.Title, "detail", e.Message)
	case LevelWarning:
		s.Logger.Warn(e.Title, "detail", e.Message)
	default:
		s.Logger.Info(e.Title, "detail", e.Message)
	}
}

// Fanout sends every event to all sinks
type Fanout []EventSink

func (f Fanout) Emit(e Event) {
	for _, s := range f {
		if s != nil {
			s.Emit(e)
		}
	}
}

type discardSink struct{}

func (discardSink) Emit(Event) {}
