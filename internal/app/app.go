// Package app wires configuration, storage and the board services together
// for the CLI, the HTTP API and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/chat"
	"github.com/balkashynov/crewboard/internal/config"
	"github.com/balkashynov/crewboard/internal/db"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/notify"
	"github.com/balkashynov/crewboard/internal/suggest"
)

var ErrNoSession = errors.New("not signed in, run 'crewboard login' first")

// App holds the process-wide dependencies
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Store    *db.Store
	Notifier notify.Notifier
}

// Open connects to the configured database. The caller must Close the App.
func Open(cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store, err := db.Open(cfg.Database, cfg.Log.Level == "debug")
	if err != nil {
		return nil, err
	}
	logger.Debug("database ready", "driver", cfg.Database.Driver)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Notifier: notify.New(cfg.Notify, logger),
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

// Session is a signed-in user's view of their workspace
type Session struct {
	Model    *models.Session
	Identity board.Identity
	Store    *db.Store
	Ledger   *ledger.Ledger
	Events   *board.Buffer
	Board    *board.Service
	Chat     *chat.Service
	Suggest  *suggest.Generator
}

// Load resolves the active session and builds the services acting for it.
// Extra sinks receive every board event alongside the session's buffer and the log.
func (a *App) Load(ctx context.Context, sinks ...board.EventSink) (*Session, error) {
	active, err := a.Store.GetActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoSession
	}

	opening, err := a.Store.SumCredits(ctx, active.ID)
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(opening, ledger.WithRecorder(active.ID, a.Store), ledger.WithLogger(a.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to restore points: %w", err)
	}

	identity := board.Identity{
		UserID:        active.UserID,
		UserName:      active.UserName,
		WorkspaceID:   active.WorkspaceID,
		WorkspaceName: active.Workspace.Name,
	}

	events := &board.Buffer{}
	fanout := board.Fanout{events, board.LogSink{Logger: a.Logger}}
	fanout = append(fanout, sinks...)

	svc := board.NewService(a.Store, l, identity,
		board.WithNotifier(a.Notifier),
		board.WithEvents(fanout),
		board.WithLogger(a.Logger),
		board.WithDefaultPoints(a.Config.Points.Default),
	)

	return &Session{
		Model:    active,
		Identity: identity,
		Store:    a.Store,
		Ledger:   l,
		Events:   events,
		Board:    svc,
		Chat:     chat.NewService(a.Store, l, identity),
		Suggest:  suggest.NewGenerator(a.Config.Suggest.Delay, svc, l),
	}, nil
}

// Login starts a session for name in the workspace matching ref
// (id, name or invite code).
func (a *App) Login(ctx context.Context, name, email, ref string) (*models.Session, error) {
	ws, err := a.Store.FindWorkspace(ctx, ref)
	if err != nil {
		return nil, err
	}
	return a.Store.StartSession(ctx, name, email, ws.ID)
}

// SwitchWorkspace signs the same user into another workspace. The old
// session is only ended if the new one starts.
func (a *App) SwitchWorkspace(ctx context.Context, ref string) (*models.Session, error) {
	ws, err := a.Store.FindWorkspace(ctx, ref)
	if err != nil {
		return nil, err
	}

	next, err := a.Store.SwitchSession(ctx, ws.ID)
	if errors.Is(err, db.ErrNoActiveSession) {
		return nil, ErrNoSession
	}
	return next, err
}
