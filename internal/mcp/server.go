// Package mcp serves the board as Model Context Protocol tools over stdio,
// so assistants can create, move and list tasks for the signed-in user.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/parser"
)

// Board is the task service behind the tools
type Board interface {
	Identity() board.Identity
	CreateTask(ctx context.Context, in board.TaskInput) (*models.Task, error)
	MoveTask(ctx context.Context, taskID string, status models.TaskStatus) (board.MoveResult, error)
	ListTasks(ctx context.Context, workspaceID string) ([]models.Task, error)
}

type Ledger interface {
	Progress() ledger.Progress
}

// NewServer creates a new MCP server.
func NewServer(b Board, l Ledger, version string) *server.MCPServer {
	s := server.NewMCPServer("crewboard", version)

	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a task in the current workspace. Starts in todo."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Task description")),
		mcp.WithString("assignee_name", mcp.Description("Assignee display name")),
		mcp.WithString("assignee_email", mcp.Description("Assignee e-mail; they are notified of the assignment")),
		mcp.WithString("due", mcp.Description("Due date: dd/mm/yyyy, yyyy-mm-dd, or relative like 3d, 12h, 2w")),
		mcp.WithString("due_time", mcp.Description("Due time HH:MM")),
		mcp.WithNumber("points", mcp.Description("Reward for completing (5-100, default 25)")),
	), createTaskHandler(b))

	s.AddTool(mcp.NewTool("move_task",
		mcp.WithDescription("Move a task to another column. The first move to done awards its points."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("status", mcp.Description("New status (todo|in_progress|done)"), mcp.Required()),
	), moveTaskHandler(b))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List the current workspace's tasks, newest first."),
		mcp.WithString("status", mcp.Description("Filter by status")),
	), listTasksHandler(b))

	s.AddTool(mcp.NewTool("get_ledger",
		mcp.WithDescription("Get the signed-in user's points, level and progress to the next level."),
	), getLedgerHandler(l))

	return s
}

// Serve runs the MCP server on stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func createTaskHandler(b Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in := board.TaskInput{
			Title:         mcp.ParseString(request, "title", ""),
			Description:   mcp.ParseString(request, "description", ""),
			AssigneeName:  mcp.ParseString(request, "assignee_name", ""),
			AssigneeEmail: mcp.ParseString(request, "assignee_email", ""),
			DueTime:       mcp.ParseString(request, "due_time", ""),
			Points:        mcp.ParseInt(request, "points", 0),
		}
		if due := strings.TrimSpace(mcp.ParseString(request, "due", "")); due != "" {
			d, err := parser.ParseDueDate(due)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			in.DueDate = d
		}

		task, err := b.CreateTask(ctx, in)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(task)
	}
}

func moveTaskHandler(b Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		status := models.TaskStatus(mcp.ParseString(request, "status", ""))

		res, err := b.MoveTask(ctx, id, status)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !res.Changed {
			return mcp.NewToolResultText(fmt.Sprintf("Task '%s' is already %s.", res.Task.Title, status.Label())), nil
		}
		return jsonResult(res)
	}
}

func listTasksHandler(b Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := b.ListTasks(ctx, b.Identity().WorkspaceID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if status := mcp.ParseString(request, "status", ""); status != "" {
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
		return jsonResult(map[string]any{"tasks": tasks})
	}
}

func getLedgerHandler(l Ledger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(l.Progress())
	}
}
