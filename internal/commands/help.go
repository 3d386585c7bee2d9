package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for crewboard",
	Long:  `Display detailed help for all crewboard commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
 ██████╗██████╗ ███████╗██╗    ██╗██████╗  ██████╗  █████╗ ██████╗ ██████╗
██╔════╝██╔══██╗██╔════╝██║    ██║██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██╔══██╗
██║     ██████╔╝█████╗  ██║ █╗ ██║██████╔╝██║   ██║███████║██████╔╝██║  ██║
██║     ██╔══██╗██╔══╝  ██║███╗██║██╔══██╗██║   ██║██╔══██║██╔══██╗██║  ██║
╚██████╗██║  ██║███████╗╚███╔███╔╝██████╔╝╚██████╔╝██║  ██║██║  ██║██████╔╝
 ╚═════╝╚═╝  ╚═╝╚══════╝ ╚══╝╚══╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝

crewboard - team task board with points

GETTING STARTED:

  workspace create <name>   Create a workspace and print its invite code
  login                     Sign in to a workspace
    -n, --name              Your display name (required)
    -e, --email             Your e-mail address
    -w, --workspace         Workspace name, ID or invite code (required)
  logout                    Sign out
  whoami                    Show user, workspace and points
  workspace ls              List workspaces (* marks yours)
  workspace switch <ref>    Move to another workspace

TASKS:

  add <title>               Create a task with smart parsing
    -p, --points            Points for finishing it (5-100, default 25)
    -a, --assignee          Assignee name
    -e, --email             Assignee e-mail, they are notified
    --due                   Due date (dd/mm/yyyy, 3d, 12h, 2w)
    --at                    Due time HH:MM
    -d, --desc              Description
    -i, --interactive       Use the form
    --no-ui                 Never open the form

    Smart syntax:
      +40           Points
      @Bob_Smith    Assignee (underscores become spaces)
      <bob@x.io>    Assignee e-mail
      due:3d        Due date
      at:14:30      Due time

    Example:
      crewboard add "Write spec +40 @Bob <bob@example.com> due:3d"

  ls                        List tasks, newest first
    -s, --status            Filter: todo|in_progress|done
    --json                  JSON output

  search <query>            Search title, description and assignee
    -s, --status            Filter by status
    -l, --limit             Limit results
    --json                  JSON output

  move <id> <status>        Move a task to todo|in_progress|done
  start <id>                Move a task to In Progress
  done <id>                 Move a task to Done (first time earns its points)
  todo <id>                 Move a task back to To Do

  Task IDs can be shortened to any unique prefix, as shown by 'ls'.

  board                     Interactive three-column board

TEAM:

  chat <message>            Post to the workspace chat (+5 points)
    --history               Show recent messages
  suggest                   Show task suggestions
    -a, --accept <id>       Add a suggestion to the board (+10 points)
  points                    Points, level and recent credits
    -l, --limit             Number of credits to show
    --json                  JSON output

INTEGRATIONS:

  serve                     HTTP API for the signed-in user
    --addr                  Listen address (default :8080)
  mcp                       MCP server on stdio for assistants
  export                    Snapshot of the board
    -f, --format            json|yaml (default yaml)
    -o, --output            Write to a file

  version                   Show version
  help                      Show this help

Global: --config <file> overrides ~/.crewboard/config.yaml and ./.crewboard/config.yaml.

`)
}
