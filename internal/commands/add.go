package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"aitodo/internal/config"
	"aitodo/internal/exitcode"
	"aitodo/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	goalID      int
	parentID    int
	description string
	priority    string
}

// SetGoalID sets the goal id (for testing).
func (c *AddCmd) SetGoalID(id int) {
	c.goalID = id
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "aitodo add [--goal <id>] [--parent <id>] [--desc <text>] [--priority <high|medium|low>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.goalID, "goal", 0, "")
	fs.IntVar(&c.goalID, "g", 0, "")
	fs.IntVar(&c.parentID, "parent", 0, "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	priority, ok := parsePriority(c.priority)
	if !ok {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	goalID, err := resolveGoalID(cfg, c.goalID)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	create := service.TaskCreate{
		Title:       title,
		Description: c.description,
		Priority:    priority,
	}
	if c.parentID > 0 {
		create.ParentID = &c.parentID
	}

	if _, err := svc.CreateTask(ctx, goalID, create); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parsePriority validates the --priority flag. Empty means backend
// default.
func parsePriority(s string) (service.Priority, bool) {
	switch service.Priority(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", true
	case service.PriorityHigh:
		return service.PriorityHigh, true
	case service.PriorityMedium:
		return service.PriorityMedium, true
	case service.PriorityLow:
		return service.PriorityLow, true
	}
	return "", false
}
