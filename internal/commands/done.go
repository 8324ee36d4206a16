package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"aitodo/internal/config"
	"aitodo/internal/exitcode"
	"aitodo/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: toggles a task's completion
// flag. The flag flips for that task only; parents and subtasks are
// untouched.
type DoneCmd struct {
	goalID int
}

// SetGoalID sets the goal id (for testing).
func (c *DoneCmd) SetGoalID(id int) {
	c.goalID = id
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "aitodo done [--goal <id>] <task-id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.goalID, "goal", 0, "")
	fs.IntVar(&c.goalID, "g", 0, "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	f, err := loadForest(ctx, cfg, svc, c.goalID, errOut)
	if err != nil {
		return reportForestErr(err, errOut)
	}

	if err := f.ToggleCompletion(ctx, id); err != nil {
		return reportForestErr(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
