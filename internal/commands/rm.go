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
	Register(&RmCmd{})
}

// RmCmd implements the rm command: deletes a task and its entire
// subtree. The backend deletes first; the local forest is patched only
// after the remote call succeeds.
type RmCmd struct {
	goalID int
}

// SetGoalID sets the goal id (for testing).
func (c *RmCmd) SetGoalID(id int) {
	c.goalID = id
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task and its subtree" }
func (c *RmCmd) Usage() string     { return "aitodo rm [--goal <id>] <task-id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.goalID, "goal", 0, "")
	fs.IntVar(&c.goalID, "g", 0, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	f, err := loadForest(ctx, cfg, svc, c.goalID, errOut)
	if err != nil {
		return reportForestErr(err, errOut)
	}

	if err := f.Delete(ctx, id); err != nil {
		return reportForestErr(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
