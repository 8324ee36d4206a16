package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"aitodo/internal/config"
	"aitodo/internal/exitcode"
	"aitodo/internal/forest"
	"aitodo/internal/service"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command: reparents a task (and its
// subtree) under a new parent, or to the root. Moves that would create
// a cycle are rejected before any remote call.
type MoveCmd struct {
	goalID int
}

// SetGoalID sets the goal id (for testing).
func (c *MoveCmd) SetGoalID(id int) {
	c.goalID = id
}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task under a new parent" }
func (c *MoveCmd) Usage() string     { return "aitodo move [--goal <id>] <task-id> <new-parent-id|root>" }
func (c *MoveCmd) NeedsAuth() bool   { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.goalID, "goal", 0, "")
	fs.IntVar(&c.goalID, "g", 0, "")
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: task id and new parent required")
		return exitcode.UserError
	}

	id, err := parseID(args[:1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	newParentID := 0
	if args[1] != "root" {
		newParentID, err = strconv.Atoi(args[1])
		if err != nil || newParentID < 1 {
			fmt.Fprintf(errOut, "error: invalid parent id: %s\n", args[1])
			return exitcode.UserError
		}
	}

	f, err := loadForest(ctx, cfg, svc, c.goalID, errOut)
	if err != nil {
		return reportForestErr(err, errOut)
	}

	if err := f.Reparent(ctx, id, newParentID); err != nil {
		if errors.Is(err, forest.ErrSelfParent) || errors.Is(err, forest.ErrCycle) || errors.Is(err, forest.ErrNotFound) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
