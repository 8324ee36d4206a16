package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"aitodo/internal/config"
	"aitodo/internal/exitcode"
	"aitodo/internal/output"
	"aitodo/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command: the goal's task forest as an
// indented tree.
type ListCmd struct {
	goalID int
}

// SetGoalID sets the goal id (for testing).
func (c *ListCmd) SetGoalID(id int) {
	c.goalID = id
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List the goal's tasks as a tree" }
func (c *ListCmd) Usage() string     { return "aitodo list [--goal <id>]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.goalID, "goal", 0, "")
	fs.IntVar(&c.goalID, "g", 0, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	f, err := loadForest(ctx, cfg, svc, c.goalID, errOut)
	if err != nil {
		return reportForestErr(err, errOut)
	}

	roots := f.Roots()
	if len(roots) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks")
		}
		return exitcode.Success
	}
	output.FormatTaskTree(out, roots)
	return exitcode.Success
}

// reportForestErr maps forest/setup failures to exit codes.
func reportForestErr(err error, errOut io.Writer) int {
	if err == nil {
		return exitcode.Success
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	if isUserErr(err) {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// isUserErr reports whether the failure is the caller's, not the
// backend's.
func isUserErr(err error) bool {
	msg := err.Error()
	for _, s := range []string{"goal required", "not found", "invalid", "required", "cannot move"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
