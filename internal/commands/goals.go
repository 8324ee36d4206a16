package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"aitodo/internal/config"
	"aitodo/internal/exitcode"
	"aitodo/internal/output"
	"aitodo/internal/service"
)

func init() {
	Register(&GoalsCmd{})
}

// GoalsCmd implements the goals command. Goal CRUD lives in other
// surfaces of the product; listing exists so users can pick the goal to
// point commands at.
type GoalsCmd struct{}

func (c *GoalsCmd) Name() string      { return "goals" }
func (c *GoalsCmd) Aliases() []string { return nil }
func (c *GoalsCmd) Synopsis() string  { return "List goals" }
func (c *GoalsCmd) Usage() string     { return "aitodo goals [common flags]" }
func (c *GoalsCmd) NeedsAuth() bool   { return true }

func (c *GoalsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *GoalsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	goals, err := svc.Goals(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	for _, g := range goals {
		output.FormatGoal(out, g)
	}
	return exitcode.Success
}
