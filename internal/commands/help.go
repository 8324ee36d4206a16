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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "aitodo help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  aitodo                                             List the goal's tasks
  aitodo list [common flags] [--goal <id>]
  aitodo goals [common flags]
  aitodo add [common flags] [--goal <id>] [--parent <id>] [--desc <text>] [--priority <p>] <title...>
  aitodo done [common flags] [--goal <id>] <task-id>
  aitodo edit [common flags] [--goal <id>] [--title <t>] [--desc <d>] [--priority <p>] [--tags <a,b>] [--estimate <min>] <task-id>
  aitodo move [common flags] [--goal <id>] <task-id> <new-parent-id|root>
  aitodo rm [common flags] [--goal <id>] <task-id>
  aitodo reminders [common flags]
  aitodo dismiss [common flags] <reminder-id>
  aitodo watch [common flags] [--interval <duration>]
  aitodo login [--token <token>]
  aitodo logout [common flags]
  aitodo help
  aitodo version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
