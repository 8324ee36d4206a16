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
	Register(&RemindersCmd{})
	Register(&DismissCmd{})
}

// RemindersCmd implements the reminders command: lists reminders still
// in pending status.
type RemindersCmd struct{}

func (c *RemindersCmd) Name() string      { return "reminders" }
func (c *RemindersCmd) Aliases() []string { return nil }
func (c *RemindersCmd) Synopsis() string  { return "List pending reminders" }
func (c *RemindersCmd) Usage() string     { return "aitodo reminders [common flags]" }
func (c *RemindersCmd) NeedsAuth() bool   { return true }

func (c *RemindersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RemindersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	reminders, err := svc.PendingReminders(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if len(reminders) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no pending reminders")
		}
		return exitcode.Success
	}
	for _, r := range reminders {
		output.FormatReminder(out, r)
	}
	return exitcode.Success
}

// DismissCmd implements the dismiss command: pending -> dismissed.
type DismissCmd struct{}

func (c *DismissCmd) Name() string      { return "dismiss" }
func (c *DismissCmd) Aliases() []string { return nil }
func (c *DismissCmd) Synopsis() string  { return "Dismiss a pending reminder" }
func (c *DismissCmd) Usage() string     { return "aitodo dismiss <reminder-id>" }
func (c *DismissCmd) NeedsAuth() bool   { return true }

func (c *DismissCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DismissCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.DismissReminder(ctx, id); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
