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
	Register(&EditCmd{})
}

// EditCmd implements the edit command: replaces a task's scalar fields.
// Subtasks are always preserved, whatever the edit carries.
type EditCmd struct {
	goalID      int
	title       string
	description string
	priority    string
	tags        string
	estimate    int
}

// SetGoalID sets the goal id (for testing).
func (c *EditCmd) SetGoalID(id int) {
	c.goalID = id
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task's fields" }
func (c *EditCmd) Usage() string {
	return "aitodo edit [--goal <id>] [--title <t>] [--desc <d>] [--priority <p>] [--tags <a,b>] [--estimate <min>] <task-id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.goalID, "goal", 0, "")
	fs.IntVar(&c.goalID, "g", 0, "")
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.tags, "tags", "", "")
	fs.IntVar(&c.estimate, "estimate", -1, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	priority, ok := parsePriority(c.priority)
	if !ok {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	f, err := loadForest(ctx, cfg, svc, c.goalID, errOut)
	if err != nil {
		return reportForestErr(err, errOut)
	}

	node, found := f.Find(id)
	if !found {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	// Start from the current task so unset flags leave fields alone.
	edited := *node
	if c.title != "" {
		edited.Title = c.title
	}
	if c.description != "" {
		edited.Description = c.description
	}
	if priority != "" {
		edited.Priority = priority
	}
	if c.tags != "" {
		edited.Tags = splitTags(c.tags)
	}
	if c.estimate >= 0 {
		edited.EstimatedMinutes = c.estimate
	}

	if err := f.Edit(ctx, edited); err != nil {
		return reportForestErr(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// splitTags splits a comma-separated tag list, dropping empties.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
