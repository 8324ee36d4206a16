package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"aitodo/internal/config"
	"aitodo/internal/forest"
	"aitodo/internal/service"
)

// parseID parses a single positional task/reminder id argument.
func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("id required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %s", args[0])
	}
	return id, nil
}

// resolveGoalID returns the goal a command operates on: the --goal flag
// when given, otherwise goal_id from settings.
func resolveGoalID(cfg *config.Config, flagGoal int) (int, error) {
	if flagGoal > 0 {
		return flagGoal, nil
	}
	settings, err := cfg.LoadSettings()
	if err != nil {
		return 0, err
	}
	if settings.GoalID > 0 {
		return settings.GoalID, nil
	}
	return 0, fmt.Errorf("goal required (set goal_id in settings.yaml or pass --goal)")
}

// loadForest builds and loads the task forest for the resolved goal.
func loadForest(ctx context.Context, cfg *config.Config, svc service.Service, flagGoal int, errOut io.Writer) (*forest.Forest, error) {
	goalID, err := resolveGoalID(cfg, flagGoal)
	if err != nil {
		return nil, err
	}
	f := forest.New(svc, goalID, newLogger(cfg, errOut))
	if err := f.Load(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

// newLogger builds the command logger. Debug mode lowers the level;
// otherwise only warnings and errors surface, on stderr.
func newLogger(cfg *config.Config, errOut io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
}
