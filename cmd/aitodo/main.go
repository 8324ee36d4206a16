// Package main is the entry point for the aitodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aitodo/internal/backend/aitodoapi"
	"aitodo/internal/cli"
	"aitodo/internal/commands"
	"aitodo/internal/config"
	"aitodo/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		settings, err := cfg.LoadSettings()
		if err != nil {
			return nil, err
		}
		return aitodoapi.New(ctx, cfg, settings.APIBaseURL)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
