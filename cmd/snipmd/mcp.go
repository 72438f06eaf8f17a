package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/logger"
	"github.com/snipmd/snipmd/pkg/mcpserver"
	"github.com/snipmd/snipmd/pkg/version"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve snippets over the Model Context Protocol on stdio",
	Long: `Serve the snippet repository over the Model Context Protocol so
agents can list, read, install and uninstall snippets through tool
calls.

The server speaks MCP over stdin/stdout. Register it with a client,
for example:

  claude mcp add snipmd -- snipmd mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cfg := loadConfig(ctx)
		store, repoName, err := openStore(ctx, &cfg)
		if err != nil {
			return errors.Wrap(err, "opening the snippet store")
		}
		events := openHistory(ctx, cfg)
		defer events.Close()

		srv := mcpserver.New(mcpserver.Config{
			Repo:    repoName,
			Store:   store,
			AppConf: cfg,
			Events:  events,
			Version: version.Get().Version,
		})

		logger.G(ctx).WithField("repo", repoName).Info("Starting MCP server on stdio")

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- srv.ServeStdio()
		}()

		select {
		case err := <-serverErr:
			if err != nil {
				return errors.Wrap(err, "MCP server failed")
			}
			return nil
		case <-ctx.Done():
			logger.G(ctx).Info("Shutting down MCP server")
			return nil
		}
	},
}
