package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"talecraft/internal/config"
	"talecraft/internal/mcp"
	"talecraft/internal/tracks"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// stdout carries the MCP stream, so diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadProjectConfig(configFile)
	if err != nil {
		return err
	}

	set, err := tracks.Load(cfg.Tracks)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	slog.Info("serving MCP over stdio", "project", cfg.Project, "version", version)

	server := mcp.NewServer(set, db, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
