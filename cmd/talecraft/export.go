package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"talecraft/internal/bundle"
	"talecraft/internal/config"
	"talecraft/internal/tracks"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export interactions, profiles, and history to a JSON bundle",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0])
		},
	}
	return cmd
}

func runExport(cmd *cobra.Command, path string) error {
	ctx := context.Background()

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

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := bundle.Export(ctx, cfg.Project, set, db, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	fmt.Fprintf(os.Stdout, "Exported bundle to %s.\n", path)
	return nil
}
