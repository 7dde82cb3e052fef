package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"talecraft/internal/bundle"
	"talecraft/internal/config"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON bundle into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0])
		},
	}
	return cmd
}

func runImport(cmd *cobra.Command, path string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configFile)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	result, err := bundle.Import(ctx, db, f)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Import complete.")
	fmt.Fprintf(os.Stdout, "  Interactions imported: %d\n", result.InteractionsImported)
	fmt.Fprintf(os.Stdout, "  Profiles imported:     %d\n", result.ProfilesImported)
	fmt.Fprintf(os.Stdout, "  Changes imported:      %d\n", result.ChangesImported)

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("import completed with errors")
	}

	return nil
}
