package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"talecraft/internal/config"
)

func interactionsCmd() *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "interactions",
		Short: "List interactions in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractions(cmd, tag)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Tag to filter")
	return cmd
}

func runInteractions(cmd *cobra.Command, tag string) error {
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

	items, err := db.ListInteractions(ctx, tag)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "No interactions found.")
		return nil
	}

	for _, item := range items {
		if len(item.Tags) > 0 {
			fmt.Fprintf(os.Stdout, "%s (%s) [%s]\n", item.ID, item.Title, strings.Join(item.Tags, ", "))
			continue
		}
		fmt.Fprintf(os.Stdout, "%s (%s)\n", item.ID, item.Title)
	}
	return nil
}
