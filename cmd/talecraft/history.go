package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"talecraft/internal/config"
	"talecraft/internal/progression"
)

func historyCmd() *cobra.Command {
	var profileRef string
	var category string
	var track string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Display a profile's change journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileRef == "" {
				return fmt.Errorf("--profile is required")
			}
			return runHistory(cmd, profileRef, category, track, limit)
		},
	}
	cmd.Flags().StringVar(&profileRef, "profile", "", "Profile name or id")
	cmd.Flags().StringVar(&category, "category", "", "Category to filter: influence, prestige, or alignment")
	cmd.Flags().StringVar(&track, "track", "", "Track id to filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "Most recent n changes (0 for all)")
	return cmd
}

func runHistory(cmd *cobra.Command, profileRef, category, track string, limit int) error {
	ctx := context.Background()

	if category != "" && !progression.Category(category).IsValid() {
		return fmt.Errorf("unknown category: %s", category)
	}

	cfg, err := config.LoadProjectConfig(configFile)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	p, err := db.GetProfile(ctx, profileRef)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintf(os.Stdout, "No profile found for %q.\n", profileRef)
		return nil
	}

	changes, err := db.ListChanges(ctx, p.ID, category, track, limit)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(os.Stdout, "No changes recorded.")
		return nil
	}

	for _, ch := range changes {
		fmt.Fprintf(os.Stdout, "[%s] %s %s %+d -> %d (%s)\n",
			ch.Timestamp.Format(time.RFC3339), ch.Category, ch.Track, ch.Delta, ch.NewValue, ch.Reason)
	}
	return nil
}
