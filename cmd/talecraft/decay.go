package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"talecraft/internal/config"
	"talecraft/internal/progression"
	"talecraft/internal/tracks"
)

func decayCmd() *cobra.Command {
	var profileRef string
	cmd := &cobra.Command{
		Use:   "decay",
		Short: "Apply one period of prestige decay to a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileRef == "" {
				return fmt.Errorf("--profile is required")
			}
			return runDecay(cmd, profileRef)
		},
	}
	cmd.Flags().StringVar(&profileRef, "profile", "", "Profile name or id")
	return cmd
}

func runDecay(cmd *cobra.Command, profileRef string) error {
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

	p, err := db.GetProfile(ctx, profileRef)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("profile not found: %s", profileRef)
	}

	_, pm, _ := progression.Restore(set, p.Influence, p.Prestige, p.Alignment)
	pm.ApplyDecay()

	changes := pm.DrainChanges()
	if len(changes) == 0 {
		fmt.Fprintln(os.Stdout, "No decay applied.")
		return nil
	}

	p.Prestige = pm.Scores()
	if err := db.SaveProgress(ctx, p, changes); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Applied decay to %s.\n", p.Name)
	for _, ch := range changes {
		fmt.Fprintf(os.Stdout, "  %s %+d -> %d\n", ch.Track, ch.Delta, ch.NewValue)
	}
	return nil
}
