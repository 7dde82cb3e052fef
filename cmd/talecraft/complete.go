package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"talecraft/internal/config"
	"talecraft/internal/prereq"
	"talecraft/internal/progression"
	"talecraft/internal/tracks"
)

func completeCmd() *cobra.Command {
	var profileRef string
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete an interaction for a profile, applying and persisting its effects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileRef == "" {
				return fmt.Errorf("--profile is required")
			}
			return runComplete(cmd, args[0], profileRef)
		},
	}
	cmd.Flags().StringVar(&profileRef, "profile", "", "Profile name or id")
	return cmd
}

func runComplete(cmd *cobra.Command, id, profileRef string) error {
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

	in, err := db.GetInteraction(ctx, id)
	if err != nil {
		return err
	}
	if in == nil {
		return fmt.Errorf("interaction not found: %s", id)
	}

	p, err := db.GetProfile(ctx, profileRef)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("profile not found: %s", profileRef)
	}

	im, pm, am := progression.Restore(set, p.Influence, p.Prestige, p.Alignment)
	snap := progression.BuildSnapshot(p.BaseState(), im, pm, am)
	verdict := prereq.New(set).Evaluate(&in.Doc, snap)

	if !verdict.Satisfied {
		if verdict.Reason != "" {
			fmt.Fprintf(os.Stdout, "Reason: %s\n", verdict.Reason)
		}
		return fmt.Errorf("prerequisites not met for %s", in.Doc.ID)
	}

	app := progression.Applicator{Influence: im, Prestige: pm, Alignment: am}
	app.Apply(&in.Doc)

	changes := im.DrainChanges()
	changes = append(changes, pm.DrainChanges()...)
	changes = append(changes, am.DrainChanges()...)

	p.Influence = im.Scores()
	p.Prestige = pm.Scores()
	p.Alignment = am.Scores()

	if err := db.SaveProgress(ctx, p, changes); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Completed %q for %s.\n", in.Doc.Title, p.Name)
	for _, ch := range changes {
		fmt.Fprintf(os.Stdout, "  %s %s %+d -> %d (%s)\n", ch.Category, ch.Track, ch.Delta, ch.NewValue, ch.Reason)
	}
	return nil
}
