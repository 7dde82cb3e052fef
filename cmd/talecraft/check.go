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

func checkCmd() *cobra.Command {
	var profileRef string
	cmd := &cobra.Command{
		Use:   "check <id>",
		Short: "Evaluate whether a profile meets an interaction's prerequisites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileRef == "" {
				return fmt.Errorf("--profile is required")
			}
			return runCheck(cmd, args[0], profileRef)
		},
	}
	cmd.Flags().StringVar(&profileRef, "profile", "", "Profile name or id")
	return cmd
}

func runCheck(cmd *cobra.Command, id, profileRef string) error {
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
		fmt.Fprintf(os.Stdout, "No interaction found for %q.\n", id)
		return nil
	}

	p, err := db.GetProfile(ctx, profileRef)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintf(os.Stdout, "No profile found for %q.\n", profileRef)
		return nil
	}

	im, pm, am := progression.Restore(set, p.Influence, p.Prestige, p.Alignment)
	snap := progression.BuildSnapshot(p.BaseState(), im, pm, am)
	verdict := prereq.New(set).Evaluate(&in.Doc, snap)

	fmt.Fprintf(os.Stdout, "%s (%s) for %s\n", in.Doc.Title, in.Doc.ID, p.Name)
	if verdict.Satisfied {
		fmt.Fprintln(os.Stdout, "Available: yes")
		return nil
	}
	if !verdict.Visible {
		fmt.Fprintln(os.Stdout, "Available: no (hidden)")
		return nil
	}
	fmt.Fprintln(os.Stdout, "Available: no")
	if verdict.Reason != "" {
		fmt.Fprintf(os.Stdout, "Reason: %s\n", verdict.Reason)
	}
	return nil
}
