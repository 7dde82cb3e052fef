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

func standingCmd() *cobra.Command {
	var profileRef string
	cmd := &cobra.Command{
		Use:   "standing",
		Short: "Display a profile's scores with tiers, levels, and zones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileRef == "" {
				return fmt.Errorf("--profile is required")
			}
			return runStanding(cmd, profileRef)
		},
	}
	cmd.Flags().StringVar(&profileRef, "profile", "", "Profile name or id")
	return cmd
}

func runStanding(cmd *cobra.Command, profileRef string) error {
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
		fmt.Fprintf(os.Stdout, "No profile found for %q.\n", profileRef)
		return nil
	}

	im, pm, am := progression.Restore(set, p.Influence, p.Prestige, p.Alignment)

	fmt.Fprintf(os.Stdout, "%s (level %d)\n", p.Name, p.Level)

	if len(set.Influence) > 0 {
		fmt.Fprintln(os.Stdout, "Influence:")
		for _, d := range set.Influence {
			fmt.Fprintf(os.Stdout, "  %s: %d (%s)\n", d.Name, im.Score(d.ID), im.Tier(d.ID))
		}
	}

	if len(set.Prestige) > 0 {
		fmt.Fprintln(os.Stdout, "Prestige:")
		for _, t := range set.Prestige {
			if lvl := pm.Level(t.ID); lvl != nil {
				fmt.Fprintf(os.Stdout, "  %s: %d (%s)\n", t.Name, pm.Score(t.ID), lvl.Name)
				continue
			}
			fmt.Fprintf(os.Stdout, "  %s: %d\n", t.Name, pm.Score(t.ID))
		}
	}

	if len(set.Alignment) > 0 {
		fmt.Fprintln(os.Stdout, "Alignment:")
		for _, a := range set.Alignment {
			if z := am.Zone(a.ID); z != nil {
				fmt.Fprintf(os.Stdout, "  %s: %d (%s)\n", a.Name, am.Score(a.ID), z.Name)
				continue
			}
			fmt.Fprintf(os.Stdout, "  %s: %d\n", a.Name, am.Score(a.ID))
		}
	}

	return nil
}
