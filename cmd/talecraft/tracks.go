package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"talecraft/internal/config"
	"talecraft/internal/tracks"
)

func tracksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Display the current track definitions",
		RunE:  runTracks,
	}
	return cmd
}

func runTracks(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadProjectConfig(configFile)
	if err != nil {
		return err
	}

	set, err := tracks.Load(cfg.Tracks)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Influence domains (%d):\n", len(set.Influence))
	for _, d := range set.Influence {
		fmt.Fprintf(os.Stdout, "  %s (%s) range %d..%d, default %d\n", d.ID, d.Name, d.Min, d.Max, d.Default)
	}

	fmt.Fprintf(os.Stdout, "Prestige tracks (%d):\n", len(set.Prestige))
	for _, t := range set.Prestige {
		fmt.Fprintf(os.Stdout, "  %s (%s) decay %d\n", t.ID, t.Name, t.Decay)
		if len(t.Counters) > 0 {
			fmt.Fprintf(os.Stdout, "    counters: %s\n", strings.Join(t.Counters, ", "))
		}
		if len(t.Levels) > 0 {
			levels := make([]string, 0, len(t.Levels))
			for _, lvl := range t.Levels {
				levels = append(levels, fmt.Sprintf("%s@%d", lvl.ID, lvl.Threshold))
			}
			fmt.Fprintf(os.Stdout, "    levels: %s\n", strings.Join(levels, ", "))
		}
	}

	fmt.Fprintf(os.Stdout, "Alignment axes (%d):\n", len(set.Alignment))
	for _, a := range set.Alignment {
		fmt.Fprintf(os.Stdout, "  %s (%s)\n", a.ID, a.Name)
		if len(a.Zones) > 0 {
			zones := make([]string, 0, len(a.Zones))
			for _, z := range a.Zones {
				zones = append(zones, fmt.Sprintf("%s[%d..%d]", z.ID, z.Min, z.Max))
			}
			fmt.Fprintf(os.Stdout, "    zones: %s\n", strings.Join(zones, ", "))
		}
	}

	return nil
}
