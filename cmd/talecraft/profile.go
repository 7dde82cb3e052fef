package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"talecraft/internal/config"
	"talecraft/internal/store"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage test profiles for previewing content",
	}
	cmd.AddCommand(profileCreateCmd())
	cmd.AddCommand(profileListCmd())
	cmd.AddCommand(profileShowCmd())
	return cmd
}

func profileCreateCmd() *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileCreate(cmd, args[0], level)
		},
	}
	cmd.Flags().IntVar(&level, "level", 1, "Starting character level")
	return cmd
}

func runProfileCreate(cmd *cobra.Command, name string, level int) error {
	ctx := context.Background()

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("profile name is required")
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

	p := &store.Profile{
		ID:    uuid.NewString(),
		Name:  name,
		Level: level,
	}
	if err := db.CreateProfile(ctx, p); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Created profile %s (%s).\n", p.Name, p.ID)
	return nil
}

func profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfileList,
	}
}

func runProfileList(cmd *cobra.Command, args []string) error {
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

	profiles, err := db.ListProfiles(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(os.Stdout, "No profiles found.")
		return nil
	}

	for _, p := range profiles {
		fmt.Fprintf(os.Stdout, "%s (level %d) %s\n", p.Name, p.Level, p.ID)
	}
	return nil
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name-or-id>",
		Short: "Display a profile's stored state",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(cmd, args[0])
		},
	}
}

func runProfileShow(cmd *cobra.Command, ref string) error {
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

	p, err := db.GetProfile(ctx, ref)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintf(os.Stdout, "No profile found for %q.\n", ref)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Name: %s\n", p.Name)
	fmt.Fprintf(os.Stdout, "ID: %s\n", p.ID)
	fmt.Fprintf(os.Stdout, "Level: %d\n", p.Level)
	printScoreBlock("Skills", p.Skills)
	printScoreBlock("Inventory", p.Inventory)
	if len(p.CompletedQuests) > 0 {
		quests := make([]string, 0, len(p.CompletedQuests))
		for quest, done := range p.CompletedQuests {
			if done {
				quests = append(quests, quest)
			}
		}
		sort.Strings(quests)
		fmt.Fprintf(os.Stdout, "Completed quests: %s\n", strings.Join(quests, ", "))
	}
	printScoreBlock("Influence", p.Influence)
	printScoreBlock("Prestige", p.Prestige)
	printScoreBlock("Alignment", p.Alignment)
	return nil
}

func printScoreBlock(title string, scores map[string]int) {
	if len(scores) == 0 {
		return
	}
	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Fprintf(os.Stdout, "%s:\n", title)
	for _, key := range keys {
		fmt.Fprintf(os.Stdout, "  %s: %d\n", key, scores[key])
	}
}
