package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"talecraft/internal/config"
	"talecraft/internal/content"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display an interaction with its prerequisites and effects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
	return cmd
}

func runShow(cmd *cobra.Command, id string) error {
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

	in, err := db.GetInteraction(ctx, id)
	if err != nil {
		return err
	}
	if in == nil {
		fmt.Fprintf(os.Stdout, "No interaction found for %q.\n", id)
		return nil
	}

	doc := &in.Doc
	fmt.Fprintf(os.Stdout, "ID: %s\n", doc.ID)
	fmt.Fprintf(os.Stdout, "Title: %s\n", doc.Title)
	if len(doc.Tags) > 0 {
		fmt.Fprintf(os.Stdout, "Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	if doc.SourceFile != "" {
		fmt.Fprintf(os.Stdout, "Source: %s\n", doc.SourceFile)
	}

	if len(doc.Prerequisites.Groups) > 0 {
		fmt.Fprintln(os.Stdout, "Prerequisites:")
		for i, group := range doc.Prerequisites.Groups {
			fmt.Fprintf(os.Stdout, "  group %d (%s):\n", i+1, group.Operator)
			for _, condition := range group.Conditions {
				fmt.Fprintf(os.Stdout, "    - %s\n", formatCondition(condition))
			}
		}
		if doc.Prerequisites.ShowWhenUnavailable {
			fmt.Fprintf(os.Stdout, "  when unavailable: %q\n", doc.Prerequisites.UnavailableMessage)
		}
	}

	if len(doc.Effects.Influence)+len(doc.Effects.Prestige)+len(doc.Effects.Alignment) > 0 {
		fmt.Fprintln(os.Stdout, "Effects:")
		printEffects(os.Stdout, "influence", doc.Effects.Influence)
		printEffects(os.Stdout, "prestige", doc.Effects.Prestige)
		printEffects(os.Stdout, "alignment", doc.Effects.Alignment)
	}

	if doc.Body != "" {
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, doc.Body)
	}
	return nil
}

func formatCondition(c content.Condition) string {
	switch c.Type {
	case content.ConditionInfluence, content.ConditionPrestige, content.ConditionAlignment:
		switch {
		case c.Type == content.ConditionPrestige && c.Level != "":
			return fmt.Sprintf("prestige %s level %s", c.Track, c.Level)
		case c.Type == content.ConditionAlignment && c.Zone != "":
			return fmt.Sprintf("alignment %s zone %s", c.Track, c.Zone)
		case c.Compare == content.CompareBetween:
			return fmt.Sprintf("%s %s between %d and %d", c.Type, c.Track, c.Value, c.Max)
		default:
			return fmt.Sprintf("%s %s %s %d", c.Type, c.Track, c.Compare, c.Value)
		}
	case content.ConditionLevel:
		if c.Compare == content.CompareBetween {
			return fmt.Sprintf("level between %d and %d", c.Value, c.Max)
		}
		return fmt.Sprintf("level %s %d", c.Compare, c.Value)
	case content.ConditionSkill:
		if c.Compare == content.CompareBetween {
			return fmt.Sprintf("skill %s between %d and %d", c.Skill, c.Value, c.Max)
		}
		return fmt.Sprintf("skill %s %s %d", c.Skill, c.Compare, c.Value)
	case content.ConditionQuest:
		return fmt.Sprintf("quest %s completed", c.Quest)
	case content.ConditionItem:
		return fmt.Sprintf("item %s x%d", c.Item, c.Count)
	default:
		return string(c.Type)
	}
}

func printEffects(out *os.File, category string, effects []content.Effect) {
	for _, eff := range effects {
		line := fmt.Sprintf("  %s %s %+d", category, eff.Track, eff.Amount)
		if eff.Note != "" {
			line = fmt.Sprintf("%s (%s)", line, eff.Note)
		}
		fmt.Fprintln(out, line)
	}
}
