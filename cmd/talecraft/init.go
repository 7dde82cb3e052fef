package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const starterTracks = `version: 1

influence:
  - id: city_watch
    name: City Watch
    description: Standing with the watch patrols and their captain.
    min: 0
    max: 100
    default: 35

prestige:
  - id: merchant_guild
    name: Merchant Guild
    description: Reputation among the trading houses.
    decay: 5
    levels:
      - id: associate
        name: Associate
        threshold: 0
      - id: partner
        name: Partner
        threshold: 50

alignment:
  - id: morality
    name: Morality
    zones:
      - id: cruel
        name: Cruel
        min: -100
        max: -20
      - id: kind
        name: Kind
        min: 20
        max: 100
`

const starterInteraction = `---
id: gate-pass
title: Gate Pass
type: interaction
tags: [watch]
prerequisites:
  groups:
    - conditions:
        - type: influence
          track: city_watch
          compare: at_least
          value: 20
  show_when_unavailable: true
  unavailable_message: The captain pretends not to see you.
effects:
  influence:
    - track: city_watch
      amount: 5
      note: Waved through the gate
---

The guards wave you through without a second glance.
`

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new talecraft project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	tracksPath := "tracks.yaml"
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("%s already exists", configFile)
	}
	if _, err := os.Stat(tracksPath); err == nil {
		return fmt.Errorf("%s already exists", tracksPath)
	}

	configContents := fmt.Sprintf("project: %s\nversion: 1\n\ndatabase:\n  dsn: sqlite://talecraft.db\n\ntracks: tracks.yaml\n\ncontent:\n  - ./content/\n\nexclude:\n  - ./content/drafts/\n", projectName)
	if err := os.WriteFile(configFile, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	if err := os.WriteFile(tracksPath, []byte(starterTracks), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", tracksPath, err)
	}

	if err := os.MkdirAll("content", 0o755); err != nil {
		return fmt.Errorf("creating content directory: %w", err)
	}
	examplePath := filepath.Join("content", "gate_pass.md")
	if _, err := os.Stat(examplePath); err == nil {
		return nil
	}
	if err := os.WriteFile(examplePath, []byte(starterInteraction), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", examplePath, err)
	}

	return nil
}
