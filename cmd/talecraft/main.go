package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "talecraft",
		Short: "Progression-gated narrative content toolkit",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(ingestCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(tracksCmd())
	root.AddCommand(interactionsCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(showCmd())
	root.AddCommand(profileCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(completeCmd())
	root.AddCommand(standingCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(decayCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
