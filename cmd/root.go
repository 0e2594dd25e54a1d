package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "eschelp",
	Short: "Knowledge-base assistant for POS support escalations",
	Long: `Escalation Helper answers POS troubleshooting questions from your
team's knowledge base. It retrieves the most relevant articles with
semantic search, asks a clarifying question when the match is weak,
and generates a grounded answer with sources.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".eschelp.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
