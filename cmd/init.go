package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwhalen/escalation-helper/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file via an interactive wizard",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(".eschelp.yml"); err == nil {
		return fmt.Errorf(".eschelp.yml already exists; remove it first to re-run init")
	}

	if _, err := config.RunWizard(); err != nil {
		return err
	}

	fmt.Println("\nNext: run `eschelp ingest` to index your knowledge base.")
	return nil
}
