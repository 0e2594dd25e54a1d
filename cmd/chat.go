package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive troubleshooting session",
	Long: `Starts an interactive session. When a question matches the knowledge
base weakly, the assistant asks a clarifying question before answering.
Type "exit" or press Ctrl-D to quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, _, database, err := buildEngine(ctx, cfg, true)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	sessionID := eng.NewSessionID()
	fmt.Println("Escalation Helper — describe the issue. Type \"exit\" to quit.")

	for {
		prompt := promptui.Prompt{Label: "you"}
		input, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "exit", "quit":
			return nil
		case "new":
			sessionID = eng.NewSessionID()
			fmt.Println("Started a new session.")
			continue
		}

		res, err := eng.Handle(ctx, sessionID, input)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		if res.NeedsClarification {
			fmt.Printf("\n%s\n\n", res.Question)
			continue
		}

		fmt.Println()
		printAnswer(res)
		fmt.Println()
	}
}
