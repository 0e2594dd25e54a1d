package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwhalen/escalation-helper/internal/engine"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single troubleshooting question",
	Long: `Answers one question from the knowledge base without the interactive
clarification dialog. Weak matches are answered anyway and flagged
low-confidence; use ` + "`eschelp chat`" + ` for the guided dialog.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, _, _, err := buildEngine(ctx, cfg, false)
	if err != nil {
		return err
	}

	res, err := eng.AskOnce(ctx, question)
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	if jsonOutput {
		return printAnswerJSON(question, res)
	}

	printAnswer(res)
	return nil
}

type answerJSON struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	LowConfidence bool     `json:"low_confidence"`
	Sources       []string `json:"sources,omitempty"`
}

func printAnswerJSON(question string, res *engine.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(answerJSON{
		Question:      question,
		Answer:        res.Answer,
		LowConfidence: res.LowConfidence,
		Sources:       res.Sources,
	})
}

func printAnswer(res *engine.Result) {
	fmt.Println(res.Answer)

	if len(res.Chunks) > 0 {
		fmt.Println("\nSources:")
		for _, c := range res.Chunks {
			fmt.Printf("  - %s [%s, %.1f%% similar]\n", c.Chunk.Source, c.RelevanceLabel(), c.SimilarityPct())
		}
	}
}
