package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/services"
)

var (
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [document] [question]",
	Short: "Ask a question about a legal document",
	Long: `Answers a question using only the articles of one document.

The document is a document id (constitution, child_rights) or its chat
trigger. The first question builds the document's index if needed.`,
	Example: `  pravo ask constitution "Кто является источником государственной власти?"
  pravo ask child_rights "До какого возраста человек считается ребенком?" --sources`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "show the retrieved articles")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// answerJSON is the JSON form of an answer.
type answerJSON struct {
	Document  string       `json:"document"`
	Question  string       `json:"question"`
	Answer    string       `json:"answer"`
	Truncated bool         `json:"truncated"`
	Sources   []sourceJSON `json:"sources,omitempty"`
}

type sourceJSON struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	engine, err := a.Engine(args[0])
	if err != nil {
		return err
	}

	question := strings.Join(args[1:], " ")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	answer, err := engine.Ask(ctx, question)
	if err != nil {
		cmd.Println(services.FailureMessage(err))
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, engine.Document(), question, answer)
	}
	outputAnswerText(cmd, engine.Document(), answer)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, doc domain.LegalDocument, question string, answer *domain.Answer) error {
	out := answerJSON{
		Document:  doc.ID,
		Question:  question,
		Answer:    answer.Text,
		Truncated: answer.Truncated,
	}
	for _, hit := range answer.Sources {
		out.Sources = append(out.Sources, sourceJSON{
			Title: hit.Chunk.Title,
			Score: hit.Score,
			Text:  hit.Chunk.Text,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, doc domain.LegalDocument, answer *domain.Answer) {
	cmd.Printf("📜 %s\n\n", doc.Name)
	cmd.Println(answer.Text)

	if !askSources || len(answer.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, hit := range answer.Sources {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, hit.Chunk.Title, hit.Score)
	}
}
