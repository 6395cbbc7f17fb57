package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/studybuddy/internal/domain"
	"github.com/conorfennell/studybuddy/internal/generator"
	"github.com/conorfennell/studybuddy/internal/storage"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from your flashcards",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ans, err := a.resolver().Answer(strings.Join(args, " "))
			if err != nil {
				return report(out, err)
			}
			fmt.Fprintln(out, ans.Text)
			fmt.Fprintf(out, "  (matched %q, similarity %.2f)\n", ans.MatchedQuestion, ans.Score)
			if ans.ImageRef != "" {
				fmt.Fprintln(out, "  image:", ans.ImageRef)
			}
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a flashcard",
		RunE: func(cmd *cobra.Command, args []string) error {
			question, _ := cmd.Flags().GetString("question")
			answer, _ := cmd.Flags().GetString("answer")
			tags, _ := cmd.Flags().GetString("tags")
			image, _ := cmd.Flags().GetString("image")

			card, err := a.cards.Append(domain.Flashcard{
				Question: question,
				Answer:   answer,
				Tags:     storage.ParseTags(tags),
				ImageRef: image,
			})
			if err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", card.Question)
			return nil
		},
	}
	cmd.Flags().StringP("question", "q", "", "Question text")
	cmd.Flags().StringP("answer", "a", "", "Answer text")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().String("image", "", "Image URL or file path")
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <text>",
		Short: "Draft a flashcard from a paragraph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			save, _ := cmd.Flags().GetBool("save")

			var g generator.Generator = generator.NewHeuristic(a.stop)
			question, answer, ok := g.Generate(strings.Join(args, " "))
			if !ok {
				fmt.Fprintln(out, "Could not draft a flashcard from that text. Try another paragraph.")
				return nil
			}
			fmt.Fprintln(out, "Q:", question)
			fmt.Fprintln(out, "A:", answer)
			if !save {
				return nil
			}

			tags := append([]string(nil), generator.Tags...)
			if _, err := a.cards.Append(domain.Flashcard{Question: question, Answer: answer, Tags: tags}); err != nil {
				return report(out, err)
			}
			fmt.Fprintln(out, "Saved.")
			return nil
		},
	}
	cmd.Flags().Bool("save", false, "Append the generated card to the store")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find flashcards containing a term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cards, err := a.cards.Search(strings.Join(args, " "))
			if err != nil {
				return report(out, err)
			}
			if len(cards) == 0 {
				fmt.Fprintln(out, "No flashcards found.")
				return nil
			}
			for _, c := range cards {
				printCard(cmd, c)
			}
			return nil
		},
	}
}

func newTopicsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List every tag in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			topics, err := a.cards.Topics()
			if err != nil {
				return report(out, err)
			}
			if len(topics) == 0 {
				fmt.Fprintln(out, "No topics yet.")
				return nil
			}
			for _, t := range topics {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}

func printCard(cmd *cobra.Command, c domain.Flashcard) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Q:", c.Question)
	fmt.Fprintln(out, "A:", c.Answer)
	if len(c.Tags) > 0 {
		fmt.Fprintln(out, "T:", strings.Join(c.Tags, ", "))
	}
	if c.ImageRef != "" {
		fmt.Fprintln(out, "I:", c.ImageRef)
	}
	fmt.Fprintln(out, "---")
}
