package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect finished quizzes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List finished quizzes, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := a.history.Load(); err != nil {
				_ = report(out, err)
			}
			sessions := a.history.History()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No quizzes recorded yet.")
				return nil
			}

			fmt.Fprintf(out, "%-20s  %-16s  %-7s  %-16s\n", "Name", "Topic", "Score", "Finished")
			fmt.Fprintln(out, strings.Repeat("─", 65))
			for _, s := range sessions {
				finished := "-"
				if s.FinishedAt != nil {
					finished = s.FinishedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "%-20s  %-16s  %-7s  %-16s\n",
					truncate(s.Name, 20),
					truncate(s.Topic, 16),
					fmt.Sprintf("%d/%d", s.CorrectCount, s.TotalAnswered),
					finished,
				)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded quiz and the quiz in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				fmt.Fprintln(out, "This deletes the whole quiz history. Re-run with --yes to confirm.")
				return nil
			}
			if err := a.history.Clear(); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintln(out, "History cleared.")
			return nil
		},
	}
	clearCmd.Flags().Bool("yes", false, "Confirm deletion")

	cmd.AddCommand(list, clearCmd)
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
