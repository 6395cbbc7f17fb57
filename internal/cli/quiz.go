package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/studybuddy/internal/domain"
	"github.com/conorfennell/studybuddy/internal/quiz"
)

func newQuizCmd(a *app, engineOpts []quiz.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Multiple-choice quiz over your flashcards",
	}

	// open restores the in-flight session, surfacing a damaged history file.
	open := func(cmd *cobra.Command) *quiz.Engine {
		if err := a.history.Load(); err != nil {
			_ = report(cmd.OutOrStdout(), err)
		}
		e := a.engine(engineOpts...)
		_ = report(cmd.OutOrStdout(), e.RestoreError())
		return e
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start a new quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			name, _ := cmd.Flags().GetString("name")
			topic, _ := cmd.Flags().GetString("topic")
			restart, _ := cmd.Flags().GetBool("restart")

			e := open(cmd)
			if restart {
				e.Reset()
			}
			q, err := e.Start(name, topic)
			if err != nil {
				return report(out, err)
			}
			s := e.Session()
			fmt.Fprintf(out, "Quiz %q started (topic: %s).\n", s.Name, s.Topic)
			printQuestion(out, q)
			return report(out, q.Warning)
		},
	}
	start.Flags().String("name", "quiz", "Name recorded in the history")
	start.Flags().String("topic", domain.AllTopics, "Only ask cards with this tag")
	start.Flags().Bool("restart", false, "Abandon any quiz in progress first")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current question",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			e := open(cmd)
			q, ok := e.Question()
			if !ok {
				fmt.Fprintln(out, "No quiz in progress. Start one with 'studybuddy quiz start'.")
				return nil
			}
			printQuestion(out, q)
			_ = report(out, q.Warning)
			s := e.Session()
			if e.State() == quiz.Submitted && len(s.DetailLog) > 0 {
				last := s.DetailLog[len(s.DetailLog)-1]
				fmt.Fprintf(out, "Answered: %s (%s). Run 'studybuddy quiz next' to continue.\n", last.UserAnswer, last.Outcome)
			}
			printScore(out, s)
			return nil
		},
	}

	answer := &cobra.Command{
		Use:   "answer <option text or number>",
		Short: "Answer the current question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			e := open(cmd)
			selected := strings.Join(args, " ")
			if q, ok := e.Question(); ok {
				selected = resolveOption(q.Options, selected)
			}

			res, err := e.SubmitAnswer(selected)
			if err != nil {
				return report(out, err)
			}
			if res.Correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Incorrect. The answer is: %s\n", res.CorrectAnswer)
			}
			printScore(out, e.Session())
			return nil
		},
	}

	next := &cobra.Command{
		Use:   "next",
		Short: "Move to the next question",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			q, err := open(cmd).Advance()
			if err != nil {
				return report(out, err)
			}
			printQuestion(out, q)
			return report(out, q.Warning)
		},
	}

	finish := &cobra.Command{
		Use:   "finish",
		Short: "Finish the quiz and record it in the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			snap, recorded, err := open(cmd).Finalize()
			if err != nil || !recorded {
				return report(out, err)
			}
			fmt.Fprintf(out, "Quiz %q finished: %d of %d correct.\n", snap.Name, snap.CorrectCount, snap.TotalAnswered)
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Abandon the quiz in progress without recording it",
		RunE: func(cmd *cobra.Command, args []string) error {
			open(cmd).Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Quiz reset.")
			return nil
		},
	}

	cmd.AddCommand(start, show, answer, next, finish, reset)
	return cmd
}

// resolveOption maps a 1-based option number to its text. Input that
// already names an option, or is not a valid number, is returned as is.
func resolveOption(options []string, input string) string {
	input = strings.TrimSpace(input)
	for _, o := range options {
		if o == input {
			return o
		}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return input
}

func printQuestion(out io.Writer, q quiz.Question) {
	fmt.Fprintf(out, "\nQuestion %d: %s\n", q.Number, q.Card.Question)
	if q.Card.ImageRef != "" {
		fmt.Fprintln(out, "  image:", q.Card.ImageRef)
	}
	for i, o := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, o)
	}
}

func printScore(out io.Writer, s domain.QuizSession) {
	fmt.Fprintf(out, "Score: %d/%d\n", s.CorrectCount, s.TotalAnswered)
}
