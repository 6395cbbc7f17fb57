// Package cli is the command-line surface of the study assistant. Every
// invocation is a single process: stores are opened fresh and the in-flight
// quiz is restored from the history file.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/conorfennell/studybuddy/internal/config"
	"github.com/conorfennell/studybuddy/internal/qa"
	"github.com/conorfennell/studybuddy/internal/quiz"
	"github.com/conorfennell/studybuddy/internal/similarity"
	"github.com/conorfennell/studybuddy/internal/storage"
)

// app holds what a command needs once configuration is resolved.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	cards   *storage.FlashcardStore
	history *storage.HistoryStore
	stop    similarity.StopWords
}

func newApp(cfg config.Config, log *slog.Logger) (*app, error) {
	stop, err := similarity.ForLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		log:     log,
		cards:   storage.NewFlashcardStore(cfg.StoreFile, log),
		history: storage.NewHistoryStore(cfg.HistoryFile, log),
		stop:    stop,
	}, nil
}

func (a *app) resolver() *qa.Resolver {
	return qa.NewResolver(a.cards, a.stop, a.cfg.Threshold, a.log)
}

func (a *app) engine(opts ...quiz.Option) *quiz.Engine {
	opts = append([]quiz.Option{
		quiz.WithAlternatives(a.cfg.Alternatives),
		quiz.WithLogger(a.log),
	}, opts...)
	return quiz.NewEngine(a.cards, a.history, opts...)
}

// NewRootCommand builds the full command tree. engineOpts are passed to
// every quiz engine the commands create.
func NewRootCommand(engineOpts ...quiz.Option) *cobra.Command {
	var a app

	root := &cobra.Command{
		Use:           "studybuddy",
		Short:         "Personal study assistant",
		Long:          "studybuddy answers questions from your flashcards and quizzes you on them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cmd.Flags(), configPath)
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			loaded, err := newApp(cfg, config.NewLogger(cfg))
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			a = *loaded
			a.log.Debug("configuration loaded", "store", cfg.StoreFile, "history", cfg.HistoryFile, "language", cfg.Language)
			return nil
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newAskCmd(&a),
		newAddCmd(&a),
		newGenerateCmd(&a),
		newSearchCmd(&a),
		newTopicsCmd(&a),
		newImportCmd(&a),
		newQuizCmd(&a, engineOpts),
		newHistoryCmd(&a),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
