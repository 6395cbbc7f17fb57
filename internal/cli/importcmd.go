package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/studybuddy/internal/importer"
	"github.com/conorfennell/studybuddy/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir-or-git-url>",
		Short: "Import markdown decks from a directory or git repository",
		Long: `Import reads every .md file under the source and adds the cards it
does not already know. Cards are written as blocks:

  Q: question
  A: answer
  T: tag1, tag2
  I: https://example.com/image.png
  ---`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			tags, _ := cmd.Flags().GetString("tags")

			im := importer.New(a.cards, a.cfg.ReposDir, cmd.ErrOrStderr(), a.log)
			rep, err := im.Import(args[0], storage.ParseTags(tags))
			if err != nil {
				return report(out, err)
			}

			fmt.Fprintf(out, "Scanned %d files, found %d cards: %d added, %d already known, %d invalid.\n",
				rep.Files, rep.Parsed, rep.Added, rep.Duplicates, rep.Invalid)
			for _, e := range rep.Errors {
				fmt.Fprintf(out, "- %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags added to every imported card")
	return cmd
}
