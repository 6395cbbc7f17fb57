// Package importer pulls flashcard decks from markdown files into the store.
package importer

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conorfennell/studybuddy/internal/domain"
	"github.com/conorfennell/studybuddy/internal/gitsource"
	"github.com/conorfennell/studybuddy/internal/knol"
	"github.com/conorfennell/studybuddy/internal/parser"
	"github.com/conorfennell/studybuddy/internal/storage"
)

// Report summarizes one import run.
type Report struct {
	Source     string
	Files      int
	Parsed     int
	Added      int
	Duplicates int
	Invalid    int
	Errors     []error
}

// Importer reconciles a deck source with the flashcard store.
type Importer struct {
	store    *storage.FlashcardStore
	reposDir string
	progress io.Writer
	log      *slog.Logger
}

// New returns an Importer that checks git sources out under reposDir.
func New(store *storage.FlashcardStore, reposDir string, progress io.Writer, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{store: store, reposDir: reposDir, progress: progress, log: log}
}

// Import reads every markdown deck under source, a local directory or a git
// URL, and appends the cards not already in the store. extraTags are added
// to every imported card. Running the same import twice adds nothing the
// second time.
func (im *Importer) Import(source string, extraTags []string) (Report, error) {
	report := Report{Source: source}

	dir := source
	if gitsource.IsGitURL(source) {
		local, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return report, err
		}
		if err := gitsource.Sync(source, local, im.progress, im.log); err != nil {
			return report, err
		}
		dir = local
	}

	existing, err := im.store.Load()
	if err != nil {
		return report, fmt.Errorf("cannot import into unreadable store: %w", err)
	}
	known := knol.NewSet(existing)

	var fresh []domain.Flashcard
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		report.Files++
		cards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		for _, c := range cards {
			report.Parsed++
			c.Tags = append(c.Tags, extraTags...)
			prepared, err := im.store.Prepare(c)
			if err != nil {
				report.Invalid++
				report.Errors = append(report.Errors, fmt.Errorf("%s: %w", path, err))
				continue
			}
			if !known.Add(prepared) {
				report.Duplicates++
				continue
			}
			fresh = append(fresh, prepared)
		}
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	if len(fresh) > 0 {
		if _, err := im.store.AppendAll(fresh); err != nil {
			return report, err
		}
	}
	report.Added = len(fresh)

	im.log.Info("import complete",
		"source", source,
		"files", report.Files,
		"parsed", report.Parsed,
		"added", report.Added,
		"duplicates", report.Duplicates,
		"invalid", report.Invalid,
	)
	return report, nil
}
