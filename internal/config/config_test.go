package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/studybuddy/internal/apperr"
)

func parsedFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(parsedFlags(t), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, "flashcards.json", cfg.StoreFile)
	assert.Equal(t, "quiz_history.json", cfg.HistoryFile)
	assert.Equal(t, "repos", cfg.ReposDir)
	assert.Equal(t, DefaultLanguage, cfg.Language)
	assert.Equal(t, DefaultThreshold, cfg.Threshold)
	assert.Equal(t, DefaultAlternatives, cfg.Alternatives)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	path := filepath.Join(dir, "studybuddy.yaml")
	yml := "data-dir: " + dataDir + "\nlanguage: english\nthreshold: 0.4\nalternatives: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("STUDYBUDDY_LANGUAGE", "none")
	t.Setenv("STUDYBUDDY_ALTERNATIVES", "3")

	cfg, err := Load(parsedFlags(t, "--threshold=0.5"), path)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir, "file beats flag default")
	assert.Equal(t, "none", cfg.Language, "env beats file")
	assert.Equal(t, 3, cfg.Alternatives, "env beats file")
	assert.Equal(t, 0.5, cfg.Threshold, "explicit flag beats file")
	assert.Equal(t, filepath.Join(dataDir, "flashcards.json"), cfg.StoreFile)
	assert.Equal(t, filepath.Join(dataDir, "quiz_history.json"), cfg.HistoryFile)
	assert.Equal(t, filepath.Join(dataDir, "repos"), cfg.ReposDir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STUDYBUDDY_LOG_FORMAT=json\n"), 0o644))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("STUDYBUDDY_LOG_FORMAT") })

	cfg, err := Load(parsedFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestAbsolutePathsAreKept(t *testing.T) {
	store := filepath.Join(t.TempDir(), "cards.json")
	cfg, err := Load(parsedFlags(t, "--data-dir=/srv/study", "--store-file="+store), "")
	require.NoError(t, err)

	assert.Equal(t, store, cfg.StoreFile)
	assert.Equal(t, filepath.Join("/srv/study", "quiz_history.json"), cfg.HistoryFile)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(parsedFlags(t), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown log level", []string{"--log-level=loud"}},
		{"unknown log format", []string{"--log-format=xml"}},
		{"unknown language", []string{"--language=klingon"}},
		{"threshold too high", []string{"--threshold=1.5"}},
		{"negative threshold", []string{"--threshold=-0.1"}},
		{"one alternative", []string{"--alternatives=1"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(parsedFlags(t, tc.args...), "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, Config{LogLevel: "warn", LogFormat: "json"})

	log.Info("hidden")
	log.Warn("shown", "cards", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"cards":3`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
