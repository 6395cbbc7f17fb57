package gitsource

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGitURL(t *testing.T) {
	assert.True(t, IsGitURL("https://github.com/user/deck.git"))
	assert.True(t, IsGitURL("git@github.com:user/deck.git"))
	assert.True(t, IsGitURL("https://github.com/user/deck"))
	assert.False(t, IsGitURL("./decks"))
	assert.False(t, IsGitURL("/home/me/decks"))
}

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		url  string
		want string
	}{
		{"https://github.com/user/deck.git", filepath.Join("repos", "github.com", "user", "deck")},
		{"http://example.com/x/y", filepath.Join("repos", "example.com", "x", "y")},
		{"git@github.com:user/deck.git", filepath.Join("repos", "github.com", "user", "deck")},
	}
	for _, tc := range testCases {
		got, err := LocalPath("repos", tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got)
	}

	_, err := LocalPath("repos", "not a url")
	assert.Error(t, err)
}

func TestSyncPullsExistingRepoWithoutRemote(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	// A fresh repo has no origin, so the pull must fail with a wrapped error.
	err = Sync("unused", dir, nil, nil)
	assert.ErrorContains(t, err, "failed to")
}
