package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadState_Defaults(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, st.BaseURL)
	assert.False(t, st.LoggedIn())
}

func TestSaveThenLoadState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evalctl", "state.yaml")
	want := CLIState{BaseURL: "https://api.example.com", Token: "tok", UserID: "dir_carlos", Email: "carlos.diretor@ej.com"}

	require.NoError(t, SaveState(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.True(t, got.LoggedIn())
}

func TestLoadState_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, SaveState(path, CLIState{BaseURL: "https://file.example.com", Token: "tok", UserID: "u1"}))
	t.Setenv("EVALCTL_BASE_URL", "https://env.example.com")

	st, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", st.BaseURL)
	assert.Equal(t, "tok", st.Token)
}

func TestLoadState_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unterminated"), 0o600))

	_, err := LoadState(path)
	assert.Error(t, err)
}
