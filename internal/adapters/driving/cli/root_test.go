package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"extract", "segment", "records", "watch", "browse", "mcp", "config", "version"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "qapairs", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "quoted")
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)

	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestInitBackend_UsesConfigDir(t *testing.T) {
	oldBackend, oldFactory := backend, newBackend
	defer func() { backend, newBackend = oldBackend, oldFactory }()

	var gotDir string
	m := &mockBackend{settings: &mockSettingsService{}}
	backend = nil
	newBackend = func(dir string) (Backend, error) {
		gotDir = dir
		return m, nil
	}

	_, err := execute(t, "--config-dir", "/tmp/qapairs-test", "config", "validate")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/qapairs-test", gotDir)
	assert.Same(t, m, backend)
}

func TestInitBackend_CachesBackend(t *testing.T) {
	m := setupTestBackend(t)
	oldFactory := newBackend
	defer func() { newBackend = oldFactory }()

	newBackend = func(string) (Backend, error) {
		t.Fatal("backend should not be rebuilt")
		return nil, nil
	}

	require.NoError(t, initBackend())
	assert.Same(t, m, backend)
}

func TestInitBackend_Error(t *testing.T) {
	oldBackend, oldFactory := backend, newBackend
	defer func() { backend, newBackend = oldBackend, oldFactory }()

	backend = nil
	newBackend = func(string) (Backend, error) {
		return nil, errors.New("config unreadable")
	}

	_, err := execute(t, "config", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config unreadable")
	assert.Nil(t, backend)
}

func TestVerboseFlag(t *testing.T) {
	setupTestBackend(t)

	_, err := execute(t, "-v", "config", "validate")

	assert.NoError(t, err)
}
