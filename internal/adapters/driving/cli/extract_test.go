package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

func TestExtractCmd_Flags(t *testing.T) {
	for _, name := range []string{"posts", "emails", "overrides", "json", "db", "no-db", "workers"} {
		assert.NotNil(t, extractCmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestExtractCmd_UsesSettings(t *testing.T) {
	m := setupTestBackend(t)

	out, err := execute(t, "extract")
	require.NoError(t, err)

	assert.True(t, m.gotSinks)
	assert.Equal(t, domain.DefaultSettings().Inputs, m.gotSettings.Inputs)
	assert.Equal(t, 1, m.released)

	assert.Contains(t, out, "Extraction run-1")
	assert.Contains(t, out, "5 (3 by the participant)")
	assert.Contains(t, out, "Records:           2")
	assert.Contains(t, out, "Wrote docs/qa.json")
	assert.Contains(t, out, "default record database")
}

func TestExtractCmd_FlagsOverrideSettings(t *testing.T) {
	m := setupTestBackend(t)

	_, err := execute(t, "extract",
		"--posts", "p.json",
		"--emails", "mail",
		"--overrides", "o.yaml",
		"--json", "out/qa.json",
		"--db", "out/qa.db",
		"--workers", "8",
	)
	require.NoError(t, err)

	s := m.gotSettings
	assert.Equal(t, "p.json", s.Inputs.Posts)
	assert.Equal(t, "mail", s.Inputs.Emails)
	assert.Equal(t, "o.yaml", s.Inputs.Overrides)
	assert.Equal(t, "out/qa.json", s.Output.JSON)
	assert.Equal(t, "out/qa.db", s.Output.Database)
	assert.Equal(t, 8, s.Workers)
}

func TestExtractCmd_NoDB(t *testing.T) {
	m := setupTestBackend(t)

	out, err := execute(t, "extract", "--no-db")
	require.NoError(t, err)

	assert.Equal(t, domain.OutputDisabled, m.gotSettings.Output.Database)
	assert.NotContains(t, out, "Stored in")
	assert.NotContains(t, out, "record database")
}

func TestExtractCmd_Errors(t *testing.T) {
	t.Run("settings", func(t *testing.T) {
		m := setupTestBackend(t)
		m.settings.getErr = errors.New("bad toml")

		_, err := execute(t, "extract")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad toml")
	})

	t.Run("backend", func(t *testing.T) {
		m := setupTestBackend(t)
		m.extractionErr = errors.New("bad pattern")

		_, err := execute(t, "extract")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad pattern")
	})

	t.Run("extraction", func(t *testing.T) {
		m := setupTestBackend(t)
		m.extraction.extractErr = errors.New("posts unreadable")

		_, err := execute(t, "extract")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extraction failed")
		assert.Equal(t, 1, m.released)
	})

	t.Run("arguments", func(t *testing.T) {
		setupTestBackend(t)

		_, err := execute(t, "extract", "extra")
		assert.Error(t, err)
	})
}

func TestPrintExtraction(t *testing.T) {
	e := &domain.Extraction{
		RunID: "abc",
		Stats: domain.ExtractionStats{
			Messages: 10, Tracked: 4, SkippedNoBody: 1, SkippedMalformed: 2,
			OrphansDropped: 3, OverridesApplied: 5, BadTimestamps: 6,
		},
	}

	var buf bytes.Buffer
	printExtraction(&buf, e, domain.OutputSettings{Database: "qa.db"})

	out := buf.String()
	assert.Contains(t, out, "Extraction abc")
	assert.Contains(t, out, "1 without body, 2 malformed")
	assert.Contains(t, out, "Orphans dropped:   3")
	assert.Contains(t, out, "Overrides applied: 5")
	assert.Contains(t, out, "Bad timestamps:    6")
	assert.Contains(t, out, "Stored in qa.db")
	assert.NotContains(t, out, "Wrote")
}
