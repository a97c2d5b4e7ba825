package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

func TestSegmentCmd_Stdin(t *testing.T) {
	m := setupTestBackend(t)
	m.extraction.runs = domain.Runs{
		{Tag: domain.Quoted, Text: "What about X?"},
		{Tag: domain.Authored, Text: "X works like this."},
	}

	out, err := executeWithInput(t, "> What about X?\nX works like this.", "segment")
	require.NoError(t, err)

	assert.False(t, m.gotSinks)
	assert.Equal(t, domain.ConventionEmail, m.extraction.gotConv)
	assert.Equal(t, "> What about X?\nX works like this.", m.extraction.gotBody)
	assert.Contains(t, out, "[0] quoted\nWhat about X?\n")
	assert.Contains(t, out, "[1] authored\nX works like this.\n")
	assert.Equal(t, 1, m.released)
}

func TestSegmentCmd_FileWithConvention(t *testing.T) {
	m := setupTestBackend(t)
	m.extraction.runs = domain.Runs{{Tag: domain.Authored, Text: "Hello"}}

	path := filepath.Join(t.TempDir(), "post.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>Hello</p>"), 0o600))

	out, err := execute(t, "segment", "--convention", "forum", path)
	require.NoError(t, err)

	assert.Equal(t, domain.ConventionForum, m.extraction.gotConv)
	assert.Equal(t, "<p>Hello</p>", m.extraction.gotBody)
	assert.Contains(t, out, "[0] authored")
}

func TestSegmentCmd_JSON(t *testing.T) {
	m := setupTestBackend(t)
	m.extraction.runs = domain.Runs{
		{Tag: domain.Quoted, Text: "Q"},
		{Tag: domain.Authored, Text: "A"},
	}

	out, err := executeWithInput(t, "body", "segment", "--json")
	require.NoError(t, err)

	var runs []segmentRun
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	assert.Equal(t, []segmentRun{{Tag: "quoted", Text: "Q"}, {Tag: "authored", Text: "A"}}, runs)
}

func TestSegmentCmd_NoRuns(t *testing.T) {
	setupTestBackend(t)

	out, err := executeWithInput(t, "", "segment")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs.")
}

func TestSegmentCmd_Errors(t *testing.T) {
	t.Run("segmentation", func(t *testing.T) {
		m := setupTestBackend(t)
		m.extraction.segmentErr = domain.ErrUnsupportedConvention

		_, err := executeWithInput(t, "body", "segment", "-c", "usenet")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedConvention)
		assert.Equal(t, domain.Convention("usenet"), m.extraction.gotConv)
	})

	t.Run("missing file", func(t *testing.T) {
		setupTestBackend(t)

		_, err := execute(t, "segment", filepath.Join(t.TempDir(), "missing.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading message")
	})

	t.Run("backend", func(t *testing.T) {
		m := setupTestBackend(t)
		m.extractionErr = errors.New("bad pattern")

		_, err := executeWithInput(t, "body", "segment")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad pattern")
	})

	t.Run("too many arguments", func(t *testing.T) {
		setupTestBackend(t)

		_, err := execute(t, "segment", "a", "b")
		assert.Error(t, err)
	})
}
