// Package overrides reads the manual correction table keyed by source URL.
package overrides

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.OverrideStore = (*Store)(nil)

// entry is one row of the table as written by hand.
type entry struct {
	Parts []string `json:"parts,omitempty" yaml:"parts,omitempty"`
	Prev  *int     `json:"prev,omitempty" yaml:"prev,omitempty"`
	Type  string   `json:"type,omitempty" yaml:"type,omitempty"`
}

// Store loads overrides from a JSON or YAML file chosen by extension.
type Store struct {
	path string
}

// New creates a store for path. An empty path yields an empty table.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the table location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the table. A missing file is an empty table.
func (s *Store) Load(ctx context.Context) (domain.Overrides, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return domain.Overrides{}, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("No overrides at %s", s.path)
		return domain.Overrides{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read overrides %s", s.path)
	}

	entries := map[string]entry{}
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "decode overrides %s", s.path)
	}

	table := make(domain.Overrides, len(entries))
	for url, e := range entries {
		table[url] = domain.Override{Parts: e.Parts, Prev: e.Prev, Type: e.Type}
	}

	logger.Debug("Loaded %d overrides from %s", len(table), s.path)
	return table, nil
}
