// Package jsonfile writes extracted records as a JSON document.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/logger"
)

// Ensure Sink implements the interface.
var _ driven.RecordSink = (*Sink)(nil)

// record is the on-disk shape of a QARecord.
type record struct {
	ID             int    `json:"id"`
	Date           string `json:"date"`
	Source         string `json:"src"`
	Question       string `json:"q"`
	Answer         string `json:"a"`
	QuestionLength int    `json:"qlen"`
	AnswerLength   int    `json:"alen"`
	TotalLength    int    `json:"len"`
	Classification string `json:"type,omitempty"`
}

// Sink replaces the file at path with a tab-indented array of records.
type Sink struct {
	path string
}

// New creates a sink writing to path.
func New(path string) *Sink {
	return &Sink{path: path}
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return "json"
}

// Path returns the output file.
func (s *Sink) Path() string {
	return s.path
}

// Write encodes the records and replaces the file atomically.
func (s *Sink) Write(ctx context.Context, extraction *domain.Extraction) error {
	if extraction == nil {
		return eris.Wrap(domain.ErrInvalidInput, "nil extraction")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(extraction.Records)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return eris.Wrapf(err, "create output directory for %s", s.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return eris.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "write records")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "chmod output")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "replace %s", s.path)
	}

	logger.Debug("Wrote %d records to %s", len(extraction.Records), s.path)
	return nil
}

// Encode renders records in the output format.
func Encode(records []domain.QARecord) ([]byte, error) {
	out := make([]record, len(records))
	for i := range records {
		r := &records[i]
		out[i] = record{
			ID:             r.ID,
			Date:           r.FormattedDate(),
			Source:         r.Source,
			Question:       r.Question,
			Answer:         r.Answer,
			QuestionLength: r.QuestionLength,
			AnswerLength:   r.AnswerLength,
			TotalLength:    r.TotalLength,
			Classification: r.Classification,
		}
	}

	data, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		return nil, eris.Wrap(err, "encode records")
	}
	return append(data, '\n'), nil
}
