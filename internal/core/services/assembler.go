package services

import (
	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// AssemblePairs turns resolved runs into question/answer pairs.
//
// Runs must start with a quoted run and alternate; anything else is
// reported as domain.ErrMalformedSegmentation. Runs are read in pairs
// (2k, 2k+1) and a pair is emitted only when both texts are non-empty.
// A trailing quote with no reply is ignored.
func AssemblePairs(msg *domain.RawMessage, runs domain.Runs) ([]domain.QAPair, error) {
	if err := runs.ValidateFrom(domain.Quoted); err != nil {
		return nil, err
	}

	var pairs []domain.QAPair
	for i := 0; i+1 < len(runs); i += 2 {
		question, answer := runs[i].Text, runs[i+1].Text
		if question == "" || answer == "" {
			continue
		}
		pairs = append(pairs, domain.QAPair{
			Convention: msg.Convention,
			RawDate:    msg.Date,
			URL:        msg.URL,
			Question:   question,
			Answer:     answer,
		})
	}
	return pairs, nil
}
