package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// defaultSearchLimit caps search_pairs when the caller gives no limit.
const defaultSearchLimit = 10

// SegmentInput is the input schema for the segment_message tool.
type SegmentInput struct {
	Convention string `json:"convention" jsonschema:"message convention: email or forum"`
	Body       string `json:"body" jsonschema:"raw message body (plain text for email, HTML for forum)"`
}

// SegmentOutput is the output schema for the segment_message tool.
type SegmentOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// RunOutput is one text run of a segmented message.
type RunOutput struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// SearchPairsInput is the input schema for the search_pairs tool.
type SearchPairsInput struct {
	Query string `json:"query" jsonschema:"text to look for in questions and answers"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of pairs to return (default 10)"`
}

// SearchPairsOutput is the output schema for the search_pairs tool.
type SearchPairsOutput struct {
	Pairs []PairOutput `json:"pairs"`
	Count int          `json:"count"`
}

// PairOutput represents a single extracted record.
type PairOutput struct {
	ID       int    `json:"id"`
	Date     string `json:"date"`
	Source   string `json:"src"`
	Question string `json:"q"`
	Answer   string `json:"a"`
	Type     string `json:"type,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "segment_message",
		Description: "Split a message body into alternating authored and quoted runs",
	}, s.handleSegment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_pairs",
		Description: "Search extracted question/answer pairs of the latest run",
	}, s.handleSearchPairs)
}

// handleSegment handles the segment_message tool invocation.
func (s *Server) handleSegment(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SegmentInput,
) (*mcp.CallToolResult, SegmentOutput, error) {
	runs, err := s.ports.Extraction.SegmentBody(domain.Convention(input.Convention), input.Body)
	if err != nil {
		return nil, SegmentOutput{}, err
	}

	output := SegmentOutput{
		Runs:  make([]RunOutput, len(runs)),
		Count: len(runs),
	}
	for i, run := range runs {
		output.Runs[i] = RunOutput{Tag: run.Tag.String(), Text: run.Text}
	}
	return nil, output, nil
}

// handleSearchPairs handles the search_pairs tool invocation.
func (s *Server) handleSearchPairs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPairsInput,
) (*mcp.CallToolResult, SearchPairsOutput, error) {
	if s.ports.Records == nil {
		return nil, SearchPairsOutput{}, ErrRecordsUnavailable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records, err := s.ports.Records.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchPairsOutput{}, eris.Wrap(err, "searching pairs")
	}

	output := SearchPairsOutput{
		Pairs: make([]PairOutput, len(records)),
		Count: len(records),
	}
	for i := range records {
		output.Pairs[i] = toPairOutput(&records[i])
	}
	return nil, output, nil
}

func toPairOutput(r *domain.QARecord) PairOutput {
	return PairOutput{
		ID:       r.ID,
		Date:     r.FormattedDate(),
		Source:   r.Source,
		Question: r.Question,
		Answer:   r.Answer,
		Type:     r.Classification,
	}
}
