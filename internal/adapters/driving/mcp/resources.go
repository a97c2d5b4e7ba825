package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for qapairs resources.
	uriScheme = "qapairs://"

	recordsURI = uriScheme + "records"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         recordsURI,
		Name:        "records",
		Description: "Every question/answer pair of the latest extraction run",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: recordsURI + "/{id}",
		Name:        "record",
		Description: "A single question/answer pair by ID",
		MIMEType:    "application/json",
	}, s.handleRecordResource)
}

// handleRecordsResource returns all records of the latest run.
func (s *Server) handleRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return jsonResult(req.Params.URI, []PairOutput{})
	}

	records, err := s.ports.Records.List(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return jsonResult(req.Params.URI, []PairOutput{})
	}
	if err != nil {
		return nil, eris.Wrap(err, "listing records")
	}

	pairs := make([]PairOutput, len(records))
	for i := range records {
		pairs[i] = toPairOutput(&records[i])
	}
	return jsonResult(req.Params.URI, pairs)
}

// handleRecordResource returns one record.
func (s *Server) handleRecordResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id, ok := extractRecordID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.Records.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "getting record %d", id)
	}
	return jsonResult(req.Params.URI, toPairOutput(record))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshalling resource")
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRecordID extracts the record ID from a URI like qapairs://records/{id}.
func extractRecordID(uri string) (int, bool) {
	const prefix = recordsURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return 0, false
	}
	return id, true
}
