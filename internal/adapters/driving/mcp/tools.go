package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/services"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Document string `json:"document" jsonschema:"document id (constitution or child_rights) or its chat trigger"`
	Question string `json:"question" jsonschema:"the question, in Russian"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Document  string         `json:"document"`
	Answer    string         `json:"answer"`
	Truncated bool           `json:"truncated,omitempty"`
	Failed    bool           `json:"failed,omitempty"`
	Sources   []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is one retrieved article.
type SourceOutput struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// ListDocumentsInput is the empty input of the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
}

// DocumentOutput describes one document and its engine.
type DocumentOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Trigger string `json:"trigger"`
	State   string `json:"state"`
	Chunks  int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the articles of one Belarusian legal document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the legal documents that can be asked about",
	}, s.handleListDocuments)
}

// handleAsk handles the ask tool invocation. Pipeline failures are reported
// as the fixed user-facing message with Failed set, not as tool errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	engine, ok := s.ports.engine(input.Document)
	if !ok {
		return nil, AskOutput{}, fmt.Errorf("%w: %q", domain.ErrUnknownDocument, input.Document)
	}

	output := AskOutput{Document: engine.Document().ID}

	answer, err := engine.Ask(ctx, input.Question)
	if err != nil {
		output.Answer = services.FailureMessage(err)
		output.Failed = true
		return nil, output, nil
	}

	output.Answer = answer.Text
	output.Truncated = answer.Truncated
	for _, hit := range answer.Sources {
		output.Sources = append(output.Sources, SourceOutput{
			Title: hit.Chunk.Title,
			Score: hit.Score,
			Text:  hit.Chunk.Text,
		})
	}
	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	return nil, ListDocumentsOutput{Documents: s.describeDocuments(ctx)}, nil
}

func (s *Server) describeDocuments(ctx context.Context) []DocumentOutput {
	docs := make([]DocumentOutput, len(s.ports.Engines))
	for i, e := range s.ports.Engines {
		status := e.Status(ctx)
		docs[i] = DocumentOutput{
			ID:      status.Document.ID,
			Name:    status.Document.Name,
			Trigger: status.Document.Trigger,
			State:   status.State.String(),
			Chunks:  status.Chunks,
		}
	}
	return docs
}
