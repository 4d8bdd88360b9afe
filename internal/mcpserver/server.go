// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dagaz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halvard/dagaz/internal/apperr"
	"github.com/halvard/dagaz/internal/models"
	"github.com/halvard/dagaz/internal/notes"
	"github.com/halvard/dagaz/internal/syncer"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp   *server.MCPServer
	notes notes.Provider
	svc   *syncer.Service
}

// New creates a new MCP server with all Dagaz tools registered.
func New(np notes.Provider, svc *syncer.Service) *Server {
	s := &Server{notes: np, svc: svc}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_note_status",
		mcp.WithDescription("List every daily note on disk with its extraction status (Parsed or Missing), newest first."),
	), s.listNoteStatus)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the raw Markdown content of one daily note."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Note date in YYYY-MM-DD form")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_daily_metrics",
		mcp.WithDescription("Return extracted daily metrics. With a date, returns that day's row; "+
			"without, returns all rows, newest first. Field meaning is documented in the "+
			"dagaz://metrics-schema resource."),
		mcp.WithString("date", mcp.Description("Optional date in YYYY-MM-DD form (empty for all)")),
	), s.getDailyMetrics)

	s.mcp.AddTool(mcp.NewTool("parse_date",
		mcp.WithDescription("Run the extraction oracle over one daily note and store the result, "+
			"replacing any existing row for that date."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Note date in YYYY-MM-DD form")),
	), s.parseDate)

	s.mcp.AddTool(mcp.NewTool("list_procrastination_events",
		mcp.WithDescription("List all stored procrastination and dispersion events, newest first."),
	), s.listEvents)

	// Resource: metrics schema.
	s.mcp.AddResource(
		mcp.NewResource("dagaz://metrics-schema", "Daily Metrics Schema",
			mcp.WithResourceDescription("Field-by-field description of the extracted daily metrics."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMetricsSchemaResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNoteStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses, err := s.svc.NoteStatuses()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(statuses, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !models.ValidDate(date) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %s", date)), nil
	}
	data, err := s.notes.Read(date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", date)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getDailyMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := ""
	if d, err := req.RequireString("date"); err == nil {
		date = d
	}

	if date == "" {
		metrics, err := s.svc.ListMetrics()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, _ := json.MarshalIndent(metrics, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}

	if !models.ValidDate(date) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %s", date)), nil
	}
	metric, err := s.svc.GetMetric(date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no metrics for %s", date)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(metric, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) parseDate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !models.ValidDate(date) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %s", date)), nil
	}
	o := s.svc.ProcessDate(ctx, date)
	if !o.Success {
		return mcp.NewToolResultError(fmt.Sprintf("parse %s failed: %s", date, o.Error)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("parsed: %s", date)), nil
}

func (s *Server) listEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.svc.ListEvents()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(events, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readMetricsSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dagaz://metrics-schema",
			MIMEType: "text/markdown",
			Text:     MetricsSchema,
		},
	}, nil
}
