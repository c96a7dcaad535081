// Package mcpadapter exposes notice parsing and eligibility assessment as MCP
// tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/seykim2025/kgoverment-proj/internal/core/document"
	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
)

const (
	ServerName = "grantcheck"

	toolParseNotice     = "parse_notice"
	toolAssess          = "assess_eligibility"
	toolListAssessments = "list_assessments"

	defaultListLimit = 20
	maxListLimit     = 200
)

type Server struct {
	parser      ports.DocumentParser
	assessments ports.AssessmentService
	maxBytes    int64
	srv         *server.MCPServer
}

// New registers the tools on a fresh MCP server. maxBytes bounds the files
// parse_notice will read.
func New(parser ports.DocumentParser, assessments ports.AssessmentService, maxBytes int64, version string) *Server {
	s := &Server{
		parser:      parser,
		assessments: assessments,
		maxBytes:    maxBytes,
		srv: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.register()
	return s
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.srv
}

// ServeStdio blocks until stdin closes or the process is signalled.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.srv)
}

func (s *Server) register() {
	s.srv.AddTool(mcp.NewTool(toolParseNotice,
		mcp.WithDescription("Extract normalized text, page count and labelled sections from a grant notice PDF."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to a local .pdf file")),
	), s.parseNotice)

	s.srv.AddTool(mcp.NewTool(toolAssess,
		mcp.WithDescription("Judge the registered company's eligibility for a grant notice and store the assessment."),
		mcp.WithString("notice_id", mcp.Description("Id of an uploaded notice")),
		mcp.WithString("notice_title", mcp.Description("Notice title when no notice_id is given")),
		mcp.WithString("notice_content", mcp.Description("Notice body when no notice_id is given")),
	), s.assess)

	s.srv.AddTool(mcp.NewTool(toolListAssessments,
		mcp.WithDescription("List stored assessments, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of assessments"), mcp.Min(1), mcp.Max(maxListLimit)),
	), s.listAssessments)
}

type parseNoticeResult struct {
	Document domain.ParsedDocument `json:"document"`
	Sections domain.NoticeSections `json:"sections"`
}

func (s *Server) parseNotice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.readNotice(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parsed, err := s.parser.Parse(ctx, data)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("parse notice", err), nil
	}
	return jsonResult(parseNoticeResult{Document: parsed, Sections: document.ExtractSections(parsed.Text)})
}

func (s *Server) readNotice(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, errors.New("only .pdf files can be parsed")
	}
	return document.ReadFileLimited(path, s.maxBytes)
}

func (s *Server) assess(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assessment, err := s.assessments.Run(ctx, ports.AssessmentRequest{
		NoticeID:      req.GetString("notice_id", ""),
		NoticeTitle:   req.GetString("notice_title", ""),
		NoticeContent: req.GetString("notice_content", ""),
	})
	if err != nil {
		return assessmentError(err), nil
	}
	return jsonResult(assessment)
}

func (s *Server) listAssessments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		return mcp.NewToolResultErrorf("limit must be between 1 and %d", maxListLimit), nil
	}
	items, err := s.assessments.List(ctx, limit)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("list assessments", err), nil
	}
	if items == nil {
		items = []domain.AssessmentSummary{}
	}
	return jsonResult(map[string]any{"assessments": items})
}

// assessmentError surfaces the raw engine reply next to the failure.
func assessmentError(err error) *mcp.CallToolResult {
	var assessErr *domain.AssessmentError
	if errors.As(err, &assessErr) && assessErr.Outcome != nil && assessErr.Outcome.RawTrace != "" {
		return mcp.NewToolResultErrorf("%v\n\nraw engine reply:\n%s", err, assessErr.Outcome.RawTrace)
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
