package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/analyze"
	"github.com/Chunkys0up7/webvisibility/pkg/simulate"
)

// handleAnalyzeURL runs the full analysis pipeline for one URL.
func (s *Server) handleAnalyzeURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	opts := analyze.Options{
		UserAgent:        request.GetString("user_agent", ""),
		EnableDirectives: request.GetBool("include_directives", true),
		EnableLLMView:    true,
		SkipCache:        request.GetBool("skip_cache", false),
	}

	s.log.WithField("url", url).Info("MCP analyze_url request")

	report, err := s.analyzer.Analyze(ctx, url, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(report)), nil
}

// handleLLMView returns only the markdown rendition of a page.
func (s *Server) handleLLMView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	s.log.WithField("url", url).Info("MCP llm_view request")

	report, err := s.analyzer.Analyze(ctx, url, analyze.Options{EnableLLMView: true})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
	}
	if report.LLMView == nil {
		return mcp.NewToolResultError("No markdown rendition could be built for this page"), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"url":         url,
		"markdown":    report.LLMView.Markdown,
		"token_count": report.LLMView.TokenCount,
		"chunks":      report.LLMView.Chunks,
	})), nil
}

// handleListProfiles lists the built-in crawler profiles.
func (s *Server) handleListProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"profiles": simulate.Profiles(),
	})), nil
}

// handleGetReport serves a cached report without refetching the page.
func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	if s.cfg.Store == nil {
		return mcp.NewToolResultError("No report store is configured"), nil
	}

	report, found, err := s.cfg.Store.Get(url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Store lookup failed: %v", err)), nil
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("No cached report for '%s'; run analyze_url first", url)), nil
	}

	return mcp.NewToolResultText(formatJSON(report)), nil
}

// handleCompareURLs analyzes two URLs and compares them.
func (s *Server) handleCompareURLs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	urlA := request.GetString("url_a", "")
	urlB := request.GetString("url_b", "")
	if urlA == "" || urlB == "" {
		return mcp.NewToolResultError("url_a and url_b are required"), nil
	}

	s.log.WithFields(logrus.Fields{"url_a": urlA, "url_b": urlB}).Info("MCP compare_urls request")

	comparison, err := s.analyzer.CompareURLs(ctx, urlA, urlB, analyze.Options{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Comparison failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(comparison)), nil
}

// formatJSON formats data as indented JSON.
func formatJSON(data interface{}) string {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error formatting JSON: %v", err)
	}
	return string(jsonBytes)
}
