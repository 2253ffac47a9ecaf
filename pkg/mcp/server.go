// Package mcp exposes the analyzer over the Model Context Protocol so
// agent tooling can score pages and read cached reports.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/analyze"
	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/storage"
)

const (
	serverName    = "webvisibility"
	serverVersion = "1.0.0"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	AppConfig *config.AppConfig
	Store     storage.ReportStore // Optional report cache
	Transport string              // "stdio" or "sse"
	Port      int
	Logger    *logrus.Logger
}

// Server wraps the MCP server around the analyzer.
type Server struct {
	mcpServer *server.MCPServer
	analyzer  *analyze.Analyzer
	cfg       *ServerConfig
	log       *logrus.Entry
}

// NewServer creates an MCP server instance with all tools registered.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg.AppConfig == nil {
		return nil, fmt.Errorf("AppConfig is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		analyzer:  analyze.NewAnalyzer(cfg.AppConfig, cfg.Store, cfg.Logger),
		cfg:       cfg,
		log:       cfg.Logger.WithField("component", "mcp"),
	}

	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	analyzeURLTool := mcp.NewTool("analyze_url",
		mcp.WithDescription("Analyze a URL's scraper and LLM accessibility: features, crawler simulations, weighted scores with letter grades, and recommendations"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL to analyze"),
		),
		mcp.WithString("user_agent",
			mcp.Description("User agent for the fetch (defaults to the configured one)"),
		),
		mcp.WithBoolean("include_directives",
			mcp.Description("Also fetch and evaluate robots.txt and llms.txt (default: true)"),
		),
		mcp.WithBoolean("skip_cache",
			mcp.Description("Bypass the report cache and re-analyze"),
		),
	)
	s.mcpServer.AddTool(analyzeURLTool, s.handleAnalyzeURL)

	llmViewTool := mcp.NewTool("llm_view",
		mcp.WithDescription("Return the markdown rendition of a page's statically accessible content, the page as a non-rendering language model ingests it, with token and chunk statistics"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL to render"),
		),
	)
	s.mcpServer.AddTool(llmViewTool, s.handleLLMView)

	listProfilesTool := mcp.NewTool("list_profiles",
		mcp.WithDescription("List the built-in crawler profiles and their capabilities"),
	)
	s.mcpServer.AddTool(listProfilesTool, s.handleListProfiles)

	getReportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Get the cached analysis report for a URL without refetching"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL whose cached report to retrieve"),
		),
	)
	s.mcpServer.AddTool(getReportTool, s.handleGetReport)

	compareURLsTool := mcp.NewTool("compare_urls",
		mcp.WithDescription("Analyze two URLs and compare their content similarity, scores and rendering strategies"),
		mcp.WithString("url_a",
			mcp.Required(),
			mcp.Description("First URL"),
		),
		mcp.WithString("url_b",
			mcp.Required(),
			mcp.Description("Second URL"),
		),
	)
	s.mcpServer.AddTool(compareURLsTool, s.handleCompareURLs)

	s.log.Infof("Registered %d MCP tools", 5)
}

// Run starts the MCP server with the configured transport.
func (s *Server) Run() error {
	switch s.cfg.Transport {
	case "stdio":
		s.log.Info("Starting MCP server with stdio transport")
		return server.ServeStdio(s.mcpServer)
	case "sse":
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.log.Infof("Starting MCP server with SSE transport on %s", addr)
		sseServer := server.NewSSEServer(s.mcpServer)
		return sseServer.Start(addr)
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", s.cfg.Transport)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down MCP server...")
	if s.cfg.Store != nil {
		return s.cfg.Store.Close()
	}
	return nil
}
