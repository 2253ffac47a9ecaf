package mcp

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// memStore is an in-memory ReportStore for handler tests.
type memStore struct {
	reports map[string]*models.Report
}

func newMemStore() *memStore {
	return &memStore{reports: make(map[string]*models.Report)}
}

func (m *memStore) Put(report *models.Report) error {
	m.reports[report.URL] = report
	return nil
}

func (m *memStore) Get(url string) (*models.Report, bool, error) {
	report, ok := m.reports[url]
	return report, ok, nil
}

func (m *memStore) Delete(url string) error {
	delete(m.reports, url)
	return nil
}

func (m *memStore) Count() (int, error) { return len(m.reports), nil }

func (m *memStore) RunGC(ctx context.Context, interval time.Duration) {}

func (m *memStore) Close() error { return nil }

func newTestServer(t *testing.T, store *memStore) *Server {
	t.Helper()

	cfg := &config.AppConfig{}
	_, err := cfg.Validate()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	serverCfg := &ServerConfig{
		AppConfig: cfg,
		Transport: "stdio",
		Logger:    logger,
	}
	if store != nil {
		serverCfg.Store = store
	}

	s, err := NewServer(serverCfg)
	require.NoError(t, err)
	return s
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewServer_RequiresAppConfig(t *testing.T) {
	_, err := NewServer(&ServerConfig{})
	assert.Error(t, err)
}

func TestRun_UnknownTransport(t *testing.T) {
	s := newTestServer(t, nil)
	s.cfg.Transport = "tcp"

	err := s.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestHandleListProfiles(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleListProfiles(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "googlebot")
	assert.Contains(t, text, "llm-generic")
}

func TestHandleAnalyzeURL_MissingURL(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleAnalyzeURL(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetReport_MissingURL(t *testing.T) {
	s := newTestServer(t, newMemStore())

	result, err := s.handleGetReport(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetReport_NoStore(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleGetReport(context.Background(), toolRequest(map[string]any{
		"url": "https://example.com/",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetReport_CacheMiss(t *testing.T) {
	s := newTestServer(t, newMemStore())

	result, err := s.handleGetReport(context.Background(), toolRequest(map[string]any{
		"url": "https://example.com/missing",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "analyze_url")
}

func TestHandleGetReport_CacheHit(t *testing.T) {
	store := newMemStore()
	report := &models.Report{
		ID:     "report-1234",
		URL:    "https://example.com/page",
		Status: models.ReportStatusOK,
	}
	require.NoError(t, store.Put(report))

	s := newTestServer(t, store)

	result, err := s.handleGetReport(context.Background(), toolRequest(map[string]any{
		"url": "https://example.com/page",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "report-1234")
}

func TestHandleCompareURLs_MissingArgs(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleCompareURLs(context.Background(), toolRequest(map[string]any{
		"url_a": "https://example.com/a",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFormatJSON(t *testing.T) {
	out := formatJSON(map[string]any{"grade": "B+", "total": 87.3})
	assert.Contains(t, out, "\"grade\": \"B+\"")
	assert.Contains(t, out, "\"total\": 87.3")
}
