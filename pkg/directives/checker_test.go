package directives

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// fakeFetcher serves canned bodies by URL and counts fetches.
type fakeFetcher struct {
	bodies  map[string]string
	fetches atomic.Int32
}

func (f *fakeFetcher) FetchText(_ context.Context, rawURL, _ string) (string, int, error) {
	f.fetches.Add(1)
	body, ok := f.bodies[rawURL]
	if !ok {
		return "", http.StatusNotFound, errors.New("not found")
	}
	return body, http.StatusOK, nil
}

func newTestChecker(bodies map[string]string) (*Checker, *fakeFetcher) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	fetcher := &fakeFetcher{bodies: bodies}
	return NewChecker(fetcher, "WebVisibilityBot/1.0", log), fetcher
}

const sampleRobots = `User-agent: *
Disallow: /private/
Crawl-delay: 2

User-agent: GPTBot
Disallow: /

Sitemap: https://example.com/sitemap.xml
`

var testProfiles = []models.CrawlerProfile{
	{Key: "googlebot", UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"},
	{Key: "llm-generic", UserAgent: "GPTBot/1.0"},
}

func TestInspect_RobotsPolicy(t *testing.T) {
	checker, _ := newTestChecker(map[string]string{
		"https://example.com/robots.txt": sampleRobots,
	})

	summary, err := checker.Inspect(context.Background(), "https://example.com/docs/page", testProfiles)
	require.NoError(t, err)

	assert.True(t, summary.HasRobotsTxt)
	assert.True(t, summary.HasSitemap)
	assert.Equal(t, []string{"https://example.com/sitemap.xml"}, summary.Sitemaps)
	assert.True(t, summary.IsCrawlable)
	assert.Equal(t, 2.0, summary.CrawlDelay)
	assert.False(t, summary.HasLLMSTxt)

	require.NotNil(t, summary.AgentAllowed)
	assert.True(t, summary.AgentAllowed["googlebot"])
	assert.False(t, summary.AgentAllowed["llm-generic"], "GPTBot is disallowed site-wide")
}

func TestInspect_DisallowedPath(t *testing.T) {
	checker, _ := newTestChecker(map[string]string{
		"https://example.com/robots.txt": sampleRobots,
	})

	summary, err := checker.Inspect(context.Background(), "https://example.com/private/report", testProfiles)
	require.NoError(t, err)

	assert.False(t, summary.IsCrawlable)
	assert.False(t, summary.AgentAllowed["googlebot"])
}

func TestInspect_MissingPolicyFilesMeansCrawlable(t *testing.T) {
	checker, _ := newTestChecker(nil)

	summary, err := checker.Inspect(context.Background(), "https://example.com/", testProfiles)
	require.NoError(t, err)

	assert.False(t, summary.HasRobotsTxt)
	assert.False(t, summary.HasLLMSTxt)
	assert.True(t, summary.IsCrawlable)
	assert.Nil(t, summary.AgentAllowed)
}

func TestInspect_CachesPerHost(t *testing.T) {
	checker, fetcher := newTestChecker(map[string]string{
		"https://example.com/robots.txt": sampleRobots,
	})

	_, err := checker.Inspect(context.Background(), "https://example.com/a", testProfiles)
	require.NoError(t, err)
	after := fetcher.fetches.Load()

	_, err = checker.Inspect(context.Background(), "https://example.com/b", testProfiles)
	require.NoError(t, err)

	assert.Equal(t, after, fetcher.fetches.Load(), "second inspection should hit the cache")
}

func TestInspect_LLMSTxt(t *testing.T) {
	checker, _ := newTestChecker(map[string]string{
		"https://example.com/llms.txt": "# Example\n\n## Docs\n\n- [Guide](https://example.com/guide): intro\n",
	})

	summary, err := checker.Inspect(context.Background(), "https://example.com/", testProfiles)
	require.NoError(t, err)

	assert.True(t, summary.HasLLMSTxt)
	require.Len(t, summary.LLMSOutline, 2)
	assert.Equal(t, "Example", summary.LLMSOutline[0].Title)
	assert.Equal(t, "Docs", summary.LLMSOutline[1].Title)
	require.Len(t, summary.LLMSOutline[1].Links, 1)
	assert.Equal(t, "Guide", summary.LLMSOutline[1].Links[0].Title)
	assert.Equal(t, "https://example.com/guide", summary.LLMSOutline[1].Links[0].URL)
}

func TestInspect_RelativeURLRejected(t *testing.T) {
	checker, _ := newTestChecker(nil)

	_, err := checker.Inspect(context.Background(), "/just/a/path", testProfiles)
	assert.Error(t, err)
}

func TestParseLLMSOutline(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ParseLLMSOutline(""))
		assert.Nil(t, ParseLLMSOutline("   \n"))
	})

	t.Run("section order preserved", func(t *testing.T) {
		outline := ParseLLMSOutline("# T\n\n## B\n\n## A\n\n## C\n")
		require.Len(t, outline, 4)
		assert.Equal(t, "T", outline[0].Title)
		assert.Equal(t, "B", outline[1].Title)
		assert.Equal(t, "A", outline[2].Title)
		assert.Equal(t, "C", outline[3].Title)
	})

	t.Run("links before any heading", func(t *testing.T) {
		outline := ParseLLMSOutline("[Home](https://example.com/)\n")
		require.Len(t, outline, 1)
		assert.Empty(t, outline[0].Title)
		require.Len(t, outline[0].Links, 1)
		assert.Equal(t, "https://example.com/", outline[0].Links[0].URL)
	})

	t.Run("multiple links per section", func(t *testing.T) {
		outline := ParseLLMSOutline("## Docs\n\n- [A](https://a.test): one\n- [B](https://b.test): two\n")
		require.Len(t, outline, 1)
		require.Len(t, outline[0].Links, 2)
		assert.Equal(t, "A", outline[0].Links[0].Title)
		assert.Equal(t, "B", outline[0].Links[1].Title)
	})
}
