// Package directives inspects the crawl-policy files a site publishes next
// to its pages: robots.txt, llms.txt and the sitemap URLs robots.txt
// advertises. The summary feeds crawler simulation and report output.
package directives

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// TextFetcher retrieves small plain-text resources. Satisfied by
// fetch.Fetcher.
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL, userAgent string) (body string, statusCode int, err error)
}

// hostPolicy caches one host's fetched policy files. A nil robots entry
// means the fetch or parse failed and the host is treated as unrestricted.
type hostPolicy struct {
	robots      *robotstxt.RobotsData
	hasLLMSTxt  bool
	llmsOutline []models.LLMSSection
}

// Checker fetches and caches per-host crawl policies.
type Checker struct {
	fetcher   TextFetcher
	userAgent string
	cache     map[string]*hostPolicy
	cacheMu   sync.Mutex
	log       *logrus.Logger
}

// NewChecker creates a Checker fetching as the given generic user agent.
func NewChecker(fetcher TextFetcher, userAgent string, log *logrus.Logger) *Checker {
	return &Checker{
		fetcher:   fetcher,
		userAgent: userAgent,
		cache:     make(map[string]*hostPolicy),
		log:       log,
	}
}

// Inspect summarizes the crawl policy that applies to pageURL for each of
// the given profiles. Policy files that are missing or unfetchable leave
// the page treated as crawlable; only a parsed disallow rule restricts it.
func (c *Checker) Inspect(ctx context.Context, pageURL string, profiles []models.CrawlerProfile) (*models.DirectiveSummary, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Hostname() == "" {
		return nil, fmt.Errorf("directive inspection needs an absolute URL, got %q", pageURL)
	}

	policy := c.hostPolicyFor(ctx, parsed)

	summary := &models.DirectiveSummary{
		IsCrawlable: true,
		HasLLMSTxt:  policy.hasLLMSTxt,
		LLMSOutline: policy.llmsOutline,
	}

	if policy.robots != nil {
		summary.HasRobotsTxt = true
		summary.Sitemaps = append(summary.Sitemaps, policy.robots.Sitemaps...)
		summary.HasSitemap = len(summary.Sitemaps) > 0

		pagePath := parsed.RequestURI()
		summary.IsCrawlable = policy.robots.TestAgent(pagePath, c.userAgent)
		if group := policy.robots.FindGroup(c.userAgent); group != nil {
			summary.CrawlDelay = group.CrawlDelay.Seconds()
		}

		summary.AgentAllowed = make(map[string]bool, len(profiles))
		for _, profile := range profiles {
			summary.AgentAllowed[profile.Key] = policy.robots.TestAgent(pagePath, profile.UserAgent)
		}
	}

	c.log.WithFields(logrus.Fields{
		"host":         parsed.Hostname(),
		"robots":       summary.HasRobotsTxt,
		"llms_txt":     summary.HasLLMSTxt,
		"sitemaps":     len(summary.Sitemaps),
		"is_crawlable": summary.IsCrawlable,
	}).Debug("Inspected crawl directives")

	return summary, nil
}

// hostPolicyFor returns the cached policy for the URL's host, fetching
// robots.txt and llms.txt on first use.
func (c *Checker) hostPolicyFor(ctx context.Context, pageURL *url.URL) *hostPolicy {
	host := pageURL.Hostname()

	c.cacheMu.Lock()
	policy, found := c.cache[host]
	c.cacheMu.Unlock()
	if found {
		return policy
	}

	policy = &hostPolicy{}
	hostLog := c.log.WithField("host", host)

	scheme := pageURL.Scheme
	if scheme != "http" && scheme != "https" {
		scheme = "https"
	}

	robotsURL := (&url.URL{Scheme: scheme, Host: pageURL.Host, Path: "/robots.txt"}).String()
	if body, status, err := c.fetcher.FetchText(ctx, robotsURL, c.userAgent); err == nil && status < 300 {
		data, parseErr := robotstxt.FromString(body)
		if parseErr != nil {
			hostLog.Warnf("Unparseable robots.txt: %v", parseErr)
		} else {
			policy.robots = data
		}
	} else if err != nil {
		hostLog.Debugf("No robots.txt: %v", err)
	}

	llmsURL := (&url.URL{Scheme: scheme, Host: pageURL.Host, Path: "/llms.txt"}).String()
	if body, status, err := c.fetcher.FetchText(ctx, llmsURL, c.userAgent); err == nil && status < 300 {
		policy.hasLLMSTxt = true
		policy.llmsOutline = ParseLLMSOutline(body)
	} else if err != nil {
		hostLog.Debugf("No llms.txt: %v", err)
	}

	c.cacheMu.Lock()
	c.cache[host] = policy
	c.cacheMu.Unlock()
	return policy
}
