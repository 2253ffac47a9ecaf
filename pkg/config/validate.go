package config

import (
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

const weightSumTolerance = 0.001

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// DefaultUserAgent
	if c.DefaultUserAgent == "" {
		c.DefaultUserAgent = "WebVisibilityBot/1.0 (+https://github.com/Chunkys0up7/webvisibility)"
	}

	// BatchWorkers
	if c.BatchWorkers <= 0 {
		warnings = append(warnings, "batch_workers should be > 0, defaulting to 4")
		c.BatchWorkers = 4
	}

	// MaxConcurrentFetches
	if c.MaxConcurrentFetches <= 0 {
		warnings = append(warnings, "max_concurrent_fetches should be > 0, defaulting to 8")
		c.MaxConcurrentFetches = 8
	}

	// StateDir
	if c.StateDir == "" {
		warnings = append(warnings, "state_dir is empty, defaulting to './webvis_state'")
		c.StateDir = "./webvis_state"
	}

	// CacheTTL
	if c.CacheTTL < 0 {
		warnings = append(warnings, "cache_ttl cannot be negative, disabling expiry")
		c.CacheTTL = 0
	}

	// MaxRetries
	if c.MaxRetries < 0 {
		warnings = append(warnings, "max_retries cannot be negative, setting to 0")
		c.MaxRetries = 0
	}
	if c.MaxRetries == 0 && c.InitialRetryDelay == 0 {
		c.MaxRetries = 3
	}

	// Retry delays (only if retries enabled)
	if c.MaxRetries > 0 {
		if c.InitialRetryDelay <= 0 {
			c.InitialRetryDelay = 1 * time.Second
		}
		if c.MaxRetryDelay <= 0 {
			c.MaxRetryDelay = 30 * time.Second
		}
	}

	// InitialRetryDelay > MaxRetryDelay check
	if c.InitialRetryDelay > c.MaxRetryDelay && c.MaxRetryDelay > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"initial_retry_delay (%v) > max_retry_delay (%v), using max_retry_delay for initial",
			c.InitialRetryDelay, c.MaxRetryDelay))
		c.InitialRetryDelay = c.MaxRetryDelay
	}

	// SemaphoreAcquireTimeout
	if c.SemaphoreAcquireTimeout <= 0 {
		c.SemaphoreAcquireTimeout = 30 * time.Second
	}

	// TokenizerEncoding
	if c.TokenizerEncoding == "" {
		c.TokenizerEncoding = "cl100k_base"
	}

	// HTTPClientSettings defaults
	c.validateHTTPClientSettings()

	// Scoring weights: default when unset, fatal when set wrong. A weight
	// set that does not sum to 100 silently skews every score, so it is
	// rejected rather than patched.
	if c.Scoring.Scraper.IsZero() {
		c.Scoring.Scraper = DefaultScraperWeights()
	}
	if c.Scoring.LLM.IsZero() {
		c.Scoring.LLM = DefaultLLMWeights()
	}
	if err := validateWeightSet("scoring.scraper", c.Scoring.Scraper); err != nil {
		return warnings, err
	}
	if err := validateWeightSet("scoring.llm", c.Scoring.LLM); err != nil {
		return warnings, err
	}

	// Rendering classifier constants
	warnings = append(warnings, c.validateRendering()...)

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.Timeout <= 0 {
		h.Timeout = 45 * time.Second
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}

func validateWeightSet(name string, w WeightSet) error {
	for _, v := range []float64{w.StaticContent, w.SemanticHTML, w.StructuredData, w.MetaTags, w.JavaScript, w.CrawlerAccess} {
		if v < 0 {
			return fmt.Errorf("%w: %s contains a negative weight", utils.ErrConfigValidation, name)
		}
	}
	if math.Abs(w.Sum()-100) > weightSumTolerance {
		return fmt.Errorf("%w: %s weights sum to %.3f, want 100", utils.ErrScoringWeights, name, w.Sum())
	}
	return nil
}

// validateRendering applies defaults and clamps misconfigured confidence
// values back into range.
func (c *AppConfig) validateRendering() (warnings []string) {
	r := &c.Rendering
	defaults := []struct {
		field *float64
		name  string
		def   float64
	}{
		{&r.FrameworkConfidenceBase, "framework_confidence_base", 0.5},
		{&r.FrameworkConfidenceMax, "framework_confidence_max", 0.9},
		{&r.IndicatorConfidenceBase, "indicator_confidence_base", 0.3},
		{&r.IndicatorConfidenceMax, "indicator_confidence_max", 0.7},
		{&r.ConfidenceStep, "confidence_step", 0.1},
		{&r.HybridConfidence, "hybrid_confidence", 0.8},
		{&r.UnknownConfidence, "unknown_confidence", 0.2},
		{&r.LowConfidenceThreshold, "low_confidence_threshold", 0.5},
	}
	for _, d := range defaults {
		if *d.field == 0 {
			*d.field = d.def
			continue
		}
		if *d.field < 0 || *d.field > 1 {
			warnings = append(warnings, fmt.Sprintf(
				"rendering.%s (%v) outside [0,1], using default %v", d.name, *d.field, d.def))
			*d.field = d.def
		}
	}

	// Custom indicator patterns must compile; misconfigured regexes are
	// dropped with a warning rather than failing startup.
	if _, err := utils.CompileRegexPatterns(r.ExtraSSRPatterns); err != nil {
		warnings = append(warnings, fmt.Sprintf("rendering.extra_ssr_patterns invalid, ignoring: %v", err))
		r.ExtraSSRPatterns = nil
	}
	if _, err := utils.CompileRegexPatterns(r.ExtraCSRPatterns); err != nil {
		warnings = append(warnings, fmt.Sprintf("rendering.extra_csr_patterns invalid, ignoring: %v", err))
		r.ExtraCSRPatterns = nil
	}
	return warnings
}

// Validate checks TargetConfig fields.
// Returns collected warnings and any fatal error.
func (c *TargetConfig) Validate() (warnings []string, err error) {
	// Required: URL
	if c.URL == "" {
		return nil, fmt.Errorf("%w: target has no url", utils.ErrConfigValidation)
	}
	parsed, parseErr := url.Parse(c.URL)
	if parseErr != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: target url %q is not absolute", utils.ErrConfigValidation, c.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: target url %q has unsupported scheme %q", utils.ErrConfigValidation, c.URL, parsed.Scheme)
	}
	return warnings, nil
}
