package config

import "time"

// TargetConfig holds configuration specific to a single analysis target
type TargetConfig struct {
	URL              string   `yaml:"url"`
	UserAgent        string   `yaml:"user_agent,omitempty"`
	Profiles         []string `yaml:"profiles,omitempty"` // Profile keys to simulate, empty = all
	EnableLLMView    *bool    `yaml:"enable_llm_view,omitempty"`
	EnableDirectives *bool    `yaml:"enable_directives,omitempty"`
}

// AppConfig holds the global application configuration
type AppConfig struct {
	DefaultUserAgent        string                  `yaml:"default_user_agent"`
	DelayPerHost            time.Duration           `yaml:"delay_per_host,omitempty"`
	BatchWorkers            int                     `yaml:"batch_workers"`
	MaxConcurrentFetches    int64                   `yaml:"max_concurrent_fetches"`
	SemaphoreAcquireTimeout time.Duration           `yaml:"semaphore_acquire_timeout,omitempty"`
	StateDir                string                  `yaml:"state_dir"`
	CacheTTL                time.Duration           `yaml:"cache_ttl,omitempty"` // Report cache entry lifetime (0 = keep forever)
	MaxRetries              int                     `yaml:"max_retries,omitempty"`
	InitialRetryDelay       time.Duration           `yaml:"initial_retry_delay,omitempty"`
	MaxRetryDelay           time.Duration           `yaml:"max_retry_delay,omitempty"`
	TokenizerEncoding       string                  `yaml:"tokenizer_encoding,omitempty"`
	EnableLLMView           bool                    `yaml:"enable_llm_view,omitempty"`
	EnableDirectives        bool                    `yaml:"enable_directives,omitempty"`
	HTTPClientSettings      HTTPClientConfig        `yaml:"http_client_settings,omitempty"`
	Scoring                 ScoringConfig           `yaml:"scoring,omitempty"`
	Rendering               RenderingConfig         `yaml:"rendering,omitempty"`
	Targets                 map[string]TargetConfig `yaml:"targets,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // Explicitly enable/disable HTTP/2 attempt (use pointer for tri-state: nil=default, true=force, false=disable)
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// WeightSet assigns a weight to each score component on one axis.
// Weights must sum to 100; each component's weight is its maximum score.
type WeightSet struct {
	StaticContent  float64 `yaml:"static_content"`
	SemanticHTML   float64 `yaml:"semantic_html"`
	StructuredData float64 `yaml:"structured_data"`
	MetaTags       float64 `yaml:"meta_tags"`
	JavaScript     float64 `yaml:"javascript"`
	CrawlerAccess  float64 `yaml:"crawler_access"`
}

// Sum returns the total of all weights in the set.
func (w WeightSet) Sum() float64 {
	return w.StaticContent + w.SemanticHTML + w.StructuredData + w.MetaTags + w.JavaScript + w.CrawlerAccess
}

// IsZero reports whether no weight was configured at all.
func (w WeightSet) IsZero() bool {
	return w == WeightSet{}
}

// ScoringConfig holds the weight sets for both scoring axes
type ScoringConfig struct {
	Scraper WeightSet `yaml:"scraper,omitempty"`
	LLM     WeightSet `yaml:"llm,omitempty"`
}

// DefaultScraperWeights favors JavaScript independence: a simple scraper
// loses the most when content needs a runtime.
func DefaultScraperWeights() WeightSet {
	return WeightSet{
		StaticContent:  20,
		SemanticHTML:   20,
		StructuredData: 20,
		MetaTags:       10,
		JavaScript:     25,
		CrawlerAccess:  5,
	}
}

// DefaultLLMWeights favors static text and semantic structure, the inputs
// a language model actually consumes.
func DefaultLLMWeights() WeightSet {
	return WeightSet{
		StaticContent:  30,
		SemanticHTML:   25,
		StructuredData: 20,
		MetaTags:       15,
		JavaScript:     5,
		CrawlerAccess:  5,
	}
}

// RenderingConfig tunes the rendering classifier's confidence model
type RenderingConfig struct {
	FrameworkConfidenceBase float64  `yaml:"framework_confidence_base,omitempty"` // Starting confidence when a framework decides
	FrameworkConfidenceMax  float64  `yaml:"framework_confidence_max,omitempty"`  // Ceiling for framework-based verdicts
	IndicatorConfidenceBase float64  `yaml:"indicator_confidence_base,omitempty"` // Starting confidence for indicator-only verdicts
	IndicatorConfidenceMax  float64  `yaml:"indicator_confidence_max,omitempty"`  // Ceiling for indicator-only verdicts
	ConfidenceStep          float64  `yaml:"confidence_step,omitempty"`           // Added per matched signal
	HybridConfidence        float64  `yaml:"hybrid_confidence,omitempty"`
	UnknownConfidence       float64  `yaml:"unknown_confidence,omitempty"`
	LowConfidenceThreshold  float64  `yaml:"low_confidence_threshold,omitempty"`
	ExtraSSRPatterns        []string `yaml:"extra_ssr_patterns,omitempty"` // Additional SSR indicator regexes
	ExtraCSRPatterns        []string `yaml:"extra_csr_patterns,omitempty"` // Additional CSR indicator regexes
}

// GetEffectiveUserAgent determines the user agent for a target
func GetEffectiveUserAgent(targetCfg TargetConfig, appCfg AppConfig) string {
	if targetCfg.UserAgent != "" {
		return targetCfg.UserAgent
	}
	return appCfg.DefaultUserAgent
}

// GetEffectiveLLMView determines whether the markdown rendition is built
func GetEffectiveLLMView(targetCfg TargetConfig, appCfg AppConfig) bool {
	if targetCfg.EnableLLMView != nil {
		return *targetCfg.EnableLLMView
	}
	return appCfg.EnableLLMView // Fallback to global setting
}

// GetEffectiveDirectives determines whether robots.txt and llms.txt are fetched
func GetEffectiveDirectives(targetCfg TargetConfig, appCfg AppConfig) bool {
	if targetCfg.EnableDirectives != nil {
		return *targetCfg.EnableDirectives
	}
	return appCfg.EnableDirectives
}
