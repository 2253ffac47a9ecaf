package models

// ContentCategory names one class of page content a crawler may or may not
// be able to reach.
type ContentCategory string

const (
	CategoryTextContent   ContentCategory = "text_content"
	CategoryHTMLStructure ContentCategory = "html_structure"
	CategoryMetaTags      ContentCategory = "meta_tags"
	CategoryLinks         ContentCategory = "links"
	CategoryJavaScript    ContentCategory = "javascript_content"
	CategoryAjax          ContentCategory = "ajax_content"
	CategoryImages        ContentCategory = "image_content"
	CategoryCSS           ContentCategory = "css_content"
	CategoryDynamic       ContentCategory = "dynamic_content"
	CategoryRobotsBlocked ContentCategory = "robots_disallowed"
)

// ImpactLevel grades how badly missing content hurts a crawler's view of
// the page.
type ImpactLevel string

const (
	ImpactCritical ImpactLevel = "critical"
	ImpactHigh     ImpactLevel = "high"
	ImpactMedium   ImpactLevel = "medium"
	ImpactLow      ImpactLevel = "low"
)

// Penalty returns the score deduction for an inaccessible category at this
// impact level.
func (i ImpactLevel) Penalty() float64 {
	switch i {
	case ImpactCritical:
		return 40
	case ImpactHigh:
		return 25
	case ImpactMedium:
		return 15
	case ImpactLow:
		return 5
	}
	return 0
}

// ContentAccess describes one content category from a single crawler's
// point of view.
type ContentAccess struct {
	Available   bool        `json:"available"`
	Impact      ImpactLevel `json:"impact,omitempty"` // Set on inaccessible entries
	Explanation string      `json:"explanation"`
}

// CrawlerProfile models the capabilities of one class of crawler. Profiles
// are static data; the registry in the simulate package owns the canonical
// set.
type CrawlerProfile struct {
	Key              string   `json:"key"`  // Stable identifier, e.g. "googlebot"
	Name             string   `json:"name"` // Human-readable name
	UserAgent        string   `json:"user_agent"`
	ExecutesJS       bool     `json:"executes_js"`
	ProcessesImages  bool     `json:"processes_images"`
	AccessesCSS      bool     `json:"accesses_css"`
	HandlesAjax      bool     `json:"handles_ajax"`
	FollowsRedirects bool     `json:"follows_redirects"`
	Limitations      []string `json:"limitations,omitempty"`
}

// CrawlerAccessibilityResult is the outcome of simulating one profile
// against a document's features.
type CrawlerAccessibilityResult struct {
	Crawler            string                            `json:"crawler"` // Profile key
	AccessibilityScore float64                           `json:"accessibility_score"` // [0, 100]
	Accessible         map[ContentCategory]ContentAccess `json:"accessible"`
	Inaccessible       map[ContentCategory]ContentAccess `json:"inaccessible"`
	Evidence           []string                          `json:"evidence,omitempty"`
	Recommendations    []string                          `json:"recommendations,omitempty"`
}

// ProfileOutcome pairs a profile key with either its simulation result or
// the error that kept it from completing. A batch of outcomes preserves
// registry order.
type ProfileOutcome struct {
	ProfileKey string                      `json:"profile_key"`
	Result     *CrawlerAccessibilityResult `json:"result,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

// DirectiveSummary condenses crawl-policy files fetched alongside the page
// for use in scoring and reports.
type DirectiveSummary struct {
	HasRobotsTxt bool            `json:"has_robots_txt"`
	HasSitemap   bool            `json:"has_sitemap"`
	HasLLMSTxt   bool            `json:"has_llms_txt"`
	IsCrawlable  bool            `json:"is_crawlable"` // Page path allowed for a generic agent
	Sitemaps     []string        `json:"sitemaps,omitempty"`
	AgentAllowed map[string]bool `json:"agent_allowed,omitempty"` // Profile key -> page path allowed
	CrawlDelay   float64         `json:"crawl_delay,omitempty"`   // Seconds, generic agent
	LLMSOutline  []LLMSSection   `json:"llms_outline,omitempty"`
}

// LLMSSection is one heading-delimited section of an llms.txt file with
// the links it lists, in document order.
type LLMSSection struct {
	Title string     `json:"title"`
	Links []LLMSLink `json:"links,omitempty"`
}

// LLMSLink is a single link entry inside an llms.txt section.
type LLMSLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ContentComparison measures how much of the rendered page is visible in
// the static HTML.
type ContentComparison struct {
	StaticWordCount     int     `json:"static_word_count"`
	RenderedWordCount   int     `json:"rendered_word_count"`
	Similarity          float64 `json:"similarity"` // [0, 1] word-overlap ratio
	JavaScriptDependent bool    `json:"javascript_dependent"`
}
