// Package simulate models what specific crawler classes can and cannot
// extract from a document, based purely on its static features.
package simulate

import "github.com/Chunkys0up7/webvisibility/pkg/models"

// Canonical profile keys.
const (
	ProfileGooglebot     = "googlebot"
	ProfileBingbot       = "bingbot"
	ProfileLLMGeneric    = "llm-generic"
	ProfileBasicScraper  = "basic-scraper"
	ProfileSocialCrawler = "social-crawler"
)

// profileRegistry is the canonical, ordered set of crawler profiles.
// Simulation batches and reports preserve this order.
var profileRegistry = []models.CrawlerProfile{
	{
		Key:              ProfileGooglebot,
		Name:             "Googlebot",
		UserAgent:        "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		ExecutesJS:       true,
		ProcessesImages:  true,
		AccessesCSS:      true,
		HandlesAjax:      true,
		FollowsRedirects: true,
		Limitations: []string{
			"Rendering happens in a deferred queue, not at crawl time",
			"Crawl budget limits how much JS-heavy content gets rendered",
		},
	},
	{
		Key:              ProfileBingbot,
		Name:             "Bingbot",
		UserAgent:        "Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
		ExecutesJS:       true,
		ProcessesImages:  true,
		AccessesCSS:      true,
		HandlesAjax:      false,
		FollowsRedirects: true,
		Limitations: []string{
			"JavaScript execution is slower and less complete than Googlebot",
			"Dynamic AJAX content is frequently missed",
		},
	},
	{
		Key:              ProfileLLMGeneric,
		Name:             "Generic LLM Crawler",
		UserAgent:        "Mozilla/5.0 (compatible; GPTBot/1.0; +https://openai.com/gptbot)",
		ExecutesJS:       false,
		ProcessesImages:  false,
		AccessesCSS:      false,
		HandlesAjax:      false,
		FollowsRedirects: true,
		Limitations: []string{
			"No JavaScript execution",
			"No image processing",
			"Reads static HTML text only",
		},
	},
	{
		Key:              ProfileBasicScraper,
		Name:             "Basic Scraper",
		UserAgent:        "python-requests/2.31.0",
		ExecutesJS:       false,
		ProcessesImages:  false,
		AccessesCSS:      false,
		HandlesAjax:      false,
		FollowsRedirects: true,
		Limitations: []string{
			"Raw HTTP fetch with HTML parsing only",
		},
	},
	{
		Key:              ProfileSocialCrawler,
		Name:             "Social Media Crawler",
		UserAgent:        "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
		ExecutesJS:       false,
		ProcessesImages:  true,
		AccessesCSS:      false,
		HandlesAjax:      false,
		FollowsRedirects: true,
		Limitations: []string{
			"Primarily reads Open Graph and Twitter Card tags",
			"No JavaScript execution",
		},
	},
}

// Profiles returns a copy of the registry in canonical order.
func Profiles() []models.CrawlerProfile {
	out := make([]models.CrawlerProfile, len(profileRegistry))
	copy(out, profileRegistry)
	return out
}

// ProfileKeys returns the registry keys in canonical order.
func ProfileKeys() []string {
	keys := make([]string, len(profileRegistry))
	for i, p := range profileRegistry {
		keys[i] = p.Key
	}
	return keys
}

// ProfileByKey looks up a profile. The second return is false for unknown
// keys.
func ProfileByKey(key string) (models.CrawlerProfile, bool) {
	for _, p := range profileRegistry {
		if p.Key == key {
			return p, true
		}
	}
	return models.CrawlerProfile{}, false
}
