package simulate

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

const baseScore = 100.0

// Capability bonuses applied after penalties.
const (
	bonusExecutesJS      = 10.0
	bonusProcessesImages = 5.0
	bonusAccessesCSS     = 5.0
)

// Simulator evaluates crawler profiles against document features.
type Simulator struct {
	log *logrus.Logger
}

// NewSimulator creates a Simulator logging through the given logger.
func NewSimulator(log *logrus.Logger) *Simulator {
	return &Simulator{log: log}
}

// Simulate computes one profile's view of the document. The result is a
// pure function of (profile, features).
func (s *Simulator) Simulate(profile models.CrawlerProfile, features models.DocumentFeatures) (models.CrawlerAccessibilityResult, error) {
	return s.SimulateWithDirectives(profile, features, nil)
}

// SimulateWithDirectives additionally folds robots.txt policy into the
// profile's view: a page path disallowed for the profile's agent becomes an
// inaccessible entry on top of the capability checks. A nil summary means
// no policy was fetched and changes nothing.
func (s *Simulator) SimulateWithDirectives(profile models.CrawlerProfile, features models.DocumentFeatures, directives *models.DirectiveSummary) (models.CrawlerAccessibilityResult, error) {
	if profile.Key == "" {
		return models.CrawlerAccessibilityResult{}, fmt.Errorf("empty profile: %w", utils.ErrUnknownProfile)
	}

	result := models.CrawlerAccessibilityResult{
		Crawler:      profile.Key,
		Accessible:   map[models.ContentCategory]models.ContentAccess{},
		Inaccessible: map[models.ContentCategory]models.ContentAccess{},
	}

	s.addAccessible(profile, features, &result)
	s.addInaccessible(profile, features, &result)

	if directives != nil && directives.HasRobotsTxt {
		if allowed, known := directives.AgentAllowed[profile.Key]; known && !allowed {
			result.Inaccessible[models.CategoryRobotsBlocked] = models.ContentAccess{
				Impact:      models.ImpactCritical,
				Explanation: "robots.txt disallows this path for the profile's user agent",
			}
			result.Evidence = append(result.Evidence, "robots.txt disallow rule matches the page path")
		}
	}

	score := baseScore
	// Fixed category order keeps scoring and recommendations stable.
	for _, cat := range inaccessibleOrder {
		entry, ok := result.Inaccessible[cat]
		if !ok {
			continue
		}
		score -= entry.Impact.Penalty()
		if rec, found := categoryRecommendations[cat]; found {
			result.Recommendations = append(result.Recommendations, rec)
		}
	}

	if profile.ExecutesJS {
		score += bonusExecutesJS
	}
	if profile.ProcessesImages {
		score += bonusProcessesImages
	}
	if profile.AccessesCSS {
		score += bonusAccessesCSS
	}
	result.AccessibilityScore = utils.Clamp(score, 0, 100)

	s.log.WithFields(logrus.Fields{
		"profile": profile.Key,
		"score":   result.AccessibilityScore,
	}).Debug("Profile simulated")

	return result, nil
}

// SimulateAll fans the registry (or the subset named by keys) out across
// goroutines and collects per-profile outcomes. One profile failing, even
// panicking, never takes down the batch; the failure becomes that
// profile's outcome.
func (s *Simulator) SimulateAll(ctx context.Context, features models.DocumentFeatures, directives *models.DirectiveSummary, keys []string) []models.ProfileOutcome {
	if len(keys) == 0 {
		keys = ProfileKeys()
	}

	outcomes := make([]models.ProfileOutcome, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		outcomes[i].ProfileKey = key

		if err := ctx.Err(); err != nil {
			outcomes[i].Error = err.Error()
			continue
		}

		profile, ok := ProfileByKey(key)
		if !ok {
			outcomes[i].Error = fmt.Sprintf("%v: %q", utils.ErrUnknownProfile, key)
			continue
		}

		wg.Add(1)
		go func(i int, profile models.CrawlerProfile) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i].Result = nil
					outcomes[i].Error = fmt.Sprintf("%v: panic: %v", utils.ErrProfileSimulation, r)
					s.log.WithField("profile", profile.Key).Errorf("Simulation panicked: %v", r)
				}
			}()

			result, err := s.SimulateWithDirectives(profile, features, directives)
			if err != nil {
				outcomes[i].Error = err.Error()
				return
			}
			outcomes[i].Result = &result
		}(i, profile)
	}
	wg.Wait()
	return outcomes
}

// inaccessibleOrder fixes the iteration order over penalty categories.
var inaccessibleOrder = []models.ContentCategory{
	models.CategoryRobotsBlocked,
	models.CategoryDynamic,
	models.CategoryJavaScript,
	models.CategoryAjax,
	models.CategoryImages,
	models.CategoryCSS,
}

var categoryRecommendations = map[models.ContentCategory]string{
	models.CategoryRobotsBlocked: "Allow this path in robots.txt for crawlers that should index it",
	models.CategoryDynamic:       "Serve dynamic content pre-rendered: use SSR or static generation so it exists in the initial HTML",
	models.CategoryJavaScript:    "Provide meaningful HTML content without requiring JavaScript execution",
	models.CategoryAjax:          "Embed initial data in the HTML instead of loading it via AJAX after page load",
	models.CategoryImages:        "Add descriptive alt text so non-visual crawlers still capture image meaning",
	models.CategoryCSS:           "Keep essential content out of CSS-dependent constructs (pseudo-elements, background images)",
}

func (s *Simulator) addAccessible(profile models.CrawlerProfile, features models.DocumentFeatures, result *models.CrawlerAccessibilityResult) {
	result.Accessible[models.CategoryTextContent] = models.ContentAccess{
		Available:   true,
		Explanation: fmt.Sprintf("%d words of static text in the raw HTML", features.Content.WordCount),
	}
	result.Accessible[models.CategoryHTMLStructure] = models.ContentAccess{
		Available:   true,
		Explanation: fmt.Sprintf("%d elements parseable without rendering", features.Structure.TotalElements),
	}
	result.Accessible[models.CategoryMetaTags] = models.ContentAccess{
		Available:   true,
		Explanation: fmt.Sprintf("%d meta tags readable from the document head", len(features.Meta.MetaTags)),
	}
	result.Accessible[models.CategoryLinks] = models.ContentAccess{
		Available:   true,
		Explanation: fmt.Sprintf("%d links available for discovery", features.Content.Links),
	}

	if features.Content.WordCount > 0 {
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("static text: %d words, %d paragraphs", features.Content.WordCount, features.Content.Paragraphs))
	}

	if profile.ExecutesJS && features.JavaScript.TotalScripts > 0 {
		result.Accessible[models.CategoryJavaScript] = models.ContentAccess{
			Available:   true,
			Explanation: fmt.Sprintf("executes the page's %d scripts", features.JavaScript.TotalScripts),
		}
	}
	if profile.HandlesAjax && features.JavaScript.HasAjax {
		result.Accessible[models.CategoryAjax] = models.ContentAccess{
			Available:   true,
			Explanation: "follows AJAX data loading",
		}
	}
	if profile.ProcessesImages && features.Content.Images > 0 {
		result.Accessible[models.CategoryImages] = models.ContentAccess{
			Available:   true,
			Explanation: fmt.Sprintf("processes the page's %d images", features.Content.Images),
		}
	}
	if profile.AccessesCSS && features.Content.Stylesheets > 0 {
		result.Accessible[models.CategoryCSS] = models.ContentAccess{
			Available:   true,
			Explanation: "applies stylesheets when evaluating layout and visibility",
		}
	}
}

// addInaccessible records each content class the profile cannot reach but
// the document actually uses.
func (s *Simulator) addInaccessible(profile models.CrawlerProfile, features models.DocumentFeatures, result *models.CrawlerAccessibilityResult) {
	if !profile.ExecutesJS && features.JavaScript.DynamicContentDetected {
		result.Inaccessible[models.CategoryDynamic] = models.ContentAccess{
			Impact:      models.ImpactCritical,
			Explanation: "page content is built client side and never appears in the static HTML",
		}
		result.Evidence = append(result.Evidence, "dynamic content detected without JS execution capability")
	}
	if !profile.ExecutesJS && features.JavaScript.TotalScripts > 0 {
		result.Inaccessible[models.CategoryJavaScript] = models.ContentAccess{
			Impact:      models.ImpactHigh,
			Explanation: fmt.Sprintf("%d scripts present but never executed", features.JavaScript.TotalScripts),
		}
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("%d scripts (%d external, %d inline) skipped", features.JavaScript.TotalScripts,
				features.JavaScript.ExternalScripts, features.JavaScript.InlineScripts))
	}
	if !profile.HandlesAjax && features.JavaScript.HasAjax {
		result.Inaccessible[models.CategoryAjax] = models.ContentAccess{
			Impact:      models.ImpactHigh,
			Explanation: "data loaded via AJAX after page load is invisible",
		}
		result.Evidence = append(result.Evidence, "AJAX calls detected in script content")
	}
	if !profile.ProcessesImages && features.Content.Images > 0 {
		result.Inaccessible[models.CategoryImages] = models.ContentAccess{
			Impact:      models.ImpactMedium,
			Explanation: fmt.Sprintf("%d images not processed", features.Content.Images),
		}
	}
	if !profile.AccessesCSS && features.Content.Stylesheets > 0 {
		result.Inaccessible[models.CategoryCSS] = models.ContentAccess{
			Impact:      models.ImpactLow,
			Explanation: "styling and CSS-conveyed meaning is ignored",
		}
	}
}
