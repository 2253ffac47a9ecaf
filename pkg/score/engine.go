// Package score turns document features into weighted scraper- and
// LLM-accessibility scores with letter grades and recommendations.
package score

import (
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/simulate"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// Component names in report order.
const (
	ComponentStaticContent  = "static_content"
	ComponentSemanticHTML   = "semantic_html"
	ComponentStructuredData = "structured_data"
	ComponentMetaTags       = "meta_tags"
	ComponentJavaScript     = "javascript"
	ComponentCrawlerAccess  = "crawler_access"
)

// Engine computes composite scores. Both axes share component percentages
// and differ only in weights.
type Engine struct {
	weights config.ScoringConfig
	sim     *simulate.Simulator
	log     *logrus.Logger
}

// NewEngine creates an Engine with validated weights.
func NewEngine(weights config.ScoringConfig, log *logrus.Logger) *Engine {
	return &Engine{
		weights: weights,
		sim:     simulate.NewSimulator(log),
		log:     log,
	}
}

// Score evaluates features on both axes. The crawler-access component uses
// a fresh generic-LLM simulation; callers that already ran the profile
// batch should use ScoreWithCrawler to avoid disagreement between report
// sections.
func (e *Engine) Score(features models.DocumentFeatures) (scraper, llm models.CompositeScore, recs []models.Recommendation) {
	profile, _ := simulate.ProfileByKey(simulate.ProfileLLMGeneric)
	var crawlerResult *models.CrawlerAccessibilityResult
	if result, err := e.sim.Simulate(profile, features); err == nil {
		crawlerResult = &result
	}
	return e.ScoreWithCrawler(features, crawlerResult)
}

// ScoreWithCrawler evaluates features using an existing generic-crawler
// simulation result for the crawler-access component. A nil result scores
// that component at a neutral 50%.
func (e *Engine) ScoreWithCrawler(features models.DocumentFeatures, crawlerResult *models.CrawlerAccessibilityResult) (scraper, llm models.CompositeScore, recs []models.Recommendation) {
	percentages := []componentResult{
		staticContentComponent(features),
		semanticHTMLComponent(features),
		structuredDataComponent(features),
		metaTagsComponent(features),
		javascriptComponent(features),
		crawlerAccessComponent(crawlerResult),
	}

	scraper = composite(percentages, e.weights.Scraper)
	llm = composite(percentages, e.weights.LLM)
	recs = buildRecommendations(features, percentages)

	e.log.WithFields(logrus.Fields{
		"scraper": scraper.Total,
		"llm":     llm.Total,
		"grade":   scraper.Grade,
	}).Debug("Scored document")

	return scraper, llm, recs
}

// componentResult is a component percentage before weighting.
type componentResult struct {
	name       string
	percentage float64 // [0, 100]
	issues     []string
	strengths  []string
}

// composite applies one weight set to the shared component percentages.
// Each component's weight is its maximum score, so the total is the plain
// sum of component scores.
func composite(results []componentResult, weights config.WeightSet) models.CompositeScore {
	weightFor := func(name string) float64 {
		switch name {
		case ComponentStaticContent:
			return weights.StaticContent
		case ComponentSemanticHTML:
			return weights.SemanticHTML
		case ComponentStructuredData:
			return weights.StructuredData
		case ComponentMetaTags:
			return weights.MetaTags
		case ComponentJavaScript:
			return weights.JavaScript
		case ComponentCrawlerAccess:
			return weights.CrawlerAccess
		}
		return 0
	}

	score := models.CompositeScore{}
	for _, r := range results {
		weight := weightFor(r.name)
		component := models.ScoreComponent{
			Name:       r.name,
			Score:      r.percentage / 100 * weight,
			MaxScore:   weight,
			Percentage: r.percentage,
			Issues:     r.issues,
			Strengths:  r.strengths,
		}
		score.Components = append(score.Components, component)
		score.Total += component.Score
	}
	score.Total = utils.Clamp(score.Total, 0, 100)
	score.Grade = models.Grade(score.Total)
	return score
}
